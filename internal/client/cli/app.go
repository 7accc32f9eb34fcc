// Package cli implements the interactive CatClub command-line client: a
// small REPL over the session manager and the entity stores.
package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/config"
	"github.com/catclub/catclub/internal/client/credentials"
	"github.com/catclub/catclub/internal/client/session"
	"github.com/catclub/catclub/internal/client/stores"
	"github.com/catclub/catclub/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Manager
	cats    *stores.CatStore
	posts   *stores.PostStore
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := credentials.OpenDatabase(ctx, cfg.CredentialsDSN)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	sm := session.NewManager(client, credentials.NewSQLiteStore(db), log)
	exec := api.NewExecutor(client, sm)

	return &App{
		config:  cfg,
		session: sm,
		cats:    stores.NewCatStore(exec, log),
		posts:   stores.NewPostStore(exec, sm, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		log:     log,
	}, nil
}

// Run restores any persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		if !errors.Is(err, session.ErrNoStoredToken) {
			a.log.Warn(ctx, "could not restore session", "error", err)
		}
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin), a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated
}

func (a *App) status() string {
	s := a.session.Current()
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return "(" + s.User.Username + ")"
}
