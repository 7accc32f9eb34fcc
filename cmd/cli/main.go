package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/catclub/catclub/internal/client/cli"
	"github.com/catclub/catclub/internal/client/config"
	"github.com/catclub/catclub/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
