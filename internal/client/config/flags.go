package config

import (
	"flag"
	"os"
	"time"

	"github.com/catclub/catclub/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   base URL of the platform API
//	-d string   sqlite DSN of the local credentials database
//	-t int      request timeout in seconds
//
// Args are filtered through flagx.FilterArgs so other packages' flags do
// not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the platform API")
	fs.StringVar(&cfg.CredentialsDSN, "d", cfg.CredentialsDSN, "sqlite DSN of the credentials database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout in seconds")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
