package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/catclub/catclub/internal/flagx"
	"github.com/catclub/catclub/internal/timex"
)

// jsonConfig is the DTO for JSON unmarshalling. timex.Duration lets the
// file write the timeout as "15s" or as integer nanoseconds.
type jsonConfig struct {
	BaseURL        string         `json:"base_url"`
	CredentialsDSN string         `json:"credentials_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJSON overlays cfg with values from the JSON file named by -c or
// -config. Missing flag means no file is loaded. Read or unmarshal errors
// panic; config problems should stop the program at startup.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.CredentialsDSN != "" {
		cfg.CredentialsDSN = jc.CredentialsDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
