package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete kiosk configuration, loadable from environment
// variables (KIOSK_ prefix), flags, or YAML config files. Every field has a
// default, so a bare no-argument invocation works.
type Config struct {
	Restaurant string `default:"Beach Side Restaurant" usage:"Restaurant name shown in the welcome banner"`
	MinimumAge int    `default:"21" usage:"Minimum age for restricted menu items" flag:"minimum-age"`
	Verify     VerifyConfig
}

// VerifyConfig controls the remote ID verification service. Remote
// verification is enabled only when an API key is configured.
type VerifyConfig struct {
	BaseURL string        `default:"https://id-verification-service.com/api" usage:"ID verification service base URL" flag:"verify-base-url"`
	APIKey  string        `usage:"ID verification API key (KIOSK_VERIFY_APIKEY); empty disables remote verification" flag:"verify-api-key"`
	Timeout time.Duration `default:"10s" usage:"ID verification request timeout" flag:"verify-timeout"`
}

// Enabled reports whether remote ID verification is configured.
func (c VerifyConfig) Enabled() bool {
	return c.APIKey != ""
}

// LoadConfig loads configuration from environment variables and YAML config
// files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "KIOSK",
		Files:     []string{"kiosk.yaml", "/etc/kiosk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.MinimumAge < 1 {
		return nil, errors.New("minimum age must be positive")
	}
	if cfg.Verify.Enabled() && cfg.Verify.BaseURL == "" {
		return nil, errors.New("verification base URL is required when an API key is set")
	}

	return &cfg, nil
}
