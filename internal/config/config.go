// Package config loads wirebind settings from defaults, an optional YAML
// file, WIREBIND_ environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/reoring/wirebind/internal/logging"
)

// FileName is looked up in the working directory when no file is given.
const FileName = "wirebind.yaml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: WIREBIND_SHOPIFY__API_KEY sets shopify.api_key.
const EnvPrefix = "WIREBIND_"

const minSessionKey = 32

var (
	ErrMissingCredentials = errors.New("config: shopify api_key and secret are required")
	ErrSessionKey         = errors.New("config: server.session_key must be at least 32 bytes")
)

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Shopify ShopifyConfig `koanf:"shopify"`
	Server  ServerConfig  `koanf:"server"`
	// Schema is the default schema file for the bind, present and schema commands.
	Schema string `koanf:"schema"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type ShopifyConfig struct {
	APIKey       string        `koanf:"api_key"`
	Secret       string        `koanf:"secret"`
	Scopes       []string      `koanf:"scopes"`
	RedirectURI  string        `koanf:"redirect_uri"`
	ReplayWindow time.Duration `koanf:"replay_window"`
}

type ServerConfig struct {
	Addr          string `koanf:"addr"`
	SessionKey    string `koanf:"session_key"`
	SecureCookies bool   `koanf:"secure_cookies"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":             "info",
		"log.format":            "text",
		"shopify.scopes":        []string{"read_orders", "read_customers", "read_draft_orders", "read_shipping", "read_products", "write_products"},
		"shopify.redirect_uri":  "http://localhost:8000/integrations/shopify/callback",
		"shopify.replay_window": "24h",
		"server.addr":           ":8000",
	}
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"addr":       "server.addr",
	"schema":     "schema",
}

// Load reads the configuration. An explicit cfgFile must exist; otherwise
// FileName is used when present. flags may be nil; only flags that were set
// override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(FileName); err == nil {
			path = FileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("config: flags: %w", err)
		}
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Shopify.ReplayWindow <= 0 {
		return fmt.Errorf("config: shopify.replay_window must be positive")
	}
	return nil
}

// Validate checks the credentials needed to talk to Shopify.
func (s ShopifyConfig) Validate() error {
	if s.APIKey == "" || s.Secret == "" {
		return ErrMissingCredentials
	}
	if s.RedirectURI == "" {
		return fmt.Errorf("config: shopify.redirect_uri is required")
	}
	return nil
}

// Validate checks the settings needed to serve HTTP.
func (s ServerConfig) Validate() error {
	if len(s.SessionKey) < minSessionKey {
		return ErrSessionKey
	}
	return nil
}
