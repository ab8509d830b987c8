package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Shopify.ReplayWindow)
	assert.Contains(t, cfg.Shopify.Scopes, "read_orders")
	assert.ErrorIs(t, cfg.Shopify.Validate(), ErrMissingCredentials)
	assert.ErrorIs(t, cfg.Server.Validate(), ErrSessionKey)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	doc := `
log:
  level: debug
shopify:
  api_key: from-file
  secret: file-secret
  replay_window: 1h
server:
  addr: ":9000"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(doc), 0o600))
	t.Setenv("WIREBIND_SHOPIFY__SECRET", "env-secret")
	t.Setenv("WIREBIND_SERVER__ADDR", ":9100")
	t.Setenv("WIREBIND_SHOPIFY__SCOPES", "read_orders,write_orders")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":9200"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "file beats defaults")
	assert.Equal(t, "from-file", cfg.Shopify.APIKey)
	assert.Equal(t, "env-secret", cfg.Shopify.Secret, "env beats file")
	assert.Equal(t, ":9200", cfg.Server.Addr, "flags beat env")
	assert.Equal(t, time.Hour, cfg.Shopify.ReplayWindow)
	assert.Equal(t, []string{"read_orders", "write_orders"}, cfg.Shopify.Scopes)
	assert.NoError(t, cfg.Shopify.Validate())
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	t.Setenv("WIREBIND_LOG__FORMAT", "xml")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "log.format")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "shopify.api_key", envKey("WIREBIND_SHOPIFY__API_KEY"))
	assert.Equal(t, "schema", envKey("WIREBIND_SCHEMA"))
}
