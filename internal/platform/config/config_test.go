package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates path under root, making parent directories as needed.
func writeFile(t *testing.T, root, path, content string) {
	t.Helper()

	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "go-twitter-connections", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)
	assert.Equal(t, DefaultTwitterAPIBaseURL, cfg.Twitter.APIBaseURL)
	assert.Equal(t, DefaultTwitterTokenURL, cfg.Twitter.TokenURL)
	assert.Equal(t, DefaultVerifyConcurrency, cfg.Twitter.VerifyConcurrency)
	assert.Empty(t, cfg.Twitter.Connections)
}

// TestLoad_EnvVarOverrides tests that environment variables override defaults.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_LOG__LEVEL", "warn")
	t.Setenv("APP_TWITTER__API_BASE_URL", "http://localhost:9999")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://localhost:9999", cfg.Twitter.APIBaseURL)
}

func TestLoad_ConnectionFromEnv(t *testing.T) {
	t.Setenv("APP_TWITTER__CONNECTIONS__DEFAULT__CONSUMER_KEY", "ck")
	t.Setenv("APP_TWITTER__CONNECTIONS__DEFAULT__CONSUMER_SECRET", "cs")
	t.Setenv("APP_TWITTER__CONNECTIONS__DEFAULT__TIMEOUT", "2s")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	require.Contains(t, cfg.Twitter.Connections, "default")
	conn := cfg.Twitter.Connections["default"]
	assert.Equal(t, "ck", conn.ConsumerKey)
	assert.Equal(t, "cs", conn.ConsumerSecret)
	assert.Equal(t, 2*time.Second, conn.Timeout)
	assert.NoError(t, cfg.Validate())
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "go-twitter-connections", cfg.App.Name)
}

func TestLoad_YAMLLayers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "configs/base.yaml", `
twitter:
  connections:
    default:
      consumer_key: base-key
      consumer_secret: base-secret
    reader:
      consumer_key: reader-key
      consumer_secret: reader-secret
      bearer_token: reader-bearer
`)
	writeFile(t, root, "configs/qa.yaml", `
app:
  environment: qa
twitter:
  connections:
    default:
      token: qa-token
      token_secret: qa-token-secret
`)

	cfg, err := LoadFrom(root, "qa")
	require.NoError(t, err)

	assert.Equal(t, "qa", cfg.App.Environment)
	require.Len(t, cfg.Twitter.Connections, 2)

	def := cfg.Twitter.Connections["default"]
	assert.Equal(t, "base-key", def.ConsumerKey)
	assert.Equal(t, "qa-token", def.Token)
	assert.Equal(t, "qa-token-secret", def.TokenSecret)
	assert.Equal(t, "reader-bearer", cfg.Twitter.Connections["reader"].BearerToken)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "configs/base.yaml", "twitter: [unterminated")

	_, err := LoadFrom(root, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "APP_TWITTER__USER_AGENT"

	t.Cleanup(func() { _ = os.Unsetenv(key) })

	root := t.TempDir()
	writeFile(t, root, ".env", key+"=from-dotenv\n")

	cfg, err := LoadFrom(root, "")
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Twitter.UserAgent)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv("APP_LOG__FORMAT", "text")

	root := t.TempDir()
	writeFile(t, root, ".env", "APP_LOG__FORMAT=pretty\n")

	cfg, err := LoadFrom(root, "")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Log.Format)
}

// TestLoad_BoolEnvVar tests that boolean environment variables are parsed correctly.
func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_TELEMETRY__ENABLED", "true")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.Enabled)
}

// TestLoad_LogFileDefaults tests that log file defaults are set correctly.
func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/app.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"APP_SERVER__PORT", "server.port"},
		{"APP_TWITTER__TOKEN_URL", "twitter.token_url"},
		{"APP_TWITTER__CONNECTIONS__MAIN__TOKEN_SECRET", "twitter.connections.main.token_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

// TestDefaults tests that the defaults map contains expected values.
func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "go-twitter-connections", d["app.name"])
	assert.Equal(t, "local", d["app.environment"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "info", d["log.level"])
	assert.Equal(t, DefaultTwitterAPIBaseURL, d["twitter.api_base_url"])
	assert.NotContains(t, d, "twitter.connections.default.consumer_key")
}
