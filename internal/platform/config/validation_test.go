package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 15 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Twitter: TwitterConfig{
			APIBaseURL:        DefaultTwitterAPIBaseURL,
			TokenURL:          DefaultTwitterTokenURL,
			VerifyConcurrency: 4,
			Connections: map[string]ConnectionConfig{
				"default": {ConsumerKey: "ck", ConsumerSecret: "cs"},
			},
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.name is required")
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "invalid"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment")
		assert.Contains(t, err.Error(), "must be one of")
	})
}

func TestConfig_Validate_ServerPort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{1, false},
		{8080, false},
		{65535, false},
		{0, true},
		{65536, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("port_%d", tt.port), func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "server.port")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Log.Level = level
			assert.NoError(t, cfg.Validate())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format must be one of")
	})

	t.Run("file enabled without path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.path")
	})

	t.Run("file max size bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = "/var/log/app.log"
		cfg.Log.File.MaxSizeMB = 1025

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.max_size")
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	t.Run("enabled requires endpoint", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.ServiceName = "test"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.endpoint")
	})

	t.Run("sampling rate bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.SamplingRate = 1.5

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_rate")
	})
}

func TestConfig_Validate_CircuitBreakerConfig(t *testing.T) {
	t.Run("max failures minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.MaxFailures = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.max_failures")
	})

	t.Run("timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.Timeout = 500 * time.Millisecond

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.timeout")
	})
}

func TestConfig_Validate_TwitterConfig(t *testing.T) {
	t.Run("no connections is valid", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections = nil
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad api url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.APIBaseURL = "not a url"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twitter.api_base_url must be a valid URL")
	})

	t.Run("missing consumer key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections["reader"] = ConnectionConfig{ConsumerSecret: "cs"}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twitter.connections.reader.consumer_key is required")
	})

	t.Run("missing consumer secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections["default"] = ConnectionConfig{ConsumerKey: "ck"}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twitter.connections.default.consumer_secret is required")
	})

	t.Run("token without secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections["default"] = ConnectionConfig{ConsumerKey: "ck", ConsumerSecret: "cs", Token: "t"}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twitter.connections.default.token_secret is required when token is set")
	})

	t.Run("timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections["default"] = ConnectionConfig{ConsumerKey: "ck", ConsumerSecret: "cs", Timeout: time.Millisecond}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twitter.connections.default.timeout must be at least")
	})

	t.Run("blank connection name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Twitter.Connections[" "] = ConnectionConfig{ConsumerKey: "ck", ConsumerSecret: "cs"}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty connection name")
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "invalid"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
	assert.Contains(t, errStr, "twitter is required")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.server.port", "server.port"},
		{"Config.log.file.path", "log.file.path"},
		{"Config.twitter.connections[main].consumer_key", "twitter.connections.main.consumer_key"},
		{"Config.Server.Port", "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "token_secret", snakeCase("TokenSecret"))
	assert.Equal(t, "token", snakeCase("Token"))
	assert.Equal(t, "api_base_url", snakeCase("ApiBaseUrl"))
}
