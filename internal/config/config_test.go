package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Embedding.Model = "" },
			wantErr: "embedding model is required",
		},
		{
			name:    "bad max_length",
			mutate:  func(c *Config) { c.Embedding.MaxLength = -1 },
			wantErr: "invalid embedding max_length",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid logging level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	t.Run("unmarshal text", func(t *testing.T) {
		var d Duration
		require.NoError(t, d.UnmarshalText([]byte("1m30s")))
		assert.Equal(t, 90*time.Second, d.Duration())
	})

	t.Run("rejects negative", func(t *testing.T) {
		var d Duration
		assert.Error(t, d.UnmarshalText([]byte("-5s")))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d Duration
		assert.Error(t, d.UnmarshalText([]byte("soon")))
	})

	t.Run("json round trip", func(t *testing.T) {
		b, err := json.Marshal(Duration(5 * time.Second))
		require.NoError(t, err)
		assert.Equal(t, `"5s"`, string(b))
	})
}
