package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-http", "127.0.0.1:8081", "-store", "memory",
				"-d", "db", "-redis", "r:1", "-redis-db", "3", "-s", "secret",
				"-iss", "i", "-aud", "a", "-t", "1", "-r", "3m", "-l", "warn",
			},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				EndpointAddrHTTP:             "127.0.0.1:8081",
				StoreBackend:                 "memory",
				DatabaseDSN:                  "db",
				RedisAddr:                    "r:1",
				RedisDB:                      3,
				SecretKey:                    "secret",
				Issuer:                       "i",
				Audience:                     "a",
				AccessTokenExpirationMinutes: 1,
				RefreshTokenValidityDuration: 3 * time.Minute,
				LogLevel:                     "warn",
			},
		},
		{
			name:     "negative minutes with equals form",
			args:     []string{"-t=-1"},
			expected: &Config{AccessTokenExpirationMinutes: -1},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"issue", "-user", "u1", "-c", "cfg.json"},
			expected: &Config{},
		},
		{
			name:    "bad duration",
			args:    []string{"-r", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
