package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: memory
jwt:
  secret: test-secret
progression:
  timezone: UTC
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Redis.LeaderboardTTL)
	assert.Equal(t, 30, cfg.Redis.ScoreSavesPerMinute)

	regular, guest := cfg.TokenTTL()
	assert.Equal(t, 7*24*time.Hour, regular)
	assert.Equal(t, 24*time.Hour, guest)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: mongo
  uri: mongodb://localhost:27017/galaxy
jwt:
  secret: from-file
redis:
  leaderboardTTL: 1m
`)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("GALAXY_TIMEZONE", "UTC")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, time.Minute, cfg.Redis.LeaderboardTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "database:\n  driver: memory\n"},
		{"mongo without uri", "database:\n  driver: mongo\njwt:\n  secret: s\n"},
		{"unknown driver", "database:\n  driver: postgres\njwt:\n  secret: s\n"},
		{"bad timezone", "database:\n  driver: memory\njwt:\n  secret: s\nprogression:\n  timezone: Mars/Olympus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
