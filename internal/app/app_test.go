package app

import (
	"context"
	"testing"
	"time"

	"galaxymath/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "app-secret"
	cfg.JWT.ExpiryHours = 168
	cfg.JWT.GuestExpiryHours = 24
	cfg.Redis.LeaderboardTTL = 30 * time.Second
	cfg.Progression.Timezone = "UTC"
	return cfg
}

func TestNewWithMemoryStorage(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, a.Redis)
	assert.Equal(t, time.UTC, a.Clock.Now().Location())
	assert.NoError(t, a.Close(context.Background()))
}

func TestNewRejectsBadTimezoneBeforeOpeningStorage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := memoryConfig()
	cfg.Progression.Timezone = "Mars/Olympus_Mons"

	_, err := New(context.Background(), cfg, zap.New(core))
	assert.ErrorContains(t, err, "invalid progression timezone")
	assert.Zero(t, logs.Len(), "storage must not be opened")
}
