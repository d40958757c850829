// Package app assembles the stores, caches and services a process needs from its configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"galaxymath/config"
	"galaxymath/controllers"
	"galaxymath/db"
	"galaxymath/internal/cache"
	"galaxymath/internal/clock"
	"galaxymath/internal/events"
	"galaxymath/services"
	"galaxymath/utils"
	"galaxymath/websocket"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired services plus whatever needs closing on shutdown
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Clock    clock.Clock
	Accounts db.AccountStore
	Boards   db.MissionStore
	Redis    *redis.Client
	Hub      *websocket.Hub
	Events   *events.Bus

	Auth        *services.AuthService
	Progression *services.ProgressionService
	Leaderboard *services.LeaderboardService
	Missions    *services.MissionService
	Shop        *services.ShopService

	closers []func(context.Context) error
}

// Stores picks the persistence backend for cfg.Database.Driver
func Stores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.AccountStore, db.MissionStore, func(context.Context) error, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return db.NewMemoryAccountStore(), db.NewMemoryMissionStore(), nil, nil
	default:
		if err := db.ConnectMongoDB(ctx, cfg.Database.URI); err != nil {
			return nil, nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		logger.Info("connected to MongoDB", zap.String("database", db.MongoDatabase.Name()))
		return db.NewMongoAccountStore(db.MongoDatabase), db.NewMongoMissionStore(db.MongoDatabase), db.DisconnectMongoDB, nil
	}
}

// New connects storage and Redis according to cfg and builds every service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	accounts, boards, closeDB, err := Stores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, leaderboard caching and score limiting disabled", zap.Error(err))
		rdb = nil
	} else if rdb == nil {
		logger.Info("redis not configured, leaderboard caching and score limiting disabled")
	}

	a := Assemble(cfg, accounts, boards, rdb, clock.New(loc), logger)
	if closeDB != nil {
		a.closers = append(a.closers, closeDB)
	}
	if rdb != nil {
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	}
	return a, nil
}

// Assemble builds the services over already-open stores. rdb may be nil.
func Assemble(cfg *config.Config, accounts db.AccountStore, boards db.MissionStore, rdb *redis.Client, clk clock.Clock, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	utils.SetJWTSecret(cfg.JWT.Secret)

	hub := websocket.NewHub(logger.Named("ws"))
	bus := events.NewBus(rdb, hub, logger.Named("events"))
	leaderboardCache := cache.NewLeaderboardCache(rdb, cfg.Redis.LeaderboardTTL)
	missions := services.NewMissionService(boards, accounts, clk, bus, logger.Named("missions"))
	tokenTTL, guestTTL := cfg.TokenTTL()

	return &App{
		Config:   cfg,
		Logger:   logger,
		Clock:    clk,
		Accounts: accounts,
		Boards:   boards,
		Redis:    rdb,
		Hub:      hub,
		Events:   bus,

		Auth: services.NewAuthService(accounts, clk, tokenTTL, guestTTL, logger.Named("auth")),
		Progression: services.NewProgressionService(services.ProgressionDeps{
			Accounts: accounts,
			Missions: missions,
			Clock:    clk,
			Limiter:  cache.NewScoreLimiter(rdb, cfg.Redis.ScoreSavesPerMinute, time.Minute),
			Boards:   leaderboardCache,
			Events:   bus,
			Logger:   logger.Named("progression"),
		}),
		Leaderboard: services.NewLeaderboardService(accounts, leaderboardCache, logger.Named("leaderboard")),
		Missions:    missions,
		Shop:        services.NewShopService(accounts, bus, logger.Named("shop")),
	}
}

// Controllers exposes the services in the shape the HTTP handlers expect
func (a *App) Controllers() controllers.Services {
	return controllers.Services{
		Auth:        a.Auth,
		Progression: a.Progression,
		Leaderboard: a.Leaderboard,
		Missions:    a.Missions,
		Shop:        a.Shop,
		Accounts:    a.Accounts,
		Logger:      a.Logger,
	}
}

// Close releases storage and Redis connections in reverse order of opening
func (a *App) Close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
