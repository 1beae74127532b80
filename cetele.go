// Package cetele wires the habit-tracking core together: the locally
// persisted projection store, the synchronization engine against the remote
// record service, and the scoring and leaderboard read sides. The
// presentation layer embeds an App and talks to its services.
package cetele

import (
	"context"
	"fmt"
	"io"

	"cetele-core/config"
	"cetele-core/identity"
	"cetele-core/logger"
	"cetele-core/remote"
	"cetele-core/service"
	"cetele-core/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App holds the wired components. Identity changes flow in through Identity;
// habits and scores flow out of Habits and Leaderboard.
type App struct {
	Identity    *identity.MemoryProvider
	Store       *store.ProjectionStore
	Sync        *service.SyncService
	Habits      *service.HabitService
	Leaderboard *service.LeaderboardService

	logger *zap.Logger
	closer io.Closer // storage backend, when it needs closing
	cancel func()    // identity watch subscription
}

// New builds the app from configuration: logger, storage backend, record
// service client and services, and starts watching identity changes.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "cetele-core")
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	var kv store.KV
	var closer io.Closer
	switch cfg.Storage.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(client)
		closer = client
	default:
		badgerKV, err := store.NewBadgerKV(store.DefaultBadgerOptions(cfg.Storage.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open local storage: %w", err)
		}
		kv = badgerKV
		closer = badgerKV
	}

	records := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout, log)
	return build(kv, closer, records, log), nil
}

// NewWithRecords builds the app on an explicit record service and KV
// backend. Used by tests and by hosts that bring their own implementations.
func NewWithRecords(kv store.KV, records remote.RecordService, log *zap.Logger) *App {
	var closer io.Closer
	if c, ok := kv.(io.Closer); ok {
		closer = c
	}
	return build(kv, closer, records, log)
}

func build(kv store.KV, closer io.Closer, records remote.RecordService, log *zap.Logger) *App {
	provider := identity.NewMemoryProvider()
	projection := store.NewProjectionStore(kv, log)
	syncSvc := service.NewSyncService(projection, records, provider, log)

	app := &App{
		Identity:    provider,
		Store:       projection,
		Sync:        syncSvc,
		Habits:      service.NewHabitService(projection, syncSvc, log),
		Leaderboard: service.NewLeaderboardService(records, log),
		logger:      log,
		closer:      closer,
	}
	app.cancel = syncSvc.Watch(context.Background())
	return app
}

// Close stops the identity watch and releases the storage backend.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
