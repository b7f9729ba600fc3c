package app

import (
	"context"
	"fmt"
	"time"

	"github.com/adanyl0v/tasktrackr/internal/config"
	"github.com/adanyl0v/tasktrackr/internal/storage"
	"github.com/adanyl0v/tasktrackr/internal/storage/mongo"
	"github.com/adanyl0v/tasktrackr/internal/storage/postgres"
	"github.com/adanyl0v/tasktrackr/internal/storage/sqlite"
)

const storeCloseTimeout = 5 * time.Second

var globalStore storage.TaskStore

func MustConnectStore() {
	cfg := config.Global()

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Store.Driver).
			Msg("failed to connect to store")
		panic(err)
	}
	globalStore = store

	globalLogger.Info().
		Str("driver", cfg.Store.Driver).
		Msg("connected to store")
}

func DisconnectStore() {
	ctx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
	defer cancel()

	err := globalStore.Close(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from store")
		return
	}
	globalLogger.Info().Msg("disconnected from store")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.TaskStore, error) {
	switch cfg.Store.Driver {
	case storage.DriverMongo:
		mongoCfg := cfg.Mongo
		ctx, cancel := context.WithTimeout(ctx, mongoCfg.ConnectTimeout)
		defer cancel()

		return mongo.Connect(ctx, mongo.Config{
			URI:            mongoCfg.URI,
			Database:       mongoCfg.Database,
			ConnectTimeout: mongoCfg.ConnectTimeout,
		})
	case storage.DriverPostgres:
		pgCfg := cfg.Postgres
		return postgres.Connect(ctx, postgres.Config{
			Host:           pgCfg.Host,
			Port:           pgCfg.Port,
			Username:       pgCfg.Username,
			Password:       pgCfg.Password,
			Database:       pgCfg.Database,
			SSLMode:        pgCfg.SSLMode,
			ConnectTimeout: pgCfg.ConnectTimeout,
			PingTimeout:    pgCfg.PingTimeout,
		})
	case storage.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}
