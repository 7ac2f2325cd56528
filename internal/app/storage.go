package app

import (
	"context"

	"github.com/JesusMarth/qa-automation-project/internal/config"
	"github.com/JesusMarth/qa-automation-project/internal/storage"
)

var globalStorage *storage.Storage

func MustOpenStorage() {
	cfg := config.Global().Storage

	store, err := storage.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = store.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping storage")
		panic(err)
	}

	err = store.EnsureSchema(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ensure schema")
		panic(err)
	}

	globalStorage = store
	globalLogger.Info().
		Str("driver", cfg.Driver).
		Str("dsn", cfg.DSN).
		Msg("opened storage")
}

func CloseStorage() {
	err := globalStorage.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}
