package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/config"
	"github.com/gearpost/fitment/internal/engine"
	"github.com/gearpost/fitment/internal/mapper"
	"github.com/gearpost/fitment/internal/refdata"
	"github.com/gearpost/fitment/internal/storage"
)

// initStorage opens the engine database with path expansion and runs
// migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initRefData opens the reference database named in configuration.
func initRefData() (*refdata.Gateway, error) {
	path := viper.GetString("refdata.path")
	if path == "" {
		return nil, common.NewUserError(
			"set refdata.path (or --refdata) to the VCDB/PCDB reference database",
			common.ErrMissingConfig)
	}
	return refdata.Open(config.ExpandPath(path))
}

// initEngine constructs the fully wired engine with its rule index loaded.
// onProgress may be nil.
func initEngine(ctx context.Context, onProgress func(done, total int)) (*engine.MappingEngine, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	gateway, err := initRefData()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cfg := engine.DefaultConfig()
	if workers := viper.GetInt("engine.workers"); workers > 0 {
		cfg.Workers = workers
	}
	if size := viper.GetInt("engine.cache_size"); size > 0 {
		cfg.CacheSize = size
	}
	if viper.IsSet("engine.persist_warnings") {
		cfg.PersistWarnings = viper.GetBool("engine.persist_warnings")
	}
	cfg.OnProgress = onProgress

	eng, err := engine.New(store, gateway, mapper.New(), cfg)
	if err != nil {
		_ = store.Close()
		_ = gateway.Close()
		return nil, nil, err
	}

	if err := eng.RefreshMappings(ctx); err != nil {
		_ = store.Close()
		_ = gateway.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		_ = gateway.Close()
	}
	return eng, cleanup, nil
}
