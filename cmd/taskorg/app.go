package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/baiirun/taskorg/internal/config"
	"github.com/baiirun/taskorg/internal/db"
	"github.com/baiirun/taskorg/internal/directory"
	"github.com/baiirun/taskorg/internal/logging"
	"github.com/baiirun/taskorg/internal/model"
	"github.com/baiirun/taskorg/internal/mongostore"
	"github.com/baiirun/taskorg/internal/organizer"
)

// store is what every storage driver provides.
type store interface {
	organizer.Gateway
	Stats(ctx context.Context) (model.StoreStats, error)
	Close() error
}

// app is one command invocation's view of the configured store.
type app struct {
	cfg    *config.Config
	store  store
	org    *organizer.Organizer
	logger *slog.Logger
	out    io.Writer
}

// loadConfig resolves the config file, environment and flags, in that order.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(nil).Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.dbPath != "" {
		cfg.Storage.SQLitePath = o.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		path := cfg.Storage.SQLitePath
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		database, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		if err := database.Init(); err != nil {
			_ = database.Close()
			return nil, err
		}
		return database, nil
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := mongostore.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return nil, fmt.Errorf("the %s driver keeps nothing between commands; use %s or %s", config.DriverMemory, config.DriverSQLite, config.DriverMongo)
	}
	return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
}

// open loads config, sets up logging, connects the store and rebuilds the
// organizer from it.
func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.Setup(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	org := organizer.New(s, organizer.WithLogger(logger))
	if err := org.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: s, org: org, logger: logger, out: cmd.OutOrStdout()}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// directory builds the employee tree from the store.
func (a *app) directory(ctx context.Context) (*directory.Directory, error) {
	return directory.Load(ctx, a.store)
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func (o *rootOptions) withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.open(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		return fn(cmd, args, a)
	}
}
