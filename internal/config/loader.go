package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvDriver        = "TASKORG_STORAGE_DRIVER"
	EnvSQLitePath    = "TASKORG_SQLITE_PATH"
	EnvMongoURI      = "TASKORG_MONGO_URI"
	EnvMongoDatabase = "TASKORG_MONGO_DATABASE"
	EnvLogLevel      = "TASKORG_LOG_LEVEL"
	EnvLogFormat     = "TASKORG_LOG_FORMAT"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (path, or ~/.taskorg/config.yaml when empty)
// 3. Environment variables
//
// A missing file is not an error. An explicit path that cannot be read is.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config file", slog.String("path", path))
			config = fileConfig
		case errors.Is(err, os.ErrNotExist) && !explicit:
			l.logger.Debug("No config file found", slog.String("path", path))
		default:
			return nil, err
		}
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) applyEnv(c *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvDriver, &c.Storage.Driver},
		{EnvSQLitePath, &c.Storage.SQLitePath},
		{EnvMongoURI, &c.Storage.MongoURI},
		{EnvMongoDatabase, &c.Storage.MongoDatabase},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(l.getenv(o.key)); v != "" {
			*o.dst = v
			l.logger.Debug("Config overridden from environment", slog.String("var", o.key))
		}
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}
