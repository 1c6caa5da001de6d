package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/wordrush/internal/api"
	"github.com/mcoot/wordrush/internal/factory"
	"github.com/mcoot/wordrush/internal/services/dictionary"
	"github.com/mcoot/wordrush/internal/services/registry"
	redisstorage "github.com/mcoot/wordrush/internal/storage/redis"
)

// Environment variable names
const (
	EnvPort           = "PORT"
	EnvStorageType    = "STORAGE_TYPE"
	EnvRedisURL       = "REDIS_URL"
	EnvDictionaryURL  = "DICTIONARY_URL"
	EnvDictionaryPath = "DICTIONARY_PATH"
	EnvSessionMaxAge  = "SESSION_MAX_AGE"
	EnvSweepInterval  = "SWEEP_INTERVAL"
	EnvLogLevel       = "LOG_LEVEL"
)

// Config is the server configuration
type Config struct {
	Port           int
	StorageType    string
	RedisURL       string
	DictionaryURL  string
	DictionaryPath string
	SessionMaxAge  time.Duration
	SweepInterval  time.Duration
	LogLevel       slog.Level
}

// Load reads the given .env files (default ".env") if present, then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup
func FromEnv(getenv func(string) string) (Config, error) {
	reg := registry.DefaultConfig()
	cfg := Config{
		Port:           api.DefaultServerConfig().Port,
		StorageType:    factory.StorageTypeMemory,
		RedisURL:       getenv(EnvRedisURL),
		DictionaryURL:  getenv(EnvDictionaryURL),
		DictionaryPath: getenv(EnvDictionaryPath),
		SessionMaxAge:  reg.MaxAge,
		SweepInterval:  reg.SweepInterval,
		LogLevel:       slog.LevelInfo,
	}

	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Port = port
	}

	if v := getenv(EnvStorageType); v != "" {
		cfg.StorageType = v
	}
	switch cfg.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("%s required when %s=redis", EnvRedisURL, EnvStorageType)
		}
	default:
		return Config{}, fmt.Errorf("invalid %s %q", EnvStorageType, cfg.StorageType)
	}

	var err error
	if cfg.SessionMaxAge, err = duration(getenv, EnvSessionMaxAge, cfg.SessionMaxAge); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = duration(getenv, EnvSweepInterval, cfg.SweepInterval); err != nil {
		return Config{}, err
	}

	if v := getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, v, err)
		}
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

// Factory returns the application wiring settings
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
		Registry:    c.Registry(),
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// Registry returns the session registry settings
func (c Config) Registry() registry.Config {
	cfg := registry.DefaultConfig()
	cfg.MaxAge = c.SessionMaxAge
	cfg.SweepInterval = c.SweepInterval
	return cfg
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Port = c.Port
	return cfg
}

// Dictionary returns where the word list is loaded from
func (c Config) Dictionary() dictionary.Source {
	return dictionary.Source{URL: c.DictionaryURL, Path: c.DictionaryPath}
}
