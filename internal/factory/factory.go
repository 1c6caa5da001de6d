package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/dependencies/random"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/dictionary"
	"github.com/mcoot/wordrush/internal/services/legality"
	"github.com/mcoot/wordrush/internal/services/letters"
	"github.com/mcoot/wordrush/internal/services/registry"
	"github.com/mcoot/wordrush/internal/services/scheduler"
	"github.com/mcoot/wordrush/internal/services/session"
	"github.com/mcoot/wordrush/internal/storage"
	"github.com/mcoot/wordrush/internal/storage/memory"
	redisstorage "github.com/mcoot/wordrush/internal/storage/redis"
	"github.com/mcoot/wordrush/internal/web/sse"
	"github.com/mcoot/wordrush/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	Validator         *legality.Validator
	Scheduler         *scheduler.Scheduler
	Registry          *registry.Registry

	// Transports
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
	WSManager   *ws.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Registry holds session defaults and eviction settings
	// If zero value, defaults to registry.DefaultConfig()
	Registry registry.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	regCfg := cfg.Registry
	if regCfg.SweepInterval == 0 {
		regCfg = registry.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), regCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, regCfg registry.Config, logger *slog.Logger) *App {
	dictService := dictionary.New(store, logger)
	validator := legality.New(dictService)
	sched := scheduler.New(clk)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	wsManager := ws.NewManager(logger)

	deps := session.Deps{
		Clock:      clk,
		Scheduler:  sched,
		Validator:  validator,
		Enumerator: dictService,
		Notifier:   session.Fanout{broadcaster, wsManager},
		Archiver:   store,
		Logger:     logger,
	}

	reg := registry.New(regCfg, deps, letters.NewGenerator(rnd), rnd, store, logger)
	reg.OnEvict(func(id model.SessionID) {
		hubManager.RemoveHub(id)
		wsManager.CloseSession(id)
	})

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		Validator:         validator,
		Scheduler:         sched,
		Registry:          reg,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		WSManager:         wsManager,
	}
}

// Close evicts every session and releases storage connections
func (a *App) Close() error {
	a.Registry.Shutdown()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
