package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/blueprints-backend/internal/clients/redis"
	"github.com/yungbote/blueprints-backend/internal/data/db"
	types "github.com/yungbote/blueprints-backend/internal/domain"
	httpserver "github.com/yungbote/blueprints-backend/internal/http"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/realtime"
	"github.com/yungbote/blueprints-backend/internal/services"
)

const collectorInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    *db.Service
	DB       *gorm.DB
	Metrics  *observability.Metrics
	Events   redisclient.EventBus
	Hub      *realtime.SSEHub
	Repos    Repos
	Services Services
	Handlers Handlers
	Server   *httpserver.Server

	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

// OpenStorage connects to the configured engine and migrates when enabled.
func OpenStorage(cfg Config, log *logger.Logger) (*db.Service, error) {
	store, err := db.NewService(cfg.DB(), log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if cfg.DBAutoMigrate {
		if err := db.AutoMigrateAll(store.DB()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return store, nil
}

// New wires storage, events, services and the HTTP server. The caller owns
// Close.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel())
	metrics := observability.Init(cfg.MetricsEnabled, log)

	store, err := OpenStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	theDB := store.DB()

	// Without redis, events go straight to this process's SSE hub. With it,
	// every instance's hub is fed by the redis forwarder started in Start.
	hub := realtime.NewSSEHub(log)
	var (
		events    redisclient.EventBus
		publisher services.BlueprintEventPublisher = hub
	)
	if cfg.RedisAddr != "" {
		events, err = redisclient.NewEventBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Warn("redis events disabled; streaming local events only", "redis_addr", cfg.RedisAddr, "error", err)
			events = nil
		} else {
			publisher = events
		}
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, publisher, metrics)
	handlerset := wireHandlers(log, serviceset, hub)
	server := wireServer(cfg, log, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		DB:           theDB,
		Metrics:      metrics,
		Events:       events,
		Hub:          hub,
		Repos:        reposet,
		Services:     serviceset,
		Handlers:     handlerset,
		Server:       server,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start launches background collectors and the redis to SSE forwarder.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, collectorInterval)
	if a.Events != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Events.Client(), collectorInterval)
		if err := a.Events.StartForwarder(ctx, func(evt types.Event) {
			_ = a.Hub.Publish(ctx, evt)
		}); err != nil {
			return fmt.Errorf("start event forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown ends SSE streams, then stops accepting requests and drains in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	if a.Hub != nil {
		a.Hub.Shutdown()
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Log.Warn("event bus close failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if err := a.Store.Close(); err != nil {
		a.Log.Warn("storage close failed", "error", err)
	}
	a.Log.Sync()
}
