package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/data/db"
	server "github.com/yungbote/smarttutor-backend/internal/http"
	"github.com/yungbote/smarttutor-backend/internal/observability"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *server.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	closeDB      func() error
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	LoadDotEnv(log)
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
	})

	theDB, closeDB, err := openDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = closeDB()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = closeDB()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, cfg, serviceset)
	middleware := wireMiddleware(log, serviceset)
	srv := server.NewServer(cfg.Addr, routerConfig(log, cfg, handlerset, middleware))

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       srv,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		closeDB:      closeDB,
		otelShutdown: otelShutdown,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, func() error, error) {
	switch cfg.DBDriver {
	case DriverSQLite:
		sq, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite: %w", err)
		}
		log.Info("Using SQLite database", "path", cfg.SQLitePath)
		return sq, func() error {
			sqlDB, err := sq.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}, nil
	case DriverPostgres, "":
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres: %w", err)
		}
		return pg.DB(), pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// Start launches background maintenance. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Cfg.SessionCleanup > 0 {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.sweepSessions(ctx, a.Cfg.SessionCleanup)
		}()
	}
}

func (a *App) sweepSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := a.Repos.UserSession.DeleteExpired(ctx, nil, now.UTC())
			if err != nil {
				a.Log.Warn("Expired session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				a.Log.Info("Expired sessions removed", "count", n)
			}
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr)
	return a.Server.Run()
}

// Shutdown drains HTTP connections, then stops workers and releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	a.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.wg.Wait()
	if a.Clients.SessionCache != nil {
		if err := a.Clients.SessionCache.Close(); err != nil {
			a.Log.Warn("Session cache close failed", "error", err)
		}
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
		a.closeDB = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
