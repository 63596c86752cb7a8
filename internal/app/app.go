package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/leave-tracker/internal/config"
	"github.com/aidar/leave-tracker/internal/handler"
	"github.com/aidar/leave-tracker/internal/logger"
	"github.com/aidar/leave-tracker/internal/repository"
	"github.com/aidar/leave-tracker/internal/repository/file"
	"github.com/aidar/leave-tracker/internal/repository/postgres"
	"github.com/aidar/leave-tracker/internal/repository/sqlite"
	"github.com/aidar/leave-tracker/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config  *config.Config
	store   repository.MemberStore
	service *service.LeaveService
	server  *http.Server
	logger  *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout),
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Открываем выбранное хранилище
	store, err := OpenStore(ctx, a.config, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.store = store

	// Инициализируем слой сервисов (бизнес-логика)
	leaseService := service.NewLeaseService(a.config.Lease.Secret, a.config.Lease.GetTTL(), nil)
	a.service = service.NewLeaveService(store, leaseService, service.Options{
		Autosave: a.config.Tracker.Autosave,
		Logger:   a.logger,
	})

	// Поврежденные данные не дают запустить сервис
	if err := a.service.Load(ctx); err != nil {
		_ = store.Close()
		return err
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer(leaseService)

	a.logger.Info("Application initialized successfully",
		"storage", a.config.Storage.Driver,
		"year", a.service.Year(),
		"members", len(a.service.ListMembers(ctx)),
	)
	return nil
}

// OpenStore создает хранилище участников по STORAGE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.MemberStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		log.Info("Using file storage", "path", cfg.Storage.FilePath)
		return file.NewStore(cfg.Storage.FilePath), nil
	case config.StorageSQLite:
		log.Info("Using sqlite storage", "path", cfg.Storage.SQLitePath)
		return sqlite.NewStore(sqlite.WithFile(cfg.Storage.SQLitePath), log)
	case config.StoragePostgres:
		pool, err := connectDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Connected to database")
		return postgres.NewMemberStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer(leaseService *service.LeaseService) {
	r := handler.NewRouter(a.service, leaseService, a.logger)

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Handler возвращает корневой HTTP обработчик
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем хранилище
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
