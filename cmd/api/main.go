package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/kvstore"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/workers"
)

const tokenIssuer = "kanso-streaks"

type application struct {
	habits *services.HabitService
	router *gin.Engine
}

func newApplication(cfg *config.Config, store domain.KVStore, rdb *redis.Client, startTime time.Time, opts ...services.Option) *application {
	habitService := services.NewHabitService(store, opts...)
	statsService := services.NewStatsService(habitService)

	deps := adapterHTTP.RouterDependencies{
		HabitHandler: adapterHTTP.NewHabitHandler(habitService),
		StatsHandler: adapterHTTP.NewStatsHandler(statsService),
		ViewHandler:  adapterHTTP.NewViewHandler(habitService),
		Store:        store,
		Redis:        rdb,
		RateLimit:    cfg.RateLimit,
		RateWindow:   time.Minute,
		StartTime:    startTime,
	}

	if cfg.AuthEnabled() {
		tokens := services.NewTokenService(cfg.AuthSecret, tokenIssuer, cfg.AuthTokenTTL)
		owner := domain.Owner{PasswordHash: cfg.AuthPasswordHash}
		deps.AuthHandler = adapterHTTP.NewAuthHandler(services.NewAuthService(owner, tokens))
		deps.Tokens = tokens
		log.Println("Owner authentication enabled for /api/v1 and the page forms.")
	}

	return &application{
		habits: habitService,
		router: adapterHTTP.NewRouter(deps),
	}
}

func openSQL(ctx context.Context, driver, dsn, table string) (*sqlx.DB, *kvstore.SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	store := kvstore.NewSQLStore(db, table)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

// openStore builds the configured primary store, fronted by the Redis cache
// when Redis is available. The returned func releases every connection.
func openStore(ctx context.Context, cfg *config.Config) (domain.KVStore, *redis.Client, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		client, err := kvstore.NewRedisClient(ctx, kvstore.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			if cfg.StoreDriver == config.DriverRedis {
				return nil, nil, nil, err
			}
			log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
		} else {
			rdb = client
			closers = append(closers, func() { rdb.Close() })
			log.Println("Redis connected successfully.")
		}
	}

	var store domain.KVStore
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Println("Using in-memory store; habits are lost on restart.")
		return kvstore.NewMemoryStore(), rdb, closeAll, nil

	case config.DriverRedis:
		log.Println("Using Redis as the primary store.")
		return kvstore.NewRedisStore(rdb), rdb, closeAll, nil

	case config.DriverSQLite:
		log.Printf("Opening SQLite store at %s...", cfg.SQLitePath)
		db, sqlStore, err := openSQL(ctx, "sqlite3", cfg.SQLitePath, cfg.StoreTable)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		db.SetMaxOpenConns(1)
		closers = append(closers, func() { db.Close() })
		store = sqlStore

	case config.DriverPostgres:
		log.Println("Connecting to database...")
		db, sqlStore, err := openSQL(ctx, "pgx", cfg.PostgresDSN(), cfg.StoreTable)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		closers = append(closers, func() { db.Close() })
		store = sqlStore

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	log.Println("Database connected successfully.")

	if rdb != nil {
		store = kvstore.NewCachedStore(store, rdb, cfg.CacheTTL)
	}
	return store, rdb, closeAll, nil
}

// waitForShutdown blocks until SIGINT or SIGTERM arrives. SIGHUP asks for an
// immediate streak refresh instead.
func waitForShutdown(signals <-chan os.Signal, refresh func()) os.Signal {
	for sig := range signals {
		if sig == syscall.SIGHUP {
			log.Println("SIGHUP received, refreshing streaks...")
			refresh()
			continue
		}
		return sig
	}
	return nil
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: Invalid configuration: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, rdb, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: Failed to open store: %v", err)
	}
	defer closeStore()

	app := newApplication(cfg, store, rdb, startTime)

	if err := app.habits.Load(ctx); err != nil {
		log.Fatalf("Critical: Failed to load habits: %v", err)
	}

	rollover := workers.NewRolloverWorker(app.habits, cfg.RolloverInterval)
	rollover.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Streaks running on http://localhost:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	sig := waitForShutdown(quit, rollover.Trigger)

	log.Printf("Stop signal received (%v). Shutting down...", sig)

	stop()
	<-rollover.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
	}

	if err := app.habits.Save(shutdownCtx); err != nil {
		log.Printf("Failed to persist habits on shutdown: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
