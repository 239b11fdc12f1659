package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/gfmarinho/absence-messaging/internal/api"
	"github.com/gfmarinho/absence-messaging/internal/cache"
	"github.com/gfmarinho/absence-messaging/internal/client"
	"github.com/gfmarinho/absence-messaging/internal/config"
	"github.com/gfmarinho/absence-messaging/internal/logging"
	"github.com/gfmarinho/absence-messaging/internal/repo"
	"github.com/gfmarinho/absence-messaging/internal/service"
)

func main() {
	_ = godotenv.Load()

	log := logging.New("notifier")

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := repo.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	dispatches := repo.NewSQLDispatchRepo(db, cfg.Database.Driver)
	templates := repo.NewSQLTemplateRepo(db, cfg.Database.Driver)

	var templateCache cache.TemplateCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		templateCache = cache.NewRedisTemplateCache(rdb, cfg.Redis.TTL)
	}

	gateway := client.NewGatewayClient(cfg.Gateway.SendURL, cfg.Gateway.BaseURL, cfg.Gateway.Timeout)

	orchestrator := service.NewOrchestrator(gateway, dispatches, logging.New("orchestrator"))
	correlator := service.NewCorrelator(dispatches, logging.New("correlator"))
	templateSource := service.NewTemplateSource(templates, templateCache, logging.New("templates"))

	handler := api.NewHandler(orchestrator, correlator, dispatches, templateSource, gateway, logging.New("api"))

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.Router(handler),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().
			Str("addr", cfg.Server.Address).
			Str("driver", cfg.Database.Driver).
			Bool("redis", cfg.Redis.Enabled).
			Msg("absence messaging service starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.DSN
		// Concurrent webhook and batch writers queue instead of failing.
		if !strings.ContainsRune(dsn, '?') {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
