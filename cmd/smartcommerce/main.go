package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/renantorres0/smartcommerce/internal/config"
	"github.com/renantorres0/smartcommerce/internal/events"
	"github.com/renantorres0/smartcommerce/internal/http/handlers"
	"github.com/renantorres0/smartcommerce/internal/lock"
	applog "github.com/renantorres0/smartcommerce/internal/log"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/repos"
	"github.com/renantorres0/smartcommerce/web"
)

func main() {
	cfg := config.Load()

	flush, err := applog.Init(applog.Options{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("log init: %v", err)
	}
	defer flush()

	if err := run(cfg); err != nil {
		applog.Error(nil, "server.exit", err, nil)
		flush()
		os.Exit(1)
	}
}

func run(cfg config.Config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	closers := []func() error{db.Close}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	if cfg.SeedDemo {
		if err := repos.SeedDemo(ctx, db); err != nil {
			return err
		}
	}

	locks, closeLocks, err := newLocker(ctx, cfg.Lock)
	if err != nil {
		return err
	}
	closers = append(closers, closeLocks)

	msg, err := messages.New(cfg.DefaultLocale)
	if err != nil {
		return err
	}
	applog.Info(nil, "messages.loaded", map[string]any{"default": cfg.DefaultLocale, "languages": msg.Languages()})

	deps := handlers.NewDeps(db, cfg, locks, msg)
	app := handlers.NewApp(web.Engine(), logger.New())
	handlers.Register(app, deps, 120)
	app.Use(handlers.NotFound)

	if cfg.Kafka.Enabled() {
		reader := events.NewReader(cfg.Kafka)
		closers = append(closers, reader.Close)
		go events.NewSaleListener(reader, deps.Ledger).Start(ctx)
	}

	listenErr := make(chan error, 1)
	go func() { listenErr <- app.Listen(":" + cfg.Port) }()
	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "driver": cfg.DBDriver})

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}
	applog.Info(nil, "server.shutdown", nil)
	return app.ShutdownWithTimeout(10 * time.Second)
}

func newLocker(ctx context.Context, cfg config.LockConfig) (lock.Locker, func() error, error) {
	switch cfg.Backend {
	case "", "local":
		return lock.NewLocal(), func() error { return nil }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, multierr.Append(err, client.Close())
		}
		return lock.NewRedis(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported LOCK_BACKEND %q", cfg.Backend)
	}
}
