package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ignite/users-server/internal/api"
	"github.com/ignite/users-server/internal/config"
	"github.com/ignite/users-server/internal/ops"
	"github.com/ignite/users-server/internal/pkg/logger"
	"github.com/ignite/users-server/internal/repository"
	"github.com/ignite/users-server/internal/repository/cache"
	"github.com/ignite/users-server/internal/server"
	"github.com/ignite/users-server/internal/service/users"
)

func main() {
	log.Println("users-server starting")

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadFromEnv(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingDatabaseURL) {
			log.Fatal("DATABASE_URL must be set")
		}
		log.Fatalf("Invalid config: %v", err)
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.SetLevel(level)
	logger.SetRedactPII(!cfg.Log.DisablePIIRedaction)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second signal during shutdown kills the process.
	context.AfterFunc(ctx, stop)

	store, err := repository.Open(ctx, cfg.Database.URL, repository.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to %s store", store.Dialect)

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, continuing without cache: %v", err)
			client.Close()
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	if err := store.Bootstrap(ctx, rdb); err != nil {
		log.Fatalf("Failed to create users table: %v", err)
	}

	checks := map[string]ops.Pinger{"database": store}
	var repo users.Repository = store.Users()
	if rdb != nil {
		cached := cache.NewUserRepo(repo, rdb, cfg.Redis.TTL())
		checks["redis"] = cached
		repo = cached
		log.Printf("Read-through cache enabled (ttl %s)", cfg.Redis.TTL())
	}

	srv := server.New(api.NewDispatcher(users.NewService(repo)), server.Options{
		Addr:           cfg.Server.Addr(),
		Workers:        cfg.Server.Workers,
		ReadTimeout:    cfg.Server.ReadTimeout(),
		WriteTimeout:   cfg.Server.WriteTimeout(),
		RequestTimeout: cfg.Server.RequestTimeout(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	if cfg.Ops.Addr != "" {
		h := ops.NewHandler(checks)
		g.Go(func() error { return ops.Serve(gctx, cfg.Ops.Addr, h) })
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
