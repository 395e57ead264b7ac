package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/users-server/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	listOnly := false
	for _, a := range os.Args[1:] {
		if a == "--list" {
			listOnly = true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, dsn, repository.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to %s store", store.Dialect)

	if listOnly {
		if err := list(ctx, store); err != nil {
			log.Fatal(err)
		}
		return
	}

	var rdb *redis.Client
	if u := os.Getenv("REDIS_URL"); u != "" {
		opt, err := redis.ParseURL(u)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	if err := store.Bootstrap(ctx, rdb); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	log.Println("Schema ready")
}

func list(ctx context.Context, store *repository.Store) error {
	rows, err := store.DB.QueryContext(ctx, "SELECT * FROM users LIMIT 0")
	if err != nil {
		return fmt.Errorf("inspect users: %w", err)
	}
	cols, err := rows.Columns()
	rows.Close()
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	var n int
	if err := store.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	fmt.Printf("  users (%s)\n", strings.Join(cols, ", "))
	fmt.Printf("Total: %d rows\n", n)
	return nil
}
