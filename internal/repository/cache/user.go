// Package cache decorates a users.Repository with a Redis read-through cache
// for single-record reads. Writes go to the underlying store first and then
// drop the cached entry and bump a per-record generation. A read only fills
// the cache if the generation it saw before reading the store is unchanged,
// so a fill racing an update or delete cannot bring the old record back.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/users-server/internal/domain"
	"github.com/ignite/users-server/internal/pkg/logger"
	"github.com/ignite/users-server/internal/service/users"
)

var errStale = errors.New("cache entry is stale")

const (
	keyPrefix = "users:record:"
	genPrefix = "users:gen:"

	// genTTL outlives any store read by a wide margin.
	genTTL = 24 * time.Hour
)

// UserRepo caches Get results in Redis. Redis failures never fail a request:
// the store is the source of truth and is consulted directly instead.
type UserRepo struct {
	next   users.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewUserRepo wraps next with a cache whose entries live for ttl.
func NewUserRepo(next users.Repository, client *redis.Client, ttl time.Duration) *UserRepo {
	return &UserRepo{next: next, client: client, ttl: ttl}
}

func key(id int64) string    { return keyPrefix + strconv.FormatInt(id, 10) }
func genKey(id int64) string { return genPrefix + strconv.FormatInt(id, 10) }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.next.Create(ctx, u)
}

func (r *UserRepo) Get(ctx context.Context, id int64) (domain.User, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var u domain.User
		if jerr := json.Unmarshal(data, &u); jerr == nil {
			return u, nil
		}
		logger.Warn("discarding corrupt cache entry", "key", key(id))
	case !errors.Is(err, redis.Nil):
		logger.Warn("cache read failed", "key", key(id), "error", err)
	}

	gen, genErr := generation(ctx, r.client, id)
	u, err := r.next.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if genErr == nil {
		r.store(ctx, u, gen)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.next.List(ctx)
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	if err := r.next.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		return err
	}
	r.evict(ctx, id)
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, c getter, id int64) (int64, error) {
	gen, err := c.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		logger.Warn("cache generation read failed", "key", genKey(id), "error", err)
	}
	return gen, err
}

// store fills the cache unless the record was written since gen was read.
func (r *UserRepo) store(ctx context.Context, u domain.User, gen int64) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key(u.ID), data, r.ttl)
			return nil
		})
		return err
	}, genKey(u.ID))
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		logger.Debug("skipping stale cache fill", "key", key(u.ID))
	default:
		logger.Warn("cache write failed", "key", key(u.ID), "error", err)
	}
}

func (r *UserRepo) evict(ctx context.Context, id int64) {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(id))
		p.Expire(ctx, genKey(id), genTTL)
		p.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		logger.Warn("cache evict failed", "key", key(id), "error", err)
	}
}

// Ping checks the cache backend.
func (r *UserRepo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

var _ users.Repository = (*UserRepo)(nil)
