package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

// SessionCache maps session tokens to user ids in front of the session table.
// Lookups that miss return uuid.Nil and no error.
type SessionCache interface {
	Get(ctx context.Context, token string) (uuid.UUID, error)
	Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Delete(ctx context.Context, tokens ...string) error
	Close() error
}

type sessionCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewSessionCache connects to REDIS_ADDR. Without REDIS_ADDR it returns a cache
// that never hits, so the app runs on the database alone.
func NewSessionCache(log *logger.Logger) (SessionCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		log.Info("REDIS_ADDR not set; session cache disabled")
		return NopSessionCache(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewSessionCacheFromClient(rdb, keyPrefix(), log), nil
}

func NewSessionCacheFromClient(rdb *goredis.Client, prefix string, log *logger.Logger) SessionCache {
	return &sessionCache{
		log:    log.With("service", "RedisSessionCache"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func keyPrefix() string {
	p := strings.TrimSpace(os.Getenv("REDIS_SESSION_PREFIX"))
	if p == "" {
		p = "smarttutor:session:"
	}
	return p
}

func (c *sessionCache) key(token string) string { return c.prefix + token }

func (c *sessionCache) Get(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, nil
	}
	raw, err := c.rdb.Get(ctx, c.key(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis get session: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.log.Warn("Dropping malformed session cache entry", "error", err)
		_ = c.rdb.Del(ctx, c.key(token)).Err()
		return uuid.Nil, nil
	}
	return id, nil
}

func (c *sessionCache) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if token == "" || ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, c.key(token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (c *sessionCache) Delete(ctx context.Context, tokens ...string) error {
	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			keys = append(keys, c.key(t))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (c *sessionCache) Close() error { return c.rdb.Close() }

type nopSessionCache struct{}

func NopSessionCache() SessionCache { return nopSessionCache{} }

func (nopSessionCache) Get(context.Context, string) (uuid.UUID, error) { return uuid.Nil, nil }
func (nopSessionCache) Set(context.Context, string, uuid.UUID, time.Duration) error {
	return nil
}
func (nopSessionCache) Delete(context.Context, ...string) error { return nil }
func (nopSessionCache) Close() error                            { return nil }
