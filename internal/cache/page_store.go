package cache

import (
	"context"
	"errors"
	"time"

	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// PagePrefix namespaces rendered page entries in Redis.
	PagePrefix = "page:"
	// CSRFPrefix namespaces CSRF tokens in Redis.
	CSRFPrefix = "csrf:"
)

const storageTimeout = 2 * time.Second

var _ fiber.Storage = (*Store)(nil)

// Store is a fiber.Storage over Redis so every server instance shares one
// page cache and one CSRF token set. Keys are namespaced by prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// NewPageStore returns the store backing the page cache.
func NewPageStore(client *redis.Client) *Store {
	return &Store{client: client, prefix: PagePrefix}
}

// NewCSRFStore returns the store backing CSRF tokens.
func NewCSRFStore(client *redis.Client) *Store {
	return &Store{client: client, prefix: CSRFPrefix}
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storageTimeout)
}

// Get returns nil without an error when the key is absent.
func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Store) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

func (s *Store) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset drops every key under the store prefix.
func (s *Store) Reset() error {
	_, err := s.Clear(context.Background())
	return err
}

// Clear deletes every key under the store prefix and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (removed int, err error) {
	ctx, span := observability.StartCacheSpan(ctx, s.prefix, "clear")
	defer func() { observability.EndSpan(span, err) }()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return removed, err
			}
			removed += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return removed, err
		}
		removed += len(batch)
	}

	if s.prefix == PagePrefix {
		observability.PageCacheResets.Inc()
	}
	return removed, nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (s *Store) Close() error {
	return nil
}
