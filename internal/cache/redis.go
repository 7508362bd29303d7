package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lejet/booking-gateway/config"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	sessionTTL time.Duration
	searchTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, sessionTTL, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
		searchTTL:  searchTTL,
	}
}

// Session state stored server-side so the identity survives page reloads.
type Session struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (c *RedisCache) GetSession(ctx context.Context, id string) (*Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RedisCache) SetSession(ctx context.Context, id string, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(id), payload, c.sessionTTL).Err()
}

func (c *RedisCache) DeleteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

func (c *RedisCache) GetSearchResults(ctx context.Context, from, to, date string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchKey(from, to, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearchResults(ctx context.Context, from, to, date string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(from, to, date), payload, c.searchTTL).Err()
}

// AcquireSubmitLock guards a booking against duplicate payment submissions
// while one is still in flight.
func (c *RedisCache) AcquireSubmitLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(bookingID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, bookingID string) error {
	return c.client.Del(ctx, submitLockKey(bookingID)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func searchKey(from, to, date string) string {
	return fmt.Sprintf("cache:search:%s:%s:%s", from, to, date)
}

func submitLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s:payment", bookingID)
}
