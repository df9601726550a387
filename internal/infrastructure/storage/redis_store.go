package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saarzint/bolgenie/domain"
)

const redisOpTimeout = 5 * time.Second

// RedisStore persists credentials and the selected plan in Redis, for
// headless deployments where several workers share one session. Implements
// domain.TokenStore and domain.PlanStore.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "bolgenie:",
	}
}

func (s *RedisStore) get(key string) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		return ""
	}
	return val
}

func (s *RedisStore) set(pairs map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	pipe := s.client.TxPipeline()
	for k, v := range pairs {
		pipe.Set(ctx, s.prefix+k, v, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) del(keys ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.client.Del(ctx, full...).Err()
}

// AccessToken implements domain.TokenStore
func (s *RedisStore) AccessToken() string {
	return s.get(accessTokenKey)
}

// RefreshToken implements domain.TokenStore
func (s *RedisStore) RefreshToken() string {
	return s.get(refreshTokenKey)
}

// SetTokens implements domain.TokenStore
func (s *RedisStore) SetTokens(tokens domain.Credential) error {
	return s.set(map[string]string{
		accessTokenKey:  tokens.AccessToken,
		refreshTokenKey: tokens.RefreshToken,
	})
}

// ClearTokens implements domain.TokenStore
func (s *RedisStore) ClearTokens() error {
	return s.del(accessTokenKey, refreshTokenKey)
}

// HasToken implements domain.TokenStore
func (s *RedisStore) HasToken() bool {
	return s.AccessToken() != ""
}

// SelectedPlan implements domain.PlanStore
func (s *RedisStore) SelectedPlan() string {
	return s.get(selectedPlanKey)
}

// SetSelectedPlan implements domain.PlanStore
func (s *RedisStore) SetSelectedPlan(plan string) error {
	return s.set(map[string]string{selectedPlanKey: plan})
}

// ClearSelectedPlan implements domain.PlanStore
func (s *RedisStore) ClearSelectedPlan() error {
	return s.del(selectedPlanKey)
}
