package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 캐시 키 접두사
const (
	PrefixSession = "cq:session:"
)

// ErrMiss is returned by Get when the key does not exist
var ErrMiss = errors.New("cache miss")

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

