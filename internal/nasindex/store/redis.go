package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/nasdex/indexer/internal/errors"
)

// RedisStore is the go-redis-backed Store implementation — the real
// collaborator named in §6's "State store protocol".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses rawURL (e.g. "redis://redis:6379") and dials a
// client. Connectivity is verified by the caller via Ping; a Redis
// server unreachable at startup is a fatal error per the error
// taxonomy, so construction itself never blocks or retries.
func NewRedisStore(rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, apperrors.ConfigInvalid("redis_url", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, apperrors.StoreOpFailed("SETNX "+key, err)
	}
	return ok, nil
}

func (s *RedisStore) ReleaseLock(ctx context.Context, key string) error {
	return s.Del(ctx, key)
}

func (s *RedisStore) Enqueue(ctx context.Context, queue string, payload []byte) error {
	if err := s.client.LPush(ctx, queue, payload).Err(); err != nil {
		return apperrors.StoreOpFailed("LPUSH "+queue, err)
	}
	return nil
}

func (s *RedisStore) DequeueBlocking(ctx context.Context, queue string, timeout time.Duration) ([]byte, bool, error) {
	res, err := s.client.BRPop(ctx, timeout, queue).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, apperrors.StoreOpFailed("BRPOP "+queue, err)
	}
	// BRPop returns [key, value].
	if len(res) < 2 {
		return nil, false, nil
	}
	return []byte(res[1]), true, nil
}

func (s *RedisStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, apperrors.StoreOpFailed("SISMEMBER "+key, err)
	}
	return ok, nil
}

func (s *RedisStore) SAdd(ctx context.Context, key, member string) error {
	if err := s.client.SAdd(ctx, key, member).Err(); err != nil {
		return apperrors.StoreOpFailed("SADD "+key, err)
	}
	return nil
}

func (s *RedisStore) SRem(ctx context.Context, key, member string) error {
	if err := s.client.SRem(ctx, key, member).Err(); err != nil {
		return apperrors.StoreOpFailed("SREM "+key, err)
	}
	return nil
}

func (s *RedisStore) SCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, apperrors.StoreOpFailed("SCARD "+key, err)
	}
	return n, nil
}

func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, apperrors.StoreOpFailed("SMEMBERS "+key, err)
	}
	return members, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.StoreOpFailed("GET "+key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return apperrors.StoreOpFailed("SET "+key, err)
	}
	return nil
}

func (s *RedisStore) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.StoreOpFailed("SETEX "+key, err)
	}
	return nil
}

func (s *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		return apperrors.StoreOpFailed("HSET "+key, err)
	}
	return nil
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.StoreOpFailed("HGET "+key, err)
	}
	return v, true, nil
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, apperrors.StoreOpFailed("HGETALL "+key, err)
	}
	return m, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.StoreOpFailed("EXPIRE "+key, err)
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.StoreOpFailed("DEL "+key, err)
	}
	return nil
}

func (s *RedisStore) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.StoreOpFailed("SCAN "+prefix, err)
	}
	return keys, nil
}

var _ Store = (*RedisStore)(nil)
