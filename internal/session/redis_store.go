package session

import (
	"context"
	"encoding/json"
	"errors"
	"quizmaster_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "session:"
	dataKeyPrefix    = "session_data:"
)

// RedisStore 会话以 JSON 存储，过期时间与会话一致；会话数据存放在一个同样过期的 hash 中
type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Redis: rdb}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }
func dataKey(id string) string    { return dataKeyPrefix + id }

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return util.ErrSessionNotFound
	}
	return r.Redis.Set(ctx, sessionKey(s.ID), payload, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := r.Redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.Redis.Del(ctx, sessionKey(id), dataKey(id)).Err()
}

// PutData 只在会话仍存在时写入；WATCH 会话键，写入期间会话被删除则事务失败
func (r *RedisStore) PutData(ctx context.Context, s *Session, field string, value []byte) error {
	key := dataKey(s.ID)
	err := r.Redis.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, sessionKey(s.ID)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return util.ErrSessionNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, value)
			pipe.ExpireAt(ctx, key, s.ExpiresAt)
			return nil
		})
		return err
	}, sessionKey(s.ID))
	if errors.Is(err, redis.TxFailedErr) {
		return util.ErrSessionNotFound
	}
	return err
}

func (r *RedisStore) GetData(ctx context.Context, s *Session, field string) ([]byte, error) {
	v, err := r.Redis.HGet(ctx, dataKey(s.ID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDataNotFound
	}
	return v, err
}

func (r *RedisStore) DeleteData(ctx context.Context, s *Session, field string) error {
	return r.Redis.HDel(ctx, dataKey(s.ID), field).Err()
}
