// File: services/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"frontdesk/models"
)

const sessionPrefix = "fd:sess:"

// RedisStore keeps sessions as JSON blobs with a sliding idle TTL, so
// abandoned calls eventually evict themselves.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, callerID string) (*models.Session, error) {
	key := sessionPrefix + callerID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.NewSession(callerID), nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *models.Session) error {
	sess.Touch()
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+sess.CallerID, b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, callerID string) error {
	return s.client.Del(ctx, sessionPrefix+callerID).Err()
}
