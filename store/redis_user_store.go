package store

import (
	"fmt"
	"time"
)

// RedisUserStore holds per-user preferences (currently only the /lang
// override) with a sliding TTL.
type RedisUserStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisUserStore(redisClient *RedisClient, ttlHours int) *RedisUserStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisUserStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisUserStore) GetUserOptions(userID int64) (map[string]interface{}, error) {
	key := s.client.generateKey("user_options", fmt.Sprintf("%d", userID))
	var options map[string]interface{}
	if err := s.client.Get(key, &options); err != nil {
		return make(map[string]interface{}), nil
	}
	if options == nil {
		return make(map[string]interface{}), nil
	}
	return options, nil
}

func (s *RedisUserStore) SetUserOptions(userID int64, options map[string]interface{}) error {
	key := s.client.generateKey("user_options", fmt.Sprintf("%d", userID))
	return s.client.Set(key, options, s.ttl)
}
