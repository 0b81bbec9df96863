package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (s *RedisSession) GetSession(ctx context.Context, key string) (model.Session, error) {
	res, err := s.redis.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, err
	}

	chatSession := model.Session{}
	err = json.Unmarshal([]byte(res), &chatSession)
	if err != nil {
		return model.Session{}, err
	}

	return chatSession, nil
}

func (s *RedisSession) SetSession(ctx context.Context, key string, chatSession model.Session) error {
	sessionJson, err := json.Marshal(chatSession)
	if err != nil {
		return err
	}

	_, err = s.redis.Set(ctx, keyPrefix+key, sessionJson, s.cfg.SessionExpiration).Result()
	return err
}
