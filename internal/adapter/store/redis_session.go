package store

import (
	"aurum-core/internal/domain/entity"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps the recent turns of each chat session in a capped list.
type RedisSessionStore struct {
	client     *redis.Client
	maxHistory int64
	ttl        time.Duration
}

func NewRedisSessionStore(client *redis.Client, maxHistory int, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:     client,
		maxHistory: int64(maxHistory),
		ttl:        ttl,
	}
}

func sessionKey(sessionID string) string {
	return "chat:session:" + sessionID
}

// Append stores msgs and returns the number of turns now held for the session.
func (s *RedisSessionStore) Append(ctx context.Context, sessionID string, msgs ...entity.ChatMessage) (int, error) {
	if len(msgs) == 0 {
		n, err := s.client.LLen(ctx, sessionKey(sessionID)).Result()
		return int(n), err
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return 0, fmt.Errorf("encode chat message: %w", err)
		}
		values = append(values, data)
	}

	key := sessionKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -s.maxHistory, -1)
	pipe.Expire(ctx, key, s.ttl)
	length := pipe.LLen(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(length.Val()), nil
}

func (s *RedisSessionStore) History(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), -int64(limit), -1).Result()
	if err != nil {
		return nil, err
	}

	history := make([]entity.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m entity.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		history = append(history, m)
	}
	return history, nil
}
