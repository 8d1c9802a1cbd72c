package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/acadsys/acadsys-backend/internal/config"
)

// Change actions published after a successful mutation.
const (
	ChangeActionCreate = "create"
	ChangeActionUpdate = "update"
	ChangeActionDelete = "delete"
)

// ChangeEvent announces one committed mutation of a collection.
type ChangeEvent struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         string `json:"id"`
}

// ChangePublisher broadcasts change events to interested listeners (other
// server instances, connected UIs). Publishing is best effort.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev ChangeEvent) error
}

// RedisChangePublisher broadcasts change events over Redis PubSub.
type RedisChangePublisher struct {
	rdb *redis.Client
}

func NewRedisChangePublisher(rdb *redis.Client) *RedisChangePublisher {
	return &RedisChangePublisher{rdb: rdb}
}

func (p *RedisChangePublisher) PublishChange(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return p.rdb.Publish(ctx, config.CacheKey.ChangeChannel(), payload).Err()
}
