package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/model"
)

// sessionDoc is the serialized session record. It carries the full user
// record, credential included, mirroring what the legacy front end kept in
// browser storage.
type sessionDoc struct {
	ID          string    `json:"_id"`
	UserName    string    `json:"userName"`
	Password    string    `json:"password"`
	Role        string    `json:"userRole"`
	Active      bool      `json:"ativo"`
	CreatedTime time.Time `json:"createdTime"`
}

// RedisSessionStore keeps one serialized user record per session key.
type RedisSessionStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisSessionStore creates a RedisSessionStore.
func NewRedisSessionStore(rdb *redis.Client, log zerolog.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: rdb,
		log: log.With().Str("component", "session_store").Logger(),
	}
}

func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, u model.User, ttl time.Duration) error {
	doc, err := json.Marshal(sessionDoc{
		ID:          u.ID,
		UserName:    u.UserName,
		Password:    u.Password,
		Role:        u.Role,
		Active:      u.Active,
		CreatedTime: u.CreatedTime,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.SessionKey(sessionID), doc, ttl).Err()
}

// Get restores the persisted record. A record that fails to deserialize is
// deleted and reported as no session, so a corrupt entry cannot wedge the
// sign-in screen.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (model.User, error) {
	key := config.CacheKey.SessionKey(sessionID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, ErrNoSession
		}
		return model.User{}, fmt.Errorf("read session: %w", err)
	}

	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("Corrupt session record, clearing")
		if delErr := s.rdb.Del(ctx, key).Err(); delErr != nil {
			s.log.Error().Err(delErr).Str("session_id", sessionID).Msg("Failed to clear corrupt session")
		}
		return model.User{}, ErrNoSession
	}

	return model.User{
		ID:          doc.ID,
		UserName:    doc.UserName,
		Password:    doc.Password,
		Role:        doc.Role,
		Active:      doc.Active,
		CreatedTime: doc.CreatedTime,
	}, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(sessionID)).Err()
}
