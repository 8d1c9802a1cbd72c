package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the Redis key holding the serialized session user record.
func (r *CacheKeyStruct) SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// ChangeChannel returns the Redis PubSub channel carrying collection change
// events published after every successful mutation.
func (r *CacheKeyStruct) ChangeChannel() string {
	return "acadsys:changes"
}

var CacheKey = NewCacheKeyStruct()
