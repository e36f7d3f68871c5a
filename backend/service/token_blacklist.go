package service

import (
	"context"
	"sync"
	"time"

	"archive-hub/backend/common"
)

// TokenBlacklist remembers revoked bearer tokens until they would have
// expired anyway.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) bool
}

// NewTokenBlacklist uses Redis when it is enabled, otherwise process memory.
func NewTokenBlacklist() TokenBlacklist {
	if common.RedisEnabled && common.RDB != nil {
		return redisBlacklist{}
	}
	return newMemoryBlacklist()
}

const blacklistKeyPrefix = "jwt:blacklist:"

type redisBlacklist struct{}

func (redisBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	return common.RDB.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

func (redisBlacklist) Contains(ctx context.Context, token string) bool {
	n, err := common.RDB.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		common.SysError("check token blacklist: " + err.Error())
		return false
	}
	return n > 0
}

type memoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{entries: make(map[string]time.Time)}
}

func (m *memoryBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	// 顺便清理过期条目
	for t, expiresAt := range m.entries {
		if now.After(expiresAt) {
			delete(m.entries, t)
		}
	}
	m.entries[token] = now.Add(ttl)
	return nil
}

func (m *memoryBlacklist) Contains(_ context.Context, token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.entries[token]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(m.entries, token)
		return false
	}
	return true
}
