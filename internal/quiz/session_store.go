package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one Session per conversation session id. Get returns
// the zero Session when none is stored.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (Session, error)
	Put(ctx context.Context, sessionID string, s Session) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore stores sessions as JSON with a TTL refreshed on every put.
type RedisSessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisSessionStore(client redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("quiz:session:%s", id)
}

func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("getting quiz session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decoding quiz session: %w", err)
	}
	return s, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, sessionID string, s Session) error {
	if !s.Active {
		return r.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding quiz session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing quiz session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("deleting quiz session: %w", err)
	}
	return nil
}

// MemorySessionStore is a process-local SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (m *MemorySessionStore) Get(_ context.Context, sessionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID], nil
}

func (m *MemorySessionStore) Put(_ context.Context, sessionID string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !s.Active {
		delete(m.sessions, sessionID)
		return nil
	}
	m.sessions[sessionID] = s
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
