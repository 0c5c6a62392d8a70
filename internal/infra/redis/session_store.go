package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Game sessions themselves stay in the local map (their timers and rand state
// are process-local); Redis marks cadet session liveness so an operator can
// see active cadets across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.Profile().AstronautName, s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "cadet:session:" + id
}
