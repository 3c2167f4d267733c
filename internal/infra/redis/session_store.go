package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"topic-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Players stay in a local map because their goroutines cannot move between
// processes; Redis only carries a liveness marker holding the topic id, so
// other instances and operators can see which sessions are running.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Player
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Player),
	}
}

func (s *SessionStore) Put(player *app.Player) {
	s.mu.Lock()
	s.sessions[player.ID()] = player
	s.mu.Unlock()
	// best-effort liveness marker
	topic := strconv.FormatInt(player.Snapshot().TopicID, 10)
	_ = s.client.Set(context.Background(), sessionKey(player.ID()), topic, s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Player, bool) {
	s.mu.RLock()
	player, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), sessionKey(sessionID), s.ttl).Err()
	}
	return player, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}
