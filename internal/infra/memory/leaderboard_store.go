package memory

import (
	"context"
	"sync"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// LeaderboardStore keeps the leaderboard document in memory; it backs tests
// and runs without any persistence configured.
type LeaderboardStore struct {
	mu   sync.RWMutex
	data domain.Leaderboard
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{data: domain.EmptyLeaderboard()}
}

func (s *LeaderboardStore) Load(context.Context) domain.Leaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := domain.EmptyLeaderboard()
	for key, entries := range s.data {
		out[key] = append([]domain.LeaderboardEntry(nil), entries...)
	}
	return out
}

func (s *LeaderboardStore) Append(_ context.Context, gameKey string, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[gameKey] = append(s.data[gameKey], entry)
	return nil
}
