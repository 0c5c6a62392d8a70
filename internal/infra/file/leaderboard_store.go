// Package file persists the leaderboard as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// DefaultPath matches the document name used by earlier deployments.
const DefaultPath = "leaderboard.json"

// LeaderboardStore reads and overwrites the whole document on every append.
// Concurrent writers race with last-write-wins semantics; acceptable for a
// low-traffic casual leaderboard.
type LeaderboardStore struct {
	mu   sync.Mutex
	path string
}

func NewLeaderboardStore(path string) *LeaderboardStore {
	if path == "" {
		path = DefaultPath
	}
	return &LeaderboardStore{path: path}
}

// Load returns the persisted document. A missing file or malformed content is
// treated as the empty two-key document, never as an error.
func (s *LeaderboardStore) Load(context.Context) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *LeaderboardStore) load() domain.Leaderboard {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return domain.EmptyLeaderboard()
	}

	var data domain.Leaderboard
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return domain.EmptyLeaderboard()
	}
	for key, entries := range domain.EmptyLeaderboard() {
		if _, ok := data[key]; !ok {
			data[key] = entries
		}
	}
	return data
}

// Append pushes the entry onto the named sequence and persists the full
// structure back.
func (s *LeaderboardStore) Append(_ context.Context, gameKey string, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	data[gameKey] = append(data[gameKey], entry)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return nil
}
