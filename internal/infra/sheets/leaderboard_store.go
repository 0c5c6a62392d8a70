package sheets

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

const leaderboardWorksheet = "Leaderboard"

var leaderboardHeader = []string{"Game", "Nickname", "Name", "Branch", "Score", "Time"}

// LeaderboardStore keeps the leaderboard in the shared Leaderboard worksheet,
// one row per entry with the game key in the first column. Reading
// reconstructs the grouped document by partitioning on that column.
type LeaderboardStore struct {
	client *Client
}

func NewLeaderboardStore(client *Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

// Load reads every row and partitions by game key. Any failure degrades to
// the empty document; the leaderboard is never a fatal feature.
func (s *LeaderboardStore) Load(ctx context.Context) domain.Leaderboard {
	data := domain.EmptyLeaderboard()

	rows, err := s.client.readRows(ctx, leaderboardWorksheet+"!A2:F")
	if err != nil {
		log.Printf("leaderboard sheet read failed: %v", err)
		return data
	}

	for _, row := range rows {
		if len(row) < 1 {
			continue
		}
		gameKey := cell(row, 0)
		if _, ok := data[gameKey]; !ok {
			continue
		}
		score, _ := strconv.Atoi(cell(row, 4))
		data[gameKey] = append(data[gameKey], domain.LeaderboardEntry{
			Nickname: cell(row, 1),
			Name:     cell(row, 2),
			Branch:   cell(row, 3),
			Score:    score,
			Time:     cell(row, 5),
		})
	}
	return data
}

func (s *LeaderboardStore) Append(ctx context.Context, gameKey string, entry domain.LeaderboardEntry) error {
	if err := s.client.ensureWorksheet(ctx, leaderboardWorksheet, leaderboardHeader); err != nil {
		return err
	}
	return s.client.appendRow(ctx, leaderboardWorksheet, []string{
		gameKey, entry.Nickname, entry.Name, entry.Branch, strconv.Itoa(entry.Score), entry.Time,
	})
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}
