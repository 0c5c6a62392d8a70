package domain

import "sort"

// Rank returns the top n entries for a game key. The mission game orders by
// score descending with earlier timestamps winning ties; the quiz game orders
// by score descending only, leaving equal scores in arrival order.
func (lb Leaderboard) Rank(gameKey string, n int) []LeaderboardEntry {
	entries := append([]LeaderboardEntry(nil), lb[gameKey]...)

	switch gameKey {
	case GameKeyMission:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Score != entries[j].Score {
				return entries[i].Score > entries[j].Score
			}
			return entries[i].Time < entries[j].Time
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Score > entries[j].Score
		})
	}

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
