package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

const leaderboardKey = "apogee:leaderboard"

// LeaderboardCache is a read-through cache over a slower leaderboard store
// (the sheet-backed one in particular). Load serves the cached JSON document
// when present; Append writes through and invalidates.
type LeaderboardCache struct {
	client *redis.Client
	inner  app.LeaderboardStore
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, inner app.LeaderboardStore, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, inner: inner, ttl: ttl}
}

func (c *LeaderboardCache) Load(ctx context.Context) domain.Leaderboard {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err == nil {
		var data domain.Leaderboard
		if err := json.Unmarshal(raw, &data); err == nil && data != nil {
			return data
		}
	}

	data := c.inner.Load(ctx)
	if encoded, err := json.Marshal(data); err == nil {
		// best effort; a failed cache fill just means another store read
		if err := c.client.Set(ctx, leaderboardKey, encoded, c.ttl).Err(); err != nil {
			log.Printf("leaderboard cache fill failed: %v", err)
		}
	}
	return data
}

func (c *LeaderboardCache) Append(ctx context.Context, gameKey string, entry domain.LeaderboardEntry) error {
	if err := c.inner.Append(ctx, gameKey, entry); err != nil {
		return err
	}
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		log.Printf("leaderboard cache invalidation failed: %v", err)
	}
	return nil
}
