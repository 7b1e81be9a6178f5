package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/pulsechat/pulse-backend/internal/store/redisstore"
	"github.com/redis/go-redis/v9"
)

// Cached decorates a Lookup with a short-TTL redis cache. Snapshots stay
// best-effort current; the TTL only bounds identity-store round trips per
// author on hot channels.
type Cached struct {
	next Lookup
	rds  *redisstore.Store
	ttl  time.Duration
}

func NewCached(next Lookup, rds *redisstore.Store, ttl time.Duration) *Cached {
	return &Cached{next: next, rds: rds, ttl: ttl}
}

func (c *Cached) Profile(ctx context.Context, userID string) (*Snapshot, error) {
	payload, err := c.rds.GetProfileJSON(ctx, userID)
	if err == nil {
		var snap Snapshot
		if jsonErr := json.Unmarshal([]byte(payload), &snap); jsonErr == nil {
			return &snap, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		// cache trouble is not a lookup failure
		log.Printf("profile cache get failed user=%s err=%v", userID, err)
	}

	snap, err := c.next.Profile(ctx, userID)
	if err != nil || snap == nil {
		return snap, err
	}

	if b, jsonErr := json.Marshal(snap); jsonErr == nil {
		if setErr := c.rds.SetProfileJSON(ctx, userID, string(b), c.ttl); setErr != nil {
			log.Printf("profile cache set failed user=%s err=%v", userID, setErr)
		}
	}
	return snap, nil
}
