package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcanavci/lawjobs/internal/model"
	"github.com/mcanavci/lawjobs/internal/query"
)

const (
	cacheTTL        = time.Minute
	cacheVersionKey = "jobs:version"
)

// listCache is a best-effort Redis cache for the job listing. Keys embed a
// version counter that every append bumps, so stale listings age out without
// explicit deletes. A nil client disables caching entirely; cache errors are
// logged and treated as misses — the store stays the source of truth.
type listCache struct {
	rdb *redis.Client
}

func newListCache(rdb *redis.Client) *listCache {
	return &listCache{rdb: rdb}
}

func (c *listCache) key(ctx context.Context, f query.Filter) string {
	ver, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("[board] cache version read error: %v", err)
	}
	return fmt.Sprintf("jobs:list:%d:type=%s:location=%s:q=%s", ver, f.Type, f.Location, f.Q)
}

func (c *listCache) get(ctx context.Context, f query.Filter) ([]model.JobRecord, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, c.key(ctx, f)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[board] cache get error: %v", err)
		}
		return nil, false
	}
	var jobs []model.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.Printf("[board] cache decode error: %v", err)
		return nil, false
	}
	return jobs, true
}

func (c *listCache) set(ctx context.Context, f query.Filter, jobs []model.JobRecord) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(ctx, f), data, cacheTTL).Err(); err != nil {
		log.Printf("[board] cache set error: %v", err)
	}
}

// invalidate bumps the version counter so every cached listing misses.
func (c *listCache) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		log.Printf("[board] cache invalidate error: %v", err)
	}
}
