// internal/remote/compliance/cache.go
package compliance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/common/metrics"
	"design-orchestrator/internal/models"
)

// Cache is a read-through Redis cache of live compliance verdicts, keyed by
// artifact digest and jurisdiction. Only outcomes from the real service are
// stored; fallback verdicts must expire with the outage, not outlive it.
// Every cache error degrades to a miss.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		rdb: rdb,
		ttl: ttl,
		logger: log.With(map[string]interface{}{
			"component": "compliance-cache",
		}),
	}
}

func (c *Cache) Get(ctx context.Context, req *CheckRequest) (*models.ComplianceOutcome, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(req)).Result()
	if err != nil {
		if err != redis.Nil {
			metrics.ComplianceCacheHits.WithLabelValues("error").Inc()
			c.logger.Warn("cache read failed, treating as miss", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			metrics.ComplianceCacheHits.WithLabelValues("miss").Inc()
		}
		return nil, false
	}

	var outcome models.ComplianceOutcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil {
		metrics.ComplianceCacheHits.WithLabelValues("error").Inc()
		c.logger.Warn("cache entry corrupt, treating as miss", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	metrics.ComplianceCacheHits.WithLabelValues("hit").Inc()
	return &outcome, true
}

func (c *Cache) Put(ctx context.Context, req *CheckRequest, outcome *models.ComplianceOutcome) {
	if outcome.UsedFallback {
		return
	}

	raw, err := json.Marshal(outcome)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, cacheKey(req), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func cacheKey(req *CheckRequest) string {
	payload, _ := json.Marshal(req.Artifact)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("compliance:%s:%s", req.Jurisdiction, hex.EncodeToString(sum[:]))
}
