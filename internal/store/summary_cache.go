package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maturity-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrSummaryNotFound = errors.New("assessment summary not found")

const summaryKeyPrefix = "assessment:summary:"

// SummaryCache keeps scored AssessmentSummary values so cohort reports can
// refer to instances by id.
type SummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{redis: rdb, ttl: ttl}
}

func SummaryKey(instanceID string) string {
	return summaryKeyPrefix + instanceID
}

func (c *SummaryCache) Put(ctx context.Context, summary models.AssessmentSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary %s: %w", summary.InstanceID, err)
	}
	if err := c.redis.Set(ctx, SummaryKey(summary.InstanceID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache summary %s: %w", summary.InstanceID, err)
	}
	return nil
}

func (c *SummaryCache) Get(ctx context.Context, instanceID string) (*models.AssessmentSummary, error) {
	val, err := c.redis.Get(ctx, SummaryKey(instanceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read summary %s: %w", instanceID, err)
	}

	var summary models.AssessmentSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", instanceID, err)
	}
	return &summary, nil
}

// GetMany resolves instanceIDs in one MGET. Ids without a cached (or
// decodable) summary are returned in missing, in input order.
func (c *SummaryCache) GetMany(ctx context.Context, instanceIDs []string) ([]models.AssessmentSummary, []string, error) {
	if len(instanceIDs) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, len(instanceIDs))
	for i, id := range instanceIDs {
		keys[i] = SummaryKey(id)
	}

	values, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("read summaries: %w", err)
	}

	found := make([]models.AssessmentSummary, 0, len(values))
	var missing []string
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, instanceIDs[i])
			continue
		}
		var summary models.AssessmentSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			missing = append(missing, instanceIDs[i])
			continue
		}
		found = append(found, summary)
	}

	return found, missing, nil
}
