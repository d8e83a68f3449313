// Package store holds the persistence collaborators of the scoring workers:
// per-template scoring configuration in Postgres and scored summaries in
// Redis.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrConfigNotFound = errors.New("scoring config not found")

const (
	configKeyPrefix = "scoring:config:"

	selectScoringConfig = `
		SELECT level_thresholds, default_weights
		FROM scoring_configs
		WHERE template_id = $1`
)

// ConfigStore reads scoring_configs rows with a Redis cache in front.
//
//	CREATE TABLE scoring_configs (
//	    template_id      TEXT PRIMARY KEY,
//	    level_thresholds JSONB NOT NULL,
//	    default_weights  JSONB
//	);
type ConfigStore struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewConfigStore builds a store. rdb may be nil, which disables caching.
func NewConfigStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *ConfigStore {
	return &ConfigStore{
		db:     db,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "config-store"}),
	}
}

func ConfigKey(templateID string) string {
	return configKeyPrefix + templateID
}

// GetScoringConfig returns the override for templateID, or
// ErrConfigNotFound when the template has none.
func (s *ConfigStore) GetScoringConfig(ctx context.Context, templateID string) (*models.ScoringConfig, error) {
	if cfg, ok := s.fromCache(ctx, templateID); ok {
		return cfg, nil
	}

	var thresholds, weights []byte
	err := s.db.QueryRowContext(ctx, selectScoringConfig, templateID).Scan(&thresholds, &weights)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query scoring config %s: %w", templateID, err)
	}

	cfg := &models.ScoringConfig{}
	if err := json.Unmarshal(thresholds, &cfg.LevelThresholds); err != nil {
		return nil, fmt.Errorf("decode level_thresholds for %s: %w", templateID, err)
	}
	if len(weights) > 0 {
		var dw models.DefaultWeights
		if err := json.Unmarshal(weights, &dw); err != nil {
			return nil, fmt.Errorf("decode default_weights for %s: %w", templateID, err)
		}
		cfg.DefaultWeights = &dw
	}

	s.toCache(ctx, templateID, cfg)
	return cfg, nil
}

func (s *ConfigStore) fromCache(ctx context.Context, templateID string) (*models.ScoringConfig, bool) {
	if s.redis == nil {
		return nil, false
	}

	val, err := s.redis.Get(ctx, ConfigKey(templateID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("scoring config cache read failed", map[string]interface{}{
				"templateId": templateID,
			})
		}
		return nil, false
	}

	var cfg models.ScoringConfig
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

func (s *ConfigStore) toCache(ctx context.Context, templateID string, cfg *models.ScoringConfig) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, ConfigKey(templateID), data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("scoring config cache write failed", map[string]interface{}{
			"templateId": templateID,
		})
	}
}
