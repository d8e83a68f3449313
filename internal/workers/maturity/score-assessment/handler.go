// internal/workers/maturity/score-assessment/handler.go
package scoreassessment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"maturity-workers/internal/common/database"
	apperrors "maturity-workers/internal/common/errors"
	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/metrics"
	"maturity-workers/internal/common/validation"
	"maturity-workers/internal/models"
	"maturity-workers/internal/scoring"
	"maturity-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-assessment"
)

// ConfigLookup resolves the per-template scoring override.
type ConfigLookup interface {
	GetScoringConfig(ctx context.Context, templateID string) (*models.ScoringConfig, error)
}

type SummaryStore interface {
	Put(ctx context.Context, summary models.AssessmentSummary) error
}

type Handler struct {
	config       *Config
	configs      ConfigLookup
	summaries    SummaryStore
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds the worker. configs and summaries may be nil, which
// disables template lookups and summary caching respectively.
func NewHandler(config *Config, configs ConfigLookup, summaries SummaryStore, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		configs:      configs,
		summaries:    summaries,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute scores input without a broker round trip.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputParseError(err)
	}

	result, err := validation.ValidateAssessmentInput(variables)
	if err != nil {
		return nil, apperrors.NewInputParseError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewAssessmentValidationError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("validationErrors", result.Errors)
	}

	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	cfg, source, err := h.resolveConfig(ctx, input)
	if err != nil {
		return nil, err
	}

	thresholds := scoring.ThresholdsFromConfig(cfg)
	if err := thresholds.Validate(); err != nil {
		return nil, apperrors.NewInvalidScoringConfigError(err).WithMetadata("configSource", source)
	}

	summary := scoring.ScoreAssessmentWith(input.AssessmentScoringInput, thresholds, scoring.WeightsFromConfig(cfg))

	if h.summaries != nil {
		if err := h.summaries.Put(ctx, summary); err != nil {
			h.logger.Warn("failed to cache assessment summary", map[string]interface{}{
				"instanceId": summary.InstanceID,
				"error":      err,
			})
		}
	}

	metrics.RecordAssessment(summary)

	h.logger.Info("assessment scored", map[string]interface{}{
		"instanceId":    summary.InstanceID,
		"area":          summary.Area,
		"totalScore":    summary.TotalScore,
		"overallLevel":  summary.OverallLevel,
		"expectedLevel": summary.ExpectedLevel,
		"configSource":  source,
	})

	return &Output{
		Summary:          summary,
		OverallLabel:     scoring.LevelLabel(summary.OverallLevel),
		ExpectedLabel:    scoring.LevelLabel(summary.ExpectedLevel),
		OverallRange:     scoring.LevelToScoreRange(summary.OverallLevel, thresholds),
		MeetsExpectation: summary.OverallLevel >= summary.ExpectedLevel,
		ExpectationGap:   summary.OverallLevel - summary.ExpectedLevel,
		ConfigSource:     source,
	}, nil
}

// resolveConfig picks the inline config, then the template override, then
// the worker defaults. Weights missing from the chosen config are taken
// from the defaults.
func (h *Handler) resolveConfig(ctx context.Context, input *Input) (*models.ScoringConfig, string, error) {
	if input.ScoringConfig != nil {
		return h.withDefaultWeights(input.ScoringConfig), ConfigSourceInline, nil
	}

	if input.TemplateID != "" && h.configs != nil {
		cfg, err := h.configs.GetScoringConfig(ctx, input.TemplateID)
		switch {
		case err == nil:
			return h.withDefaultWeights(cfg), ConfigSourceTemplate, nil
		case errors.Is(err, store.ErrConfigNotFound):
			h.logger.Debug("no scoring config for template, using defaults", map[string]interface{}{
				"templateId": input.TemplateID,
			})
		case database.IsConnectionError(err):
			return nil, "", apperrors.NewDatabaseConnectionFailedError(err).WithMetadata("templateId", input.TemplateID)
		default:
			return nil, "", apperrors.NewScoringConfigLookupError(input.TemplateID, err)
		}
	}

	return h.config.Defaults, ConfigSourceDefault, nil
}

func (h *Handler) withDefaultWeights(cfg *models.ScoringConfig) *models.ScoringConfig {
	if cfg.DefaultWeights != nil || h.config.Defaults == nil || h.config.Defaults.DefaultWeights == nil {
		return cfg
	}
	merged := *cfg
	merged.DefaultWeights = h.config.Defaults.DefaultWeights
	return &merged
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		h.failJob(ctx, client, job, err)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
