// internal/workers/maturity/resolve-maturity-level/handler.go
package resolvematuritylevel

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "maturity-workers/internal/common/errors"
	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/metrics"
	"maturity-workers/internal/common/validation"
	"maturity-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-maturity-level"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputParseError(err)
	}

	result, err := validation.ValidateLevelInput(variables)
	if err != nil {
		return nil, apperrors.NewInputParseError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewAssessmentValidationError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("validationErrors", result.Errors)
	}

	return &input, nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Score == nil && input.Level == nil {
		return nil, apperrors.NewAssessmentValidationError("one of score or level is required")
	}

	cfg := input.ScoringConfig
	if cfg == nil {
		cfg = h.config.Defaults
	}
	thresholds := scoring.ThresholdsFromConfig(cfg)
	if err := thresholds.Validate(); err != nil {
		return nil, apperrors.NewInvalidScoringConfigError(err)
	}

	var level int
	if input.Score != nil {
		level = scoring.ScoreToLevel(*input.Score, thresholds)
	} else {
		level = scoring.ClampLevel(*input.Level)
	}

	output := &Output{
		Level:      level,
		Label:      scoring.LevelLabel(level),
		ScoreRange: scoring.LevelToScoreRange(level, thresholds),
	}

	if input.TransformationYear != nil {
		expected := scoring.ExpectedLevelByYear(*input.TransformationYear)
		meets := level >= expected
		output.ExpectedLevel = &expected
		output.ExpectedLabel = scoring.LevelLabel(expected)
		output.MeetsExpectation = &meets
	}

	h.logger.Info("maturity level resolved", map[string]interface{}{
		"level":     output.Level,
		"label":     output.Label,
		"fromScore": input.Score != nil,
	})

	return output, nil
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
