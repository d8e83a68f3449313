// internal/workers/maturity/aggregate-cohort/handler.go
package aggregatecohort

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "maturity-workers/internal/common/errors"
	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/metrics"
	"maturity-workers/internal/common/validation"
	"maturity-workers/internal/models"
	"maturity-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "aggregate-cohort"
)

// SummaryLookup resolves cached summaries by instance id.
type SummaryLookup interface {
	GetMany(ctx context.Context, instanceIDs []string) ([]models.AssessmentSummary, []string, error)
}

type Handler struct {
	config       *Config
	summaries    SummaryLookup
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, summaries SummaryLookup, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		summaries:    summaries,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
		now:          time.Now,
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

	result, err := validation.ValidateCohortInput(variables)
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
	merged, missing, err := h.collectSummaries(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(merged) == 0 && len(input.InstanceIDs) > 0 {
		return nil, apperrors.NewSummaryNotFoundError(missing)
	}

	areas := input.Areas
	if len(areas) == 0 {
		areas = h.config.Areas
	}

	stats := scoring.AggregateSummaries(merged, areas)
	metrics.RecordCohort(stats)

	if len(missing) > 0 {
		h.logger.Warn("some instances have no cached summary", map[string]interface{}{
			"missingInstanceIds": missing,
		})
	}

	reportID := uuid.NewString()
	h.logger.Info("cohort aggregated", map[string]interface{}{
		"reportId":       reportID,
		"totalInstances": stats.Overall.TotalInstances,
		"avgScore":       stats.Overall.AvgScore,
		"avgLevel":       stats.Overall.AvgLevel,
		"areas":          len(stats.ByArea),
	})

	return &Output{
		ReportID:           reportID,
		Stats:              stats,
		MissingInstanceIDs: missing,
		GeneratedAt:        h.now().UTC(),
	}, nil
}

// collectSummaries merges inline summaries with cached ones, one per
// instance id. Inline summaries replace cached ones, and a later inline
// summary replaces an earlier one.
func (h *Handler) collectSummaries(ctx context.Context, input *Input) ([]models.AssessmentSummary, []string, error) {
	merged := make([]models.AssessmentSummary, 0, len(input.Summaries)+len(input.InstanceIDs))
	position := make(map[string]int, cap(merged))

	for _, s := range input.Summaries {
		if i, ok := position[s.InstanceID]; ok {
			merged[i] = s
			continue
		}
		position[s.InstanceID] = len(merged)
		merged = append(merged, s)
	}

	var toFetch []string
	requested := make(map[string]bool, len(input.InstanceIDs))
	for _, id := range input.InstanceIDs {
		if requested[id] {
			continue
		}
		requested[id] = true
		if _, inline := position[id]; !inline {
			toFetch = append(toFetch, id)
		}
	}

	missing := []string{}
	if len(toFetch) == 0 {
		return merged, missing, nil
	}
	if h.summaries == nil {
		return merged, append(missing, toFetch...), nil
	}

	cached, notCached, err := h.summaries.GetMany(ctx, toFetch)
	if err != nil {
		return nil, nil, apperrors.NewSummaryCacheError(err)
	}

	for _, s := range cached {
		if _, ok := position[s.InstanceID]; ok {
			continue
		}
		position[s.InstanceID] = len(merged)
		merged = append(merged, s)
	}

	return merged, append(missing, notCached...), nil
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
