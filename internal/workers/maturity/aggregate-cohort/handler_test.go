package aggregatecohort

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"maturity-workers/internal/common/camunda/camundatest"
	apperrors "maturity-workers/internal/common/errors"
	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/metrics"
	"maturity-workers/internal/models"
	"maturity-workers/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func summary(id, area string, score float64, level int) models.AssessmentSummary {
	return models.AssessmentSummary{
		InstanceID:         id,
		Area:               area,
		TotalScore:         score,
		ModuleScores:       []models.ModuleScore{},
		OverallLevel:       level,
		ExpectedLevel:      1,
		TransformationYear: 1,
	}
}

func setupCache(t *testing.T, seeded ...models.AssessmentSummary) *store.SummaryCache {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := store.NewSummaryCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	for _, s := range seeded {
		require.NoError(t, cache.Put(context.Background(), s))
	}
	return cache
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	cache := setupCache(t,
		summary("a", "digital", 80, 3),
		summary("b", "digital", 60, 2),
		summary("c", "people", 90, 4),
	)

	tests := []struct {
		name        string
		input       *Input
		wantTotal   int
		wantAvg     float64
		wantAvgLvl  float64
		wantMissing []string
		wantAreas   []string
	}{
		{
			name:       "inline summaries only",
			input:      &Input{Summaries: []models.AssessmentSummary{summary("x", "ops", 70, 3), summary("y", "ops", 40, 2)}},
			wantTotal:  2,
			wantAvg:    55,
			wantAvgLvl: 2.5,
			wantAreas:  []string{"digital", "people", "operations", "ops"},
		},
		{
			name:        "cached summaries by id",
			input:       &Input{InstanceIDs: []string{"a", "b", "c", "zzz"}, Areas: []string{"digital", "people", "finance"}},
			wantTotal:   3,
			wantAvg:     76.67,
			wantAvgLvl:  3,
			wantMissing: []string{"zzz"},
			wantAreas:   []string{"digital", "people", "finance"},
		},
		{
			name: "inline replaces cached",
			input: &Input{
				Summaries:   []models.AssessmentSummary{summary("a", "digital", 20, 1)},
				InstanceIDs: []string{"a", "b"},
			},
			wantTotal:  2,
			wantAvg:    40,
			wantAvgLvl: 1.5,
			wantAreas:  []string{"digital", "people", "operations"},
		},
		{
			name:       "duplicate ids counted once",
			input:      &Input{InstanceIDs: []string{"c", "c", "c"}},
			wantTotal:  1,
			wantAvg:    90,
			wantAvgLvl: 4,
			wantAreas:  []string{"digital", "people", "operations"},
		},
		{
			name:       "empty cohort",
			input:      &Input{},
			wantTotal:  0,
			wantAvg:    0,
			wantAvgLvl: 0,
			wantAreas:  []string{"digital", "people", "operations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&Config{
				Timeout: time.Second,
				Areas:   []string{"digital", "people", "operations"},
			}, cache, logger.NewTestLogger(t))
			h.now = fixedClock

			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, out.Stats.Overall.TotalInstances)
			assert.Equal(t, tt.wantAvg, out.Stats.Overall.AvgScore)
			assert.Equal(t, tt.wantAvgLvl, out.Stats.Overall.AvgLevel)

			if tt.wantMissing == nil {
				assert.Empty(t, out.MissingInstanceIDs)
			} else {
				assert.Equal(t, tt.wantMissing, out.MissingInstanceIDs)
			}

			for _, area := range tt.wantAreas {
				assert.Contains(t, out.Stats.ByArea, area)
			}
			assert.Len(t, out.Stats.ByArea, len(tt.wantAreas))

			_, err = uuid.Parse(out.ReportID)
			assert.NoError(t, err)
			assert.Equal(t, fixedClock(), out.GeneratedAt)
		})
	}
}

func TestHandler_Execute_AreaStats(t *testing.T) {
	cache := setupCache(t, summary("a", "digital", 80, 3), summary("b", "digital", 61, 2))
	h := NewHandler(nil, cache, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{InstanceIDs: []string{"a", "b"}, Areas: []string{"digital", "people"}})
	require.NoError(t, err)

	assert.Equal(t, models.AreaStats{AvgScore: 70.5, Count: 2}, out.Stats.ByArea["digital"])
	assert.Equal(t, models.AreaStats{AvgScore: 0, Count: 0}, out.Stats.ByArea["people"])
}

func TestHandler_Execute_NothingResolvable(t *testing.T) {
	cache := setupCache(t)
	h := NewHandler(nil, cache, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{InstanceIDs: []string{"p", "q"}})
	assert.Nil(t, out)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSummaryNotFound, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Equal(t, []string{"p", "q"}, stdErr.Metadata["instanceIds"])
}

func TestHandler_Execute_NoCacheConfigured(t *testing.T) {
	h := NewHandler(nil, nil, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		Summaries:   []models.AssessmentSummary{summary("a", "digital", 50, 2)},
		InstanceIDs: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.Overall.TotalInstances)
	assert.Equal(t, []string{"b"}, out.MissingInstanceIDs)
}

func TestHandler_Execute_CacheUnavailable(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectMGet(store.SummaryKey("a")).SetErr(errors.New("connection refused"))

	h := NewHandler(nil, store.NewSummaryCache(rdb, time.Hour), logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{InstanceIDs: []string{"a"}})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSummaryCacheFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := NewHandler(nil, nil, logger.NewNoOpLogger())

	input, err := h.parseInput(`{"instanceIds": ["a"], "areas": ["digital"],
		"summaries": [{"instanceId": "b", "area": "people", "totalScore": 12.5, "overallLevel": 1}]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, input.InstanceIDs)
	require.Len(t, input.Summaries, 1)
	assert.Equal(t, 12.5, input.Summaries[0].TotalScore)

	_, err = h.parseInput(`{"instanceIds": "a"}`)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInputParseFailed, stdErr.Code)

	_, err = h.parseInput(`{"summaries": [{"instanceId": "b", "area": "people", "totalScore": 10, "overallLevel": 7}]}`)
	stdErr, ok = apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAssessmentValidationFailed, stdErr.Code)
}

// ==========================
// Handle Tests
// ==========================

func activatedJob(key int64, retries int32, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      TaskType,
		Retries:   retries,
		Variables: variables,
	}}
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	cache := setupCache(t, summary("a", "digital", 80, 3))
	h := NewHandler(&Config{Timeout: time.Second}, cache, logger.NewTestLogger(t))

	client := camundatest.NewJobClient()
	var sent *pb.CompleteJobRequest
	client.Gateway.On("CompleteJob", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(0).(*pb.CompleteJobRequest) }).
		Return(&pb.CompleteJobResponse{}, nil)

	before := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType))
	h.Handle(client, activatedJob(201, 3, `{"instanceIds": ["a", "z"],
		"summaries": [{"instanceId": "b", "area": "people", "totalScore": 40, "overallLevel": 2}]}`))

	require.NotNil(t, sent)
	assert.Equal(t, int64(201), sent.JobKey)

	var out Output
	require.NoError(t, json.Unmarshal([]byte(sent.Variables), &out))
	assert.Equal(t, 2, out.Stats.Overall.TotalInstances)
	assert.Equal(t, 60.0, out.Stats.Overall.AvgScore)
	assert.Equal(t, []string{"z"}, out.MissingInstanceIDs)
	assert.NotEmpty(t, out.ReportID)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType)))
	client.Gateway.AssertNotCalled(t, "FailJob", mock.Anything)
	client.Gateway.AssertNotCalled(t, "ThrowError", mock.Anything)
}

func TestHandler_Handle_CacheUnavailableFailsJob(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectMGet(store.SummaryKey("a")).SetErr(errors.New("connection refused"))
	h := NewHandler(&Config{Timeout: time.Second}, store.NewSummaryCache(rdb, time.Hour), logger.NewNoOpLogger())

	client := camundatest.NewJobClient()
	client.Gateway.On("FailJob", mock.MatchedBy(func(r *pb.FailJobRequest) bool {
		return r.JobKey == 202 && r.Retries == 2 &&
			camundatest.Variables(r.Variables)["errorCode"] == string(apperrors.ErrCodeSummaryCacheFailed)
	})).Return(&pb.FailJobResponse{}, nil)

	h.Handle(client, activatedJob(202, 3, `{"instanceIds": ["a"]}`))

	client.Gateway.AssertExpectations(t)
	client.Gateway.AssertNotCalled(t, "CompleteJob", mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Handle_NoSummariesThrows(t *testing.T) {
	h := NewHandler(&Config{Timeout: time.Second}, setupCache(t), logger.NewNoOpLogger())

	client := camundatest.NewJobClient()
	var sent *pb.ThrowErrorRequest
	client.Gateway.On("ThrowError", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(0).(*pb.ThrowErrorRequest) }).
		Return(&pb.ThrowErrorResponse{}, nil)

	h.Handle(client, activatedJob(203, 3, `{"instanceIds": ["gone"]}`))

	require.NotNil(t, sent)
	assert.Equal(t, string(apperrors.ErrCodeSummaryNotFound), sent.ErrorCode)
	assert.Equal(t, []interface{}{"gone"}, camundatest.Variables(sent.Variables)["instanceIds"])
	client.Gateway.AssertNotCalled(t, "FailJob", mock.Anything)
}

func BenchmarkHandler_Execute(b *testing.B) {
	summaries := make([]models.AssessmentSummary, 0, 500)
	for i := 0; i < 500; i++ {
		summaries = append(summaries, summary(uuid.NewString(), []string{"a", "b", "c"}[i%3], float64(i%100), i%5))
	}
	h := NewHandler(nil, nil, logger.NewNoOpLogger())
	input := &Input{Summaries: summaries}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
