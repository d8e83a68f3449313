package observability

import (
	"context"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func createMockJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               "score-assessment",
		ProcessInstanceKey: key * 10,
		Retries:            3,
		Variables:          "{}",
	}}
}

func TestInstrument_RecordsSpanAndMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	obs := New("observability-test", reg)
	t.Cleanup(obs.Shutdown)

	recorder := tracetest.NewSpanRecorder()
	obs.tracerProvider.RegisterSpanProcessor(recorder)

	calls := 0
	wrapped := obs.Instrument("score-assessment", func(_ worker.JobClient, job entities.Job) {
		calls++
		assert.Equal(t, int64(42), job.Key)
	})

	wrapped(nil, createMockJob(42))
	wrapped(nil, createMockJob(42))

	assert.Equal(t, 2, calls)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "score-assessment", spans[0].Name())

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		assert.NotContains(t, f.GetName(), ".", "metric names must use underscores")
		byName[f.GetName()] = f
	}

	processed, ok := byName["jobs_processed_total"]
	require.True(t, ok, "missing jobs_processed_total")
	require.Len(t, processed.GetMetric(), 1)
	assert.Equal(t, 2.0, processed.GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, "score-assessment", labelValue(processed.GetMetric()[0], "task_type"))

	duration, ok := byName["jobs_duration_milliseconds"]
	require.True(t, ok, "missing jobs_duration_milliseconds")
	require.Len(t, duration.GetMetric(), 1)
	assert.Equal(t, uint64(2), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestStartSpan_Attributes(t *testing.T) {
	obs := New("observability-test", prom.NewRegistry())
	t.Cleanup(obs.Shutdown)

	recorder := tracetest.NewSpanRecorder()
	obs.tracerProvider.RegisterSpanProcessor(recorder)

	_, span := obs.StartSpan(context.Background(), "aggregate-cohort")
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "aggregate-cohort", recorder.Ended()[0].Name())
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	obs := &Observability{}

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(context.Background(), "x")
		obs.RecordJobDuration(context.Background(), 0, "x")
		_, span := obs.StartSpan(context.Background(), "x")
		span.End()
		obs.Shutdown()
	})
}
