package observability

import (
	"context"
	"time"

	"maturity-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

// Instrument wraps a job handler with a span, the OpenTelemetry
// jobs.processed and jobs.duration instruments and the Prometheus
// worker_jobs_active gauge. Job duration is recorded only through
// OpenTelemetry.
func (o *Observability) Instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		_, span := o.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
			attribute.Int("job.retries", int(job.Retries)),
		)
		defer span.End()

		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		elapsed := time.Since(start)

		ctx := context.Background()
		o.RecordJobProcessed(ctx, taskType)
		o.RecordJobDuration(ctx, elapsed, taskType)
	}
}
