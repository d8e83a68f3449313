// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"maturity-workers/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in configuration.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log *zap.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return jobWorker
}

// StopWorkers closes every opened worker and waits for in-flight jobs.
func StopWorkers(workers []worker.JobWorker, timeout time.Duration, log *zap.Logger) {
	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			if w == nil {
				continue
			}
			w.Close()
			w.AwaitClose()
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info("all workers stopped")
	case <-time.After(timeout):
		log.Warn("timed out waiting for workers to stop", zap.Duration("timeout", timeout))
	}
}
