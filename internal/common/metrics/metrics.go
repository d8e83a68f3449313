// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"

	"maturity-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssessmentTotalScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessment_total_score",
			Help:    "Total score of scored assessments",
			Buckets: prometheus.LinearBuckets(0, 12.5, 9),
		},
		[]string{"area"},
	)

	AssessmentMaturityLevel = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_maturity_level_total",
			Help: "Number of assessments classified at each maturity level",
		},
		[]string{"area", "level"},
	)

	AssessmentExpectationGap = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assessment_expectation_gap",
			Help: "Overall level minus expected level of the last scored assessment",
		},
		[]string{"area"},
	)

	CohortInstances = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cohort_instances",
			Help:    "Number of assessments aggregated per cohort report",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// RecordAssessment updates the scoring metrics for one summary.
func RecordAssessment(summary models.AssessmentSummary) {
	AssessmentTotalScore.WithLabelValues(summary.Area).Observe(summary.TotalScore)
	AssessmentMaturityLevel.WithLabelValues(summary.Area, strconv.Itoa(summary.OverallLevel)).Inc()
	AssessmentExpectationGap.WithLabelValues(summary.Area).Set(float64(summary.OverallLevel - summary.ExpectedLevel))
}

func RecordCohort(stats models.CohortStats) {
	CohortInstances.Observe(float64(stats.Overall.TotalInstances))
}
