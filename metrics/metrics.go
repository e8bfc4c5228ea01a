package metrics

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mbasic-dev/compat-acceptor/types"
)

const (
	MetricsNamespace = "compat"
)

var (
	Debug bool = true

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	scenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scenarios_total",
		Help:      "Count of scenario runs by verdict",
	}, []string{
		"run_id",
		"subject",
		"verdict",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of compatibility runs",
	}, []string{
		"run_id",
		"result",
	})

	runScenarioCounts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_counts",
		Help:      "Scenario counts of the most recent run by verdict",
	}, []string{
		"run_id",
		"verdict",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of compatibility runs",
	}, []string{
		"run_id",
	})
)

// RecordError increments the error counter for the given label.
func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordScenario counts one scenario verdict.
func RecordScenario(runID, subject string, verdict types.Verdict) {
	if Debug {
		log.Debug("metric inc",
			"m", "scenarios_total",
			"run_id", runID,
			"subject", subject,
			"verdict", verdict,
		)
	}
	scenariosTotal.WithLabelValues(runID, subject, string(verdict)).Inc()
}

// RecordRun publishes the aggregate outcome of a full run.
func RecordRun(runID string, status types.Verdict, stats types.RunStats, duration time.Duration) {
	if Debug {
		log.Debug("metric set",
			"m", "run_results",
			"run_id", runID,
			"status", status,
			"total", stats.Total,
		)
	}
	runResults.WithLabelValues(runID, string(status)).Set(1)
	runScenarioCounts.WithLabelValues(runID, string(types.VerdictPass)).Set(float64(stats.Passed))
	runScenarioCounts.WithLabelValues(runID, string(types.VerdictFail)).Set(float64(stats.Failed))
	runScenarioCounts.WithLabelValues(runID, string(types.VerdictSkip)).Set(float64(stats.Skipped))
	runScenarioCounts.WithLabelValues(runID, string(types.VerdictError)).Set(float64(stats.Errored))
	runScenarioCounts.WithLabelValues(runID, string(types.VerdictTimeout)).Set(float64(stats.TimedOut))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}
