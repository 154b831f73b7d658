package observability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// SessionMetrics counts turn outcomes on a private registry. The CLI dumps a
// snapshot via the .stats command; nothing is exposed over HTTP.
type SessionMetrics struct {
	registry *prometheus.Registry

	turnsTotal           prometheus.Counter
	generationFailures   prometheus.Counter
	executionFailures    *prometheus.CounterVec
	summaryFailures      prometheus.Counter
	emptyResults         prometheus.Counter
	mutationsTotal       prometheus.Counter
	queryDurationSeconds prometheus.Histogram
}

func NewSessionMetrics() *SessionMetrics {
	m := &SessionMetrics{
		registry: prometheus.NewRegistry(),
		turnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchat_turns_total",
			Help: "Total number of question turns started.",
		}),
		generationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchat_generation_failures_total",
			Help: "Total number of turns aborted because SQL generation failed.",
		}),
		executionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlchat_execution_failures_total",
			Help: "Total number of turns aborted because query execution failed.",
		}, []string{"class"}),
		summaryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchat_summary_failures_total",
			Help: "Total number of turns whose narrative generation failed.",
		}),
		emptyResults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchat_empty_results_total",
			Help: "Total number of turns that returned zero rows.",
		}),
		mutationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlchat_mutations_total",
			Help: "Total number of turns that executed a non-returning statement.",
		}),
		queryDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sqlchat_query_duration_seconds",
			Help:    "Database query latency per turn.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.turnsTotal,
		m.generationFailures,
		m.executionFailures,
		m.summaryFailures,
		m.emptyResults,
		m.mutationsTotal,
		m.queryDurationSeconds,
	)
	return m
}

func (m *SessionMetrics) TurnStarted() { m.turnsTotal.Inc() }

func (m *SessionMetrics) GenerationFailed() { m.generationFailures.Inc() }

func (m *SessionMetrics) SummaryFailed() { m.summaryFailures.Inc() }

func (m *SessionMetrics) EmptyResult() { m.emptyResults.Inc() }

func (m *SessionMetrics) MutationExecuted() { m.mutationsTotal.Inc() }

func (m *SessionMetrics) ExecutionFailed(class string) {
	m.executionFailures.WithLabelValues(class).Inc()
}

func (m *SessionMetrics) ObserveQueryDuration(d time.Duration) {
	m.queryDurationSeconds.Observe(d.Seconds())
}

// Snapshot gathers the registry and renders one line per sample, sorted by
// metric name, for terminal display.
func (m *SessionMetrics) Snapshot() ([]string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather session metrics: %w", err)
	}

	lines := make([]string, 0, len(families))
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			lines = append(lines, renderSample(family, metric))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func renderSample(family *dto.MetricFamily, metric *dto.Metric) string {
	name := family.GetName()
	if labels := renderLabels(metric); labels != "" {
		name += "{" + labels + "}"
	}
	switch family.GetType() {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%s %.0f", name, metric.GetCounter().GetValue())
	case dto.MetricType_HISTOGRAM:
		histogram := metric.GetHistogram()
		return fmt.Sprintf("%s count=%d sum=%.3fs", name, histogram.GetSampleCount(), histogram.GetSampleSum())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%s %.0f", name, metric.GetGauge().GetValue())
	default:
		return name
	}
}

func renderLabels(metric *dto.Metric) string {
	pairs := make([]string, 0, len(metric.GetLabel()))
	for _, label := range metric.GetLabel() {
		pairs = append(pairs, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
	}
	return strings.Join(pairs, ",")
}
