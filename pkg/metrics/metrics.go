// Package metrics records pipeline outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/pipeline"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "hlvl"

const unknownLabel = "unknown"

// Recorder is a pipeline.Observer backed by its own Prometheus registry.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

var _ pipeline.Observer = (*Recorder)(nil)

// New registers the pipeline collectors under namespace (DefaultNamespace
// when empty) in a fresh registry.
func New(namespace string) *Recorder {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Transformation runs by model type, outcome and failing stage.",
			},
			[]string{"model_type", "outcome", "stage"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
	r.registry.MustRegister(r.runs, r.stageDuration)
	return r
}

// Registry exposes the registry for scraping or textfile export.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) StageFinished(_ context.Context, event pipeline.StageEvent) {
	r.stageDuration.WithLabelValues(event.Stage.String()).Observe(event.Duration.Seconds())
}

func (r *Recorder) RunFinished(_ context.Context, event pipeline.RunEvent) {
	stage := string(event.FailedStage)
	if stage == "" {
		stage = "none"
	}
	r.runs.WithLabelValues(modelTypeLabel(event.ModelType), event.Outcome.String(), stage).Inc()
}

// modelTypeLabel keeps label cardinality bounded when requests name
// unsupported model types.
func modelTypeLabel(modelType model.ModelType) string {
	parsed, err := model.ParseModelType(string(modelType))
	if err != nil {
		return unknownLabel
	}
	return string(parsed)
}
