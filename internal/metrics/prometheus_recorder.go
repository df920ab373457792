package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	documentDuration prom.Histogram
	documentResults  *prom.CounterVec
	directives       *prom.CounterVec
	warnings         *prom.CounterVec
	corpusSize       prom.Gauge
	categoryCount    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "postforge",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.documentDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "postforge",
			Name:      "document_duration_seconds",
			Help:      "Total per-document pipeline duration",
			Buckets:   prom.DefBuckets,
		})
		pr.documentResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postforge",
			Name:      "document_results_total",
			Help:      "Per-document outcomes",
		}, []string{"result"})
		pr.directives = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postforge",
			Name:      "directives_expanded_total",
			Help:      "Expanded directive spans by directive name",
		}, []string{"directive"})
		pr.warnings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postforge",
			Name:      "warnings_total",
			Help:      "Recovered warnings by kind",
		}, []string{"kind"})
		pr.corpusSize = prom.NewGauge(prom.GaugeOpts{
			Namespace: "postforge",
			Name:      "corpus_documents",
			Help:      "Documents currently held by the corpus index",
		})
		pr.categoryCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "postforge",
			Name:      "corpus_categories",
			Help:      "Non-empty category buckets in the corpus index",
		})
		reg.MustRegister(pr.stageDuration, pr.documentDuration, pr.documentResults,
			pr.directives, pr.warnings, pr.corpusSize, pr.categoryCount)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil || p.documentDuration == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentResult(result ResultLabel) {
	if p == nil || p.documentResults == nil {
		return
	}
	p.documentResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncDirectiveExpanded(name string) {
	if p == nil || p.directives == nil {
		return
	}
	p.directives.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) IncWarning(kind string) {
	if p == nil || p.warnings == nil {
		return
	}
	p.warnings.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SetCorpusSize(n int) {
	if p == nil || p.corpusSize == nil {
		return
	}
	p.corpusSize.Set(float64(n))
}

func (p *PrometheusRecorder) SetCategoryCount(n int) {
	if p == nil || p.categoryCount == nil {
		return
	}
	p.categoryCount.Set(float64(n))
}
