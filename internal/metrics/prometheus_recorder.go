package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "resume_forge"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	stageDuration   *prom.HistogramVec
	renderDuration  prom.Histogram
	stageResults    *prom.CounterVec
	renderOutcome   *prom.CounterVec
	experienceYears prom.Gauge
	companies       prom.Gauge
	projects        prom.Gauge
}

// NewPrometheusRecorder constructs and registers the render metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual render stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Total render duration",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		renderOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by final status",
		}, []string{"outcome"}),
		experienceYears: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "experience_years",
			Help:      "Experience years of the last rendered document",
		}),
		companies: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "companies",
			Help:      "Employers in the last rendered document",
		}),
		projects: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "projects",
			Help:      "Projects in the last rendered document",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.renderDuration, pr.stageResults, pr.renderOutcome,
		pr.experienceYears, pr.companies, pr.projects)
	return pr
}

// Registry returns the registry the metrics are registered on
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome ResultLabel) {
	if p == nil || p.renderOutcome == nil {
		return
	}
	p.renderOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetDocumentFigures(experienceYears, companies, projects int) {
	if p == nil || p.experienceYears == nil {
		return
	}
	p.experienceYears.Set(float64(experienceYears))
	p.companies.Set(float64(companies))
	p.projects.Set(float64(projects))
}

// WriteTextfile writes all gathered metrics to path in the text exposition format,
// suitable for the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
