package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageExpand, time.Second)
	r.ObserveRenderDuration(time.Second)
	r.IncStageResult(StageExpand, ResultSuccess)
	r.IncRenderOutcome(ResultFailed)
	r.SetDocumentFigures(1, 2, 3)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageSandbox, 1500*time.Millisecond)
	pr.ObserveRenderDuration(2 * time.Second)
	pr.IncStageResult(StageSandbox, ResultSuccess)
	pr.IncRenderOutcome(ResultSuccess)
	pr.SetDocumentFigures(7, 3, 9)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["resume_forge_stage_duration_seconds"])
	assert.True(t, names["resume_forge_render_outcomes_total"])
	assert.True(t, names["resume_forge_experience_years"])
	assert.Same(t, reg, pr.Registry())
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration(StageLoad, time.Second)
		pr.IncRenderOutcome(ResultFailed)
		pr.SetDocumentFigures(1, 1, 1)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRenderOutcome(ResultFailed)
	pr.SetDocumentFigures(4, 2, 5)

	path := filepath.Join(t.TempDir(), "resume_forge.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `resume_forge_render_outcomes_total{outcome="failed"} 1`), text)
	assert.Contains(t, text, "resume_forge_companies 2")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	err := pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics textfile")
}
