package analysis

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

// writeToneCSV writes a 100 Hz recording of a pure accelerometer-Y tone
func writeToneCSV(t *testing.T, dir, name string, freq float64, seconds float64) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Timestamp,Ax,Ay,Az\n")
	n := int(seconds * 100)
	for i := 0; i < n; i++ {
		ts := float64(i) / 100
		ay := 9.81 + 2*math.Sin(2*math.Pi*freq*ts)
		sb.WriteString(fmt.Sprintf("%d,0.10,%.6f,0.20\n", i*10, ay))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func newTestOrchestrator(t *testing.T, concurrency int) *Orchestrator {
	t.Helper()
	analyzer, err := tremor.NewAnalyzer(tremor.DefaultConfig())
	require.NoError(t, err)
	return NewOrchestrator(analyzer, concurrency, nil)
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	writeToneCSV(t, dir, "rest.csv", 5, 20)
	writeToneCSV(t, dir, "essential.csv", 9, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0644))

	o := newTestOrchestrator(t, 2)
	summary, err := o.RunDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.LabelCounts[tremor.LabelRest])
	assert.Equal(t, 1, summary.LabelCounts[tremor.LabelEssential])

	// Deterministic order: essential.csv sorts before rest.csv.
	require.Len(t, summary.Results, 2)
	assert.Contains(t, summary.Results[0].Source, "essential.csv")
	assert.Contains(t, summary.Results[1].Source, "rest.csv")
}

func TestRunDirectoryEmpty(t *testing.T) {
	o := newTestOrchestrator(t, 1)
	_, err := o.RunDirectory(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CSV recordings")
}

func TestRunFilesPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeToneCSV(t, dir, "good.csv", 5, 20)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Timestamp,Ax,Ay,Az\nnope\n"), 0644))

	o := newTestOrchestrator(t, 2)
	summary, err := o.RunFiles(context.Background(), []string{good, bad})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Errors, "bad.csv")
	require.Len(t, summary.Results, 1)
}

func TestRunFilesAllFailed(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("garbage\n"), 0644))

	o := newTestOrchestrator(t, 1)
	summary, err := o.RunFiles(context.Background(), []string{bad})
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunFilesCanceledContext(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeToneCSV(t, dir, "a.csv", 5, 20),
		writeToneCSV(t, dir, "b.csv", 5, 20),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(t, 1)
	summary, err := o.RunFiles(ctx, files)
	// Everything either failed with the context error or squeezed through
	// before cancellation; the batch itself never panics.
	if err != nil {
		require.NotNil(t, summary)
	}
	assert.Equal(t, 2, summary.TotalFiles)
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeToneCSV(t, dir, "session.csv", 5, 20)

	o := newTestOrchestrator(t, 1)
	result, err := o.AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, tremor.LabelRest, result.Metrics.Classification.Label)
	assert.Equal(t, path, result.Metrics.Source)
}

func TestAssessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeToneCSV(t, dir, "session.csv", 5, 60)

	o := newTestOrchestrator(t, 1)
	report, err := o.AssessFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, report.EffectiveRate, 0.5)
	assert.NotEmpty(t, report.Strengths)
}
