// Package analysis coordinates pipeline runs over whole directories of
// recordings and aggregates the per-file verdicts.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tremorlab/tremor-analyzer/pkg/logging"
	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

// Orchestrator runs the tremor pipeline across a batch of CSV recordings
type Orchestrator struct {
	analyzer       *tremor.Analyzer
	quality        sensor.QualityConfig
	maxConcurrency int
	logger         logging.Logger
}

// Summary aggregates one batch run
type Summary struct {
	Results       []*tremor.Metrics `json:"results"`
	Errors        map[string]string `json:"errors,omitempty"`
	LabelCounts   map[string]int    `json:"label_counts"`
	TotalFiles    int               `json:"total_files"`
	Succeeded     int               `json:"succeeded"`
	Failed        int               `json:"failed"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalDuration time.Duration     `json:"total_duration"`
}

// NewOrchestrator creates a batch orchestrator. maxConcurrency bounds the
// number of files analyzed in parallel; values below 1 mean sequential.
func NewOrchestrator(analyzer *tremor.Analyzer, maxConcurrency int, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Orchestrator{
		analyzer:       analyzer,
		quality:        sensor.DefaultQualityConfig(),
		maxConcurrency: maxConcurrency,
		logger:         logger.WithFields(logging.Fields{"component": "orchestrator"}),
	}
}

// RunDirectory analyzes every CSV file directly under dir
func (o *Orchestrator) RunDirectory(ctx context.Context, dir string) (*Summary, error) {
	files, err := listRecordings(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV recordings found in %s", dir)
	}
	return o.RunFiles(ctx, files)
}

// RunFiles analyzes the given recordings, bounded by the configured
// concurrency. A failed file is reported in the summary and does not
// abort the batch.
func (o *Orchestrator) RunFiles(ctx context.Context, files []string) (*Summary, error) {
	startTime := time.Now()

	o.logger.Info("Starting batch analysis", logging.Fields{
		"file_count":      len(files),
		"max_concurrency": o.maxConcurrency,
	})

	type outcome struct {
		file    string
		metrics *tremor.Metrics
		err     error
	}

	outcomes := make([]outcome, len(files))
	sem := make(chan struct{}, o.maxConcurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[idx] = outcome{file: path, err: ctx.Err()}
				return
			}

			metrics, err := o.analyzeFile(path)
			outcomes[idx] = outcome{file: path, metrics: metrics, err: err}
		}(i, file)
	}

	wg.Wait()

	summary := &Summary{
		Errors:      make(map[string]string),
		LabelCounts: make(map[string]int),
		TotalFiles:  len(files),
		StartTime:   startTime,
	}

	for _, out := range outcomes {
		if out.err != nil {
			summary.Failed++
			summary.Errors[filepath.Base(out.file)] = out.err.Error()
			o.logger.Warn("Recording analysis failed", logging.Fields{
				"file":  out.file,
				"error": out.err.Error(),
			})
			continue
		}
		summary.Succeeded++
		summary.Results = append(summary.Results, out.metrics)
		summary.LabelCounts[out.metrics.Classification.Label]++
	}

	summary.EndTime = time.Now()
	summary.TotalDuration = summary.EndTime.Sub(summary.StartTime)

	o.logger.Info("Batch analysis completed", logging.Fields{
		"total_files": summary.TotalFiles,
		"succeeded":   summary.Succeeded,
		"failed":      summary.Failed,
		"duration_s":  summary.TotalDuration.Seconds(),
	})

	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("all %d recordings failed analysis", summary.TotalFiles)
	}
	return summary, nil
}

// AnalyzeFile loads one recording and runs the full pipeline on it
func (o *Orchestrator) AnalyzeFile(path string) (*tremor.Result, error) {
	rec, err := sensor.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return o.analyzer.Analyze(rec)
}

func (o *Orchestrator) analyzeFile(path string) (*tremor.Metrics, error) {
	result, err := o.AnalyzeFile(path)
	if err != nil {
		return nil, err
	}
	return result.Metrics, nil
}

// AssessFile loads one recording and reports its signal quality without
// running the classifier.
func (o *Orchestrator) AssessFile(path string) (*sensor.QualityReport, error) {
	rec, err := sensor.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return sensor.AssessQuality(rec, o.quality)
}

// listRecordings returns the CSV files directly under dir, sorted for
// deterministic batch order.
func listRecordings(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
