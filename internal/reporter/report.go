// Package reporter builds the JSON run report and ships it, with any page
// dumps collected on failure, to S3.
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/percenty/edit-agent/internal/editor"
	"github.com/percenty/edit-agent/internal/flow"
)

// Report represents a complete pipeline run report
type Report struct {
	// RunID is a unique identifier for this run
	RunID string `json:"run_id"`
	// Pipeline names the flow that ran
	Pipeline string `json:"pipeline"`
	// LoginID is the account the run operated under
	LoginID string `json:"login_id"`
	// Timestamp is when the run started
	Timestamp time.Time `json:"timestamp"`
	// Duration is how long the run took
	Duration time.Duration `json:"duration_ms"`
	// Succeeded counts fully routed products
	Succeeded int `json:"succeeded"`
	// Failed counts products that errored or were swept to discard
	Failed int `json:"failed"`
	// TerminationReason is why the run stopped
	TerminationReason string `json:"termination_reason"`
	// Products lists per-product results in processing order
	Products []ProductResult `json:"products"`
	// PageDumps are local paths of page-source dumps taken on failures
	PageDumps []string `json:"page_dumps,omitempty"`
	// Metadata contains additional information
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProductResult summarizes one product of the run
type ProductResult struct {
	Title         string    `json:"title"`
	Destination   string    `json:"destination,omitempty"`
	Deleted       bool      `json:"deleted,omitempty"`
	NameConflicts int       `json:"name_conflicts,omitempty"`
	ImageCount    int       `json:"image_count"`
	OptionCount   int       `json:"option_count"`
	ErrorCategory string    `json:"error_category,omitempty"`
	Error         string    `json:"error,omitempty"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// Builder accumulates per-product results during a run. It satisfies the
// batch driver's recorder interface.
type Builder struct {
	runID     string
	pipeline  string
	loginID   string
	startTime time.Time
	products  []ProductResult
	pageDumps []string
	metadata  map[string]string
}

// NewBuilder creates a builder for one run
func NewBuilder(loginID string) *Builder {
	return &Builder{
		runID:     uuid.New().String(),
		loginID:   loginID,
		startTime: time.Now(),
		metadata:  make(map[string]string),
	}
}

// RunID returns the run's identifier
func (b *Builder) RunID() string {
	return b.runID
}

// RecordProduct appends one product outcome
func (b *Builder) RecordProduct(pipeline string, out editor.Outcome, err error) {
	b.pipeline = pipeline
	result := ProductResult{
		Title:         out.Title,
		Destination:   out.Destination,
		Deleted:       out.Deleted,
		NameConflicts: out.NameConflicts,
		ImageCount:    out.Session.DetailImageCount,
		OptionCount:   out.Session.OptionCount,
		ProcessedAt:   time.Now(),
	}
	if err != nil {
		result.ErrorCategory = string(flow.CategoryOf(err))
		result.Error = err.Error()
	}
	b.products = append(b.products, result)
}

// AddPageDump registers a page-source dump taken during the run
func (b *Builder) AddPageDump(path string) {
	b.pageDumps = append(b.pageDumps, path)
}

// AddMetadata adds a metadata key-value pair
func (b *Builder) AddMetadata(key, value string) {
	b.metadata[key] = value
}

// Build constructs the final report
func (b *Builder) Build(succeeded, failed int, terminationReason string) *Report {
	return &Report{
		RunID:             b.runID,
		Pipeline:          b.pipeline,
		LoginID:           b.loginID,
		Timestamp:         b.startTime,
		Duration:          time.Since(b.startTime),
		Succeeded:         succeeded,
		Failed:            failed,
		TerminationReason: terminationReason,
		Products:          b.products,
		PageDumps:         b.pageDumps,
		Metadata:          b.metadata,
	}
}

// SaveToFile saves the report to a JSON file
func (r *Report) SaveToFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	return nil
}

// SaveToTemp saves the report to a temporary file
func (r *Report) SaveToTemp() (string, error) {
	filename := fmt.Sprintf("edit_report_%s_%s.json",
		time.Now().Format("20060102_150405"),
		r.RunID[:8],
	)

	tempDir := os.TempDir()
	path := filepath.Join(tempDir, filename)

	if err := r.SaveToFile(path); err != nil {
		return "", err
	}

	return path, nil
}
