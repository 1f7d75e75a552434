package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caseforge/caseforge/metrics"
	"github.com/caseforge/caseforge/types"
)

// RunReport is the machine-readable summary of a finished run, written as
// JSON when the CLI is invoked with --report.
type RunReport struct {
	RunID          string    `json:"run_id"`
	URL            string    `json:"url"`
	RequestedCases int       `json:"requested_cases"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	DurationMS     int64     `json:"duration_ms"`

	Outcome types.OutcomeStatus `json:"outcome"`

	Elements  int `json:"elements"`
	TestCases int `json:"test_cases"`
	Scripts   int `json:"scripts"`

	Artifacts types.ArtifactPaths `json:"artifacts"`
	Metrics   *metrics.Snapshot   `json:"metrics,omitempty"`

	// Log is the full run transcript in order.
	Log []string `json:"log"`
}

// BuildRunReport assembles a report from the terminal snapshot of a run.
// The metrics snapshot may be nil when no collector was attached.
func BuildRunReport(meta types.RunMeta, final types.Snapshot, m *metrics.Snapshot, finishedAt time.Time) RunReport {
	return RunReport{
		RunID:          meta.RunID,
		URL:            meta.URL,
		RequestedCases: meta.RequestedCases,
		StartedAt:      meta.StartedAt,
		FinishedAt:     finishedAt,
		DurationMS:     finishedAt.Sub(meta.StartedAt).Milliseconds(),
		Outcome:        final.Outcome,
		Elements:       len(final.Elements),
		TestCases:      len(final.TestCases),
		Scripts:        len(final.Scripts),
		Artifacts:      final.Artifacts,
		Metrics:        m,
		Log:            final.Log,
	}
}

// WriteReport writes the report as indented JSON.
func (r RunReport) WriteReport(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}
