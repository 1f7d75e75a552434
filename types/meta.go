package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunMeta is the identity of a single pipeline run.
type RunMeta struct {
	// RunID is the canonical run identifier. Must be non-empty.
	RunID string `json:"run_id" msgpack:"run_id"`
	// URL is the target page.
	URL string `json:"url" msgpack:"url"`
	// RequestedCases is the desired test case count. The generator may
	// under- or over-shoot; the orchestrator does not enforce an exact count.
	RequestedCases int `json:"requested_cases" msgpack:"requested_cases"`
	// StartedAt is the run start time.
	StartedAt time.Time `json:"started_at" msgpack:"started_at"`
}

// Validate checks construction-time identity rules. URL scheme validation is
// deliberately not here: an invalid scheme is a run-visible input error with
// its own log line and snapshot, not a constructor failure.
func (m *RunMeta) Validate() error {
	if m.RunID == "" {
		return errors.New("run_id must be non-empty")
	}
	if m.RequestedCases < 1 {
		return fmt.Errorf("requested_cases must be >= 1, got %d", m.RequestedCases)
	}
	return nil
}

// ValidURL reports whether the target URL passes the scheme prefix rule.
func (m *RunMeta) ValidURL() bool {
	return strings.HasPrefix(m.URL, "http://") || strings.HasPrefix(m.URL, "https://")
}
