// Package reader loads recorded run journals for the inspect command.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caseforge/caseforge/export"
	"github.com/caseforge/caseforge/iox"
	"github.com/caseforge/caseforge/types"
)

// Run is a fully loaded run journal.
type Run struct {
	Header    export.JournalHeader
	Snapshots []types.Snapshot
	// Truncated is set when the journal ends mid-frame. Snapshots up to
	// the damage are still returned; a crashed writer should not make the
	// whole journal unreadable.
	Truncated bool
}

// Load reads a journal file. Returns an error only when the file cannot be
// opened or its header cannot be decoded.
func Load(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer iox.DiscardClose(f)

	jr := export.NewJournalReader(f)
	header, err := jr.Header()
	if err != nil {
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}

	run := &Run{Header: *header}
	for {
		snap, err := jr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return run, nil
			}
			run.Truncated = true
			return run, nil
		}
		run.Snapshots = append(run.Snapshots, snap)
	}
}

// Final returns the last recorded snapshot.
func (r *Run) Final() (types.Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return types.Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// Summary is the inspect command's display payload.
type Summary struct {
	RunID          string `json:"run_id"`
	URL            string `json:"url"`
	RequestedCases int    `json:"requested_cases"`
	Version        string `json:"version"`

	Snapshots int  `json:"snapshots"`
	Truncated bool `json:"truncated,omitempty"`

	Terminal bool                `json:"terminal"`
	Outcome  types.OutcomeStatus `json:"outcome,omitempty"`

	Elements  int `json:"elements"`
	TestCases int `json:"test_cases"`
	Scripts   int `json:"scripts"`

	Artifacts types.ArtifactPaths `json:"artifacts"`
	LastLog   string              `json:"last_log,omitempty"`
}

// Summary condenses the run for display.
func (r *Run) Summary() Summary {
	s := Summary{
		RunID:          r.Header.RunID,
		URL:            r.Header.URL,
		RequestedCases: r.Header.Requested,
		Version:        r.Header.Version,
		Snapshots:      len(r.Snapshots),
		Truncated:      r.Truncated,
	}
	if final, ok := r.Final(); ok {
		s.Terminal = final.Terminal
		s.Outcome = final.Outcome
		s.Elements = len(final.Elements)
		s.TestCases = len(final.TestCases)
		s.Scripts = len(final.Scripts)
		s.Artifacts = final.Artifacts
		s.LastLog = final.LastLog()
	}
	return s
}

// Transcript returns the full progress log of the run, which is the log of
// the last snapshot (the log is append-only across snapshots).
func (r *Run) Transcript() []string {
	final, ok := r.Final()
	if !ok {
		return nil
	}
	return final.Log
}
