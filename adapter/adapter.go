// Package adapter defines the notification boundary for finished runs.
//
// Adapters publish run completion events to downstream systems (CI
// triggers, dashboards, queues). The CLI owns adapter lifecycle; a run
// publishes at most one event, after its terminal snapshot.
package adapter

import (
	"context"
	"time"

	"github.com/caseforge/caseforge/types"
)

// EventType is the event discriminant carried by every published event.
const EventType = "run_completed"

// ContractVersion identifies the event payload shape.
const ContractVersion = "1"

// RunCompletedEvent is the payload published when a run finishes.
type RunCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "run_completed"

	RunID          string `json:"run_id"`
	URL            string `json:"url"`
	RequestedCases int    `json:"requested_cases"`

	Outcome string `json:"outcome"`

	Elements  int `json:"elements"`
	TestCases int `json:"test_cases"`
	Scripts   int `json:"scripts"`

	Artifacts types.ArtifactPaths `json:"artifacts"`

	Timestamp  string `json:"timestamp"` // ISO 8601
	DurationMs int64  `json:"duration_ms"`
}

// NewRunCompletedEvent builds the event from a run's terminal snapshot.
func NewRunCompletedEvent(meta types.RunMeta, final types.Snapshot, finishedAt time.Time) *RunCompletedEvent {
	return &RunCompletedEvent{
		ContractVersion: ContractVersion,
		EventType:       EventType,
		RunID:           meta.RunID,
		URL:             meta.URL,
		RequestedCases:  meta.RequestedCases,
		Outcome:         string(final.Outcome),
		Elements:        len(final.Elements),
		TestCases:       len(final.TestCases),
		Scripts:         len(final.Scripts),
		Artifacts:       final.Artifacts,
		Timestamp:       finishedAt.UTC().Format(time.RFC3339),
		DurationMs:      finishedAt.Sub(meta.StartedAt).Milliseconds(),
	}
}

// Adapter publishes run completion events to a downstream system.
// Implementations must be safe for single-use per run.
type Adapter interface {
	// Publish sends a run completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *RunCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
