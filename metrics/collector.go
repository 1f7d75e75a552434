// Package metrics provides per-run metrics collection.
//
// The Collector accumulates counters during a single run. It is a leaf
// package with no internal dependencies. All increment methods are
// nil-receiver safe so callers never need to guard an optional collector.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all collected metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Run lifecycle
	RunsStarted   int64 `json:"runs_started"`
	RunsCompleted int64 `json:"runs_completed"`
	RunsFailed    int64 `json:"runs_failed"`
	RunsFaulted   int64 `json:"runs_faulted"`

	// Stage output
	ElementsExtracted int64 `json:"elements_extracted"`
	CasesGenerated    int64 `json:"cases_generated"`
	CasesValid        int64 `json:"cases_valid"`
	ScriptsGenerated  int64 `json:"scripts_generated"`

	// Synthesis failures keyed by reserved marker ID.
	SynthFailures map[string]int64 `json:"synth_failures,omitempty"`

	// Export
	ExportsSucceeded int64 `json:"exports_succeeded"`
	ExportsFailed    int64 `json:"exports_failed"`

	// Dimensions (informational, set at construction)
	RunID          string `json:"run_id,omitempty"`
	StorageBackend string `json:"storage_backend,omitempty"`
	Model          string `json:"model,omitempty"`
}

// Collector accumulates metrics during a single run.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	runsStarted   int64
	runsCompleted int64
	runsFailed    int64
	runsFaulted   int64

	elementsExtracted int64
	casesGenerated    int64
	casesValid        int64
	scriptsGenerated  int64

	synthFailures map[string]int64

	exportsSucceeded int64
	exportsFailed    int64

	runID          string
	storageBackend string
	model          string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(runID, storageBackend, model string) *Collector {
	return &Collector{
		synthFailures:  make(map[string]int64),
		runID:          runID,
		storageBackend: storageBackend,
		model:          model,
	}
}

// IncRunStarted records a run start.
func (c *Collector) IncRunStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsStarted++
	c.mu.Unlock()
}

// IncRunCompleted records a run that reached completion.
func (c *Collector) IncRunCompleted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsCompleted++
	c.mu.Unlock()
}

// IncRunFailed records a run that ended in a modeled terminal failure
// (input error, extraction failure, critical synthesis failure).
func (c *Collector) IncRunFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsFailed++
	c.mu.Unlock()
}

// IncRunFaulted records a run terminated by an unhandled fault.
func (c *Collector) IncRunFaulted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsFaulted++
	c.mu.Unlock()
}

// SetElementsExtracted records the extracted element count.
func (c *Collector) SetElementsExtracted(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.elementsExtracted = n
	c.mu.Unlock()
}

// SetCasesGenerated records the generated case table size (including a
// marker row, when present) and the valid subset.
func (c *Collector) SetCasesGenerated(total, valid int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.casesGenerated = total
	c.casesValid = valid
	c.mu.Unlock()
}

// IncScriptGenerated records one generated script.
func (c *Collector) IncScriptGenerated() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.scriptsGenerated++
	c.mu.Unlock()
}

// IncSynthFailure records a synthesis failure by marker kind.
func (c *Collector) IncSynthFailure(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.synthFailures[kind]++
	c.mu.Unlock()
}

// IncExportSuccess records a successful artifact persist.
func (c *Collector) IncExportSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.exportsSucceeded++
	c.mu.Unlock()
}

// IncExportFailure records a failed artifact persist.
func (c *Collector) IncExportFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.exportsFailed++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
// Nil-safe: returns a zero Snapshot for a nil collector.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	failures := make(map[string]int64, len(c.synthFailures))
	for k, v := range c.synthFailures {
		failures[k] = v
	}

	return Snapshot{
		RunsStarted:       c.runsStarted,
		RunsCompleted:     c.runsCompleted,
		RunsFailed:        c.runsFailed,
		RunsFaulted:       c.runsFaulted,
		ElementsExtracted: c.elementsExtracted,
		CasesGenerated:    c.casesGenerated,
		CasesValid:        c.casesValid,
		ScriptsGenerated:  c.scriptsGenerated,
		SynthFailures:     failures,
		ExportsSucceeded:  c.exportsSucceeded,
		ExportsFailed:     c.exportsFailed,
		RunID:             c.runID,
		StorageBackend:    c.storageBackend,
		Model:             c.model,
	}
}
