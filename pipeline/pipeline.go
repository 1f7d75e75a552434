// Package pipeline implements the run orchestrator: extraction, case
// synthesis, and script synthesis executed strictly in sequence, observed
// through a lazy stream of full-state snapshots.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/caseforge/caseforge/export"
	"github.com/caseforge/caseforge/log"
	"github.com/caseforge/caseforge/metrics"
	"github.com/caseforge/caseforge/types"
)

// Extractor yields the page's interactive elements. An empty sequence
// signals failure; implementations must not panic and convert internal
// faults to an empty result with their own logging.
type Extractor interface {
	Extract(ctx context.Context, url string) []types.Element
}

// CaseSynthesizer produces a test case table from an element payload.
// Failures are expressed in the result, never as an error.
type CaseSynthesizer interface {
	SynthesizeCases(ctx context.Context, elementsJSON, url string, count int) types.CaseResult
}

// ScriptSynthesizer produces one automation script per test case. Always
// returns text; failures are encoded inline and treated as opaque here.
type ScriptSynthesizer interface {
	SynthesizeScript(ctx context.Context, tc types.TestCase, elementsJSON, url string) string
}

// Orchestrator drives one run. Construct with NewOrchestrator; a single
// orchestrator owns a single run and is not reusable.
type Orchestrator struct {
	meta      types.RunMeta
	extractor Extractor
	cases     CaseSynthesizer
	scripts   ScriptSynthesizer
	store     export.Store
	logger    *log.Logger
	collector *metrics.Collector
}

// NewOrchestrator validates collaborators and builds a run orchestrator.
// The collector may be nil (metrics become no-ops); everything else is
// required.
func NewOrchestrator(
	meta types.RunMeta,
	extractor Extractor,
	cases CaseSynthesizer,
	scripts ScriptSynthesizer,
	store export.Store,
	logger *log.Logger,
	collector *metrics.Collector,
) (*Orchestrator, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run meta: %w", err)
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if cases == nil {
		return nil, errors.New("case synthesizer is required")
	}
	if scripts == nil {
		return nil, errors.New("script synthesizer is required")
	}
	if store == nil {
		return nil, errors.New("artifact store is required")
	}
	if logger == nil {
		logger = log.NewLogger(&meta)
	}
	return &Orchestrator{
		meta:      meta,
		extractor: extractor,
		cases:     cases,
		scripts:   scripts,
		store:     store,
		logger:    logger,
		collector: collector,
	}, nil
}

// Run executes the pipeline and returns its snapshot stream. The channel is
// unbuffered: the producer blocks until the consumer takes each snapshot,
// so the consumer controls pacing. The stream is finite and always ends
// with a terminal snapshot carrying the run outcome; the channel is closed
// after it. There is no cancellation mid-run: the ctx is handed to
// collaborators, but the orchestrator itself always drives the run to a
// terminal snapshot.
func (o *Orchestrator) Run(ctx context.Context) <-chan types.Snapshot {
	snapshots := make(chan types.Snapshot)
	go func() {
		defer close(snapshots)

		r := &run{
			Orchestrator: o,
			state:        &types.RunState{},
			out:          snapshots,
		}

		defer func() {
			if rec := recover(); rec != nil {
				o.logger.Error("unhandled fault", map[string]any{
					"panic": fmt.Sprint(rec),
					"stack": string(debug.Stack()),
				})
				o.collector.IncRunFaulted()
				r.state.AppendLog(fmt.Sprintf("CRITICAL ERROR: An unexpected error occurred: %v", rec))
				r.emitTerminal(types.OutcomeFault)
			}
		}()

		r.execute(ctx)
	}()
	return snapshots
}

// run is the per-invocation mutable context of one Run call.
type run struct {
	*Orchestrator
	state *types.RunState
	seq   int64
	out   chan<- types.Snapshot
}

func (r *run) emit() {
	r.seq++
	r.out <- r.state.Snapshot(r.seq)
}

func (r *run) emitTerminal(outcome types.OutcomeStatus) {
	r.seq++
	snap := r.state.Snapshot(r.seq)
	snap.Terminal = true
	snap.Outcome = outcome
	r.out <- snap
}

// logf appends a formatted line to the run transcript. Transcript lines are
// the user-facing progress surface; operator logging goes through r.logger
// separately.
func (r *run) logf(format string, args ...any) {
	r.state.AppendLog(fmt.Sprintf(format, args...))
}

func (r *run) execute(ctx context.Context) {
	r.collector.IncRunStarted()

	if !r.meta.ValidURL() {
		r.logger.Warn("rejected target url", map[string]any{"reason": "scheme"})
		r.collector.IncRunFailed()
		r.logf("Error: Please enter a valid URL starting with http:// or https://")
		r.emitTerminal(types.OutcomeInputError)
		return
	}

	r.logf("Processing started...")
	r.emit()

	elementsJSON, ok := r.stageExtract(ctx)
	if !ok {
		return
	}

	failed, ok := r.stageCases(ctx, elementsJSON)
	if !ok {
		return
	}

	r.stageScripts(ctx, elementsJSON, failed)

	r.logger.Info("run completed", map[string]any{
		"elements": len(r.state.Elements),
		"cases":    len(r.state.TestCases),
		"scripts":  len(r.state.Scripts),
	})
	r.collector.IncRunCompleted()
	r.logf("Processing finished successfully!")
	r.emitTerminal(types.OutcomeSuccess)
}

// stageExtract runs extraction and returns the prompt payload. A false
// return means the run already terminated.
func (r *run) stageExtract(ctx context.Context) (string, bool) {
	r.logf("[1/3] Scraping UI elements from %s...", r.meta.URL)
	r.emit()

	elements := r.extractor.Extract(ctx, r.meta.URL)
	if len(elements) == 0 {
		r.logger.Error("extraction yielded no elements", nil)
		r.collector.IncRunFailed()
		r.logf("Error: Failed to extract elements. Check URL or website structure.")
		r.emitTerminal(types.OutcomeExtractionFailure)
		return "", false
	}

	r.state.Elements = elements
	r.collector.SetElementsExtracted(int64(len(elements)))

	if path, err := r.store.SaveElements(ctx, r.meta, elements); err != nil {
		r.logger.Warn("persist elements failed", map[string]any{"error": err.Error()})
		r.collector.IncExportFailure()
		r.logf("Extracted %d elements. Persist failed: %v", len(elements), err)
	} else {
		r.state.Artifacts.Elements = path
		r.collector.IncExportSuccess()
		r.logf("Extracted %d elements. Saved to %s", len(elements), path)
	}
	r.emit()

	view, truncated := types.Truncate(elements)
	if truncated {
		r.logf("Note: Using first %d elements for analysis due to size.", types.PromptCap)
		r.emit()
	}

	payload, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		// Element values are plain data; this does not happen in practice.
		r.logger.Error("encode element payload failed", map[string]any{"error": err.Error()})
		return "[]", true
	}
	return string(payload), true
}

// stageCases runs case synthesis. Returns (softFailed, continue); a false
// second return means the run terminated on a critical failure.
func (r *run) stageCases(ctx context.Context, elementsJSON string) (bool, bool) {
	r.logf("[2/3] Generating %d test cases...", r.meta.RequestedCases)
	r.emit()

	result := r.cases.SynthesizeCases(ctx, elementsJSON, r.meta.URL, r.meta.RequestedCases)
	if result.Marker != nil {
		r.collector.IncSynthFailure(string(result.Marker.Kind))
	}

	if result.Failed() {
		r.logf("Warning: Failed to generate valid test cases or encountered an error. See table for details.")
		rows := result.Rows()
		if len(rows) > 0 {
			r.state.TestCases = rows
			if path, err := r.store.SaveTestCases(ctx, r.meta, rows, true); err != nil {
				r.logger.Warn("persist test cases failed", map[string]any{"error": err.Error()})
				r.collector.IncExportFailure()
			} else {
				r.state.Artifacts.TestCases = path
				r.collector.IncExportSuccess()
			}
		}
		r.emit()

		if result.Critical() {
			r.logger.Error("critical case synthesis failure", nil)
			r.collector.IncRunFailed()
			r.logf("Stopping process due to critical test case generation failure.")
			r.emitTerminal(types.OutcomeSynthesisFailure)
			return true, false
		}
		return true, true
	}

	r.state.TestCases = result.Cases
	r.collector.SetCasesGenerated(int64(len(result.Cases)), int64(len(types.ValidCases(result.Cases))))
	if path, err := r.store.SaveTestCases(ctx, r.meta, result.Cases, false); err != nil {
		r.logger.Warn("persist test cases failed", map[string]any{"error": err.Error()})
		r.collector.IncExportFailure()
		r.logf("Generated %d test cases. Persist failed: %v", len(result.Cases), err)
	} else {
		r.state.Artifacts.TestCases = path
		r.collector.IncExportSuccess()
		r.logf("Generated %d test cases. Saved to %s", len(result.Cases), path)
	}
	r.emit()
	return false, true
}

func (r *run) stageScripts(ctx context.Context, elementsJSON string, casesFailed bool) {
	r.logf("[3/3] Generating automation scripts...")
	r.emit()

	valid := types.ValidCases(r.state.TestCases)
	if len(valid) == 0 {
		if casesFailed {
			r.logf("Skipping script generation due to previous errors in test case generation.")
		} else {
			r.logf("No valid test cases found to generate scripts for.")
		}
		r.emit()
		return
	}

	r.logf("Mapping %d test cases to scripts...", len(valid))
	r.emit()

	// Scripts accumulate off-state and land in one batch update, so the
	// stream shows per-case progress lines without a snapshot storm of
	// partially filled script tables.
	scripts := make([]types.Script, 0, len(valid))
	for _, tc := range valid {
		r.logf("Generating script for: %s...", tc.ID)
		r.emit()

		code := r.scripts.SynthesizeScript(ctx, tc, elementsJSON, r.meta.URL)
		scripts = append(scripts, types.Script{CaseID: tc.ID, Code: code})
		r.collector.IncScriptGenerated()
	}

	r.state.Scripts = scripts
	if path, err := r.store.SaveScripts(ctx, r.meta, scripts); err != nil {
		r.logger.Warn("persist scripts failed", map[string]any{"error": err.Error()})
		r.collector.IncExportFailure()
		r.logf("Generated %d scripts. Persist failed: %v", len(scripts), err)
	} else {
		r.state.Artifacts.Scripts = path
		r.collector.IncExportSuccess()
		r.logf("Generated %d scripts. Saved to %s", len(scripts), path)
	}
	r.emit()
}
