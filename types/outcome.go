package types

// OutcomeStatus represents the final status of a run.
type OutcomeStatus string

const (
	// OutcomeSuccess indicates the run reached completion. A run that
	// completed with zero scripts after a soft synthesis failure still
	// counts as success; the report's counters carry the distinction.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeInputError indicates the URL failed scheme validation.
	// Terminal before any stage runs.
	OutcomeInputError OutcomeStatus = "input_error"
	// OutcomeExtractionFailure indicates the extractor yielded no elements.
	OutcomeExtractionFailure OutcomeStatus = "extraction_failure"
	// OutcomeSynthesisFailure indicates a critical case synthesis failure
	// (empty table or parse error); script synthesis never ran.
	OutcomeSynthesisFailure OutcomeStatus = "synthesis_failure"
	// OutcomeFault indicates an unexpected fault escaped a collaborator and
	// was caught at the top boundary.
	OutcomeFault OutcomeStatus = "fault"
)

// IsFailure reports whether the outcome is any non-success terminal state.
func (s OutcomeStatus) IsFailure() bool {
	return s != OutcomeSuccess && s != ""
}
