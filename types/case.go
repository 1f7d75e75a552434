package types

// Reserved test case IDs that signal a failed synthesis call. These are the
// wire contract with the case synthesizer boundary; orchestrator internals
// use ErrorMarker instead of string-matching against them; downstream
// code filters marker rows out via ValidCases.
const (
	CaseIDParseError = "PARSE_ERROR"
	CaseIDAPIError   = "API_ERROR"
	CaseIDError      = "ERROR"
)

// TestCase is one synthesized manual test case. JSON tags match the
// generator's wire keys, which are also the exported table column names.
//
// ID uniqueness is not guaranteed by the generator and is not enforced here.
type TestCase struct {
	ID       string `json:"Test Case ID" msgpack:"id"`
	Scenario string `json:"Test Scenario" msgpack:"scenario"`
	// Steps is free text and may contain embedded newlines.
	Steps    string `json:"Steps to Execute" msgpack:"steps"`
	Expected string `json:"Expected Result" msgpack:"expected"`
}

// IsErrorRow reports whether the row carries a reserved error ID.
func (c TestCase) IsErrorRow() bool {
	switch c.ID {
	case CaseIDParseError, CaseIDAPIError, CaseIDError:
		return true
	}
	return false
}

// ValidCases filters out error-marker rows. A table produced by a single
// synthesis call is either all genuine or a lone marker row, but callers
// filter anyway rather than trusting that invariant.
func ValidCases(cases []TestCase) []TestCase {
	valid := make([]TestCase, 0, len(cases))
	for _, c := range cases {
		if !c.IsErrorRow() {
			valid = append(valid, c)
		}
	}
	return valid
}

// ErrorKind classifies a failed synthesis call.
type ErrorKind string

// Error kinds. Values equal the reserved wire IDs so a marker row can be
// built without a separate mapping.
const (
	ErrParse   ErrorKind = CaseIDParseError
	ErrAPI     ErrorKind = CaseIDAPIError
	ErrGeneric ErrorKind = CaseIDError
)

// ErrorMarker is the typed form of a failed case synthesis. It replaces the
// untyped reserved-ID row inside the orchestrator; Row converts back to the
// wire shape for display and export.
type ErrorMarker struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Scenario is a short human-readable description.
	Scenario string
	// Detail carries diagnostic text. For parse failures this is the raw
	// generator output verbatim, so operators can diagnose model drift.
	Detail string
}

// Row renders the marker as a single table row in the wire shape.
func (m *ErrorMarker) Row() TestCase {
	return TestCase{
		ID:       string(m.Kind),
		Scenario: m.Scenario,
		Steps:    m.Detail,
		Expected: "N/A",
	}
}

// CaseResult is the outcome of one case synthesis call: either a table of
// genuine cases or a marker, never a mix.
type CaseResult struct {
	Cases  []TestCase
	Marker *ErrorMarker
}

// Rows returns the display/export table: the marker row when the call
// failed, the genuine cases otherwise.
func (r CaseResult) Rows() []TestCase {
	if r.Marker != nil {
		return []TestCase{r.Marker.Row()}
	}
	return r.Cases
}

// Failed reports whether the synthesis call produced no usable cases.
func (r CaseResult) Failed() bool {
	return r.Marker != nil || len(r.Cases) == 0
}

// Critical reports whether the failure ends the run: an empty table or a
// parse failure. API and generic failures are soft and leave the run to
// proceed (with zero valid rows) per the escalation policy.
func (r CaseResult) Critical() bool {
	if r.Marker != nil {
		return r.Marker.Kind == ErrParse
	}
	return len(r.Cases) == 0
}
