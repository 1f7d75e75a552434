package types

// ArtifactPaths holds the storage paths of persisted artifacts. Empty until
// the corresponding persist succeeds; a failed persist leaves the field
// unset without aborting the run.
type ArtifactPaths struct {
	Elements  string `json:"elements,omitempty" msgpack:"elements,omitempty"`
	TestCases string `json:"test_cases,omitempty" msgpack:"test_cases,omitempty"`
	Scripts   string `json:"scripts,omitempty" msgpack:"scripts,omitempty"`
}

// RunState is the central mutable entity of one run. Fields are populated
// monotonically stage by stage; a field is never cleared once set, and the
// log is append-only. The state is owned exclusively by its run and is never
// shared across runs.
type RunState struct {
	Elements  []Element
	TestCases []TestCase
	Scripts   []Script
	Log       []string
	Artifacts ArtifactPaths
}

// AppendLog appends one progress line to the transcript.
func (s *RunState) AppendLog(line string) {
	s.Log = append(s.Log, line)
}

// Snapshot produces an immutable full copy of the state at one
// observability checkpoint. Slice headers are re-copied so later appends
// never alias into an emitted snapshot; element/case/script values are
// immutable once stored, so row contents are shared.
func (s *RunState) Snapshot(seq int64) Snapshot {
	snap := Snapshot{
		Seq:       seq,
		Elements:  make([]Element, len(s.Elements)),
		TestCases: make([]TestCase, len(s.TestCases)),
		Scripts:   make([]Script, len(s.Scripts)),
		Log:       make([]string, len(s.Log)),
		Artifacts: s.Artifacts,
	}
	copy(snap.Elements, s.Elements)
	copy(snap.TestCases, s.TestCases)
	copy(snap.Scripts, s.Scripts)
	copy(snap.Log, s.Log)
	return snap
}

// Snapshot is a complete, immutable view of run state at one checkpoint.
// Each snapshot is sufficient for a consumer to redraw the entire result
// surface; the stream deliberately re-sends full state rather than deltas.
type Snapshot struct {
	// Seq is the monotonic snapshot sequence number, starting at 1.
	Seq int64 `json:"seq" msgpack:"seq"`

	Elements  []Element     `json:"elements" msgpack:"elements"`
	TestCases []TestCase    `json:"test_cases" msgpack:"test_cases"`
	Scripts   []Script      `json:"scripts" msgpack:"scripts"`
	Log       []string      `json:"log" msgpack:"log"`
	Artifacts ArtifactPaths `json:"artifacts" msgpack:"artifacts"`

	// Terminal marks the final snapshot of the stream.
	Terminal bool `json:"terminal" msgpack:"terminal"`
	// Outcome is set on the terminal snapshot only.
	Outcome OutcomeStatus `json:"outcome,omitempty" msgpack:"outcome,omitempty"`
}

// LastLog returns the most recent log line, or "" for an empty transcript.
func (s Snapshot) LastLog() string {
	if len(s.Log) == 0 {
		return ""
	}
	return s.Log[len(s.Log)-1]
}
