package types

import "testing"

func TestIsErrorRow(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"TC001", false},
		{"", false},
		{CaseIDParseError, true},
		{CaseIDAPIError, true},
		{CaseIDError, true},
		{"parse_error", false}, // reserved IDs are case-sensitive
	}

	for _, tt := range tests {
		c := TestCase{ID: tt.id}
		if got := c.IsErrorRow(); got != tt.want {
			t.Errorf("IsErrorRow(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidCasesFiltersMarkers(t *testing.T) {
	cases := []TestCase{
		{ID: "TC001"},
		{ID: CaseIDAPIError},
		{ID: "TC002"},
		{ID: CaseIDParseError},
	}

	valid := ValidCases(cases)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid cases, got %d", len(valid))
	}
	if valid[0].ID != "TC001" || valid[1].ID != "TC002" {
		t.Errorf("valid cases out of order: %v", valid)
	}
}

func TestMarkerRow(t *testing.T) {
	m := &ErrorMarker{
		Kind:     ErrParse,
		Scenario: "Failed to parse model response",
		Detail:   "not json at all",
	}

	row := m.Row()
	if row.ID != CaseIDParseError {
		t.Errorf("row ID = %q, want %q", row.ID, CaseIDParseError)
	}
	if row.Steps != "not json at all" {
		t.Errorf("row Steps should carry the raw offending text, got %q", row.Steps)
	}
	if !row.IsErrorRow() {
		t.Error("marker row must be recognized as an error row")
	}
}

func TestCaseResultEscalation(t *testing.T) {
	tests := []struct {
		name     string
		result   CaseResult
		failed   bool
		critical bool
	}{
		{
			name:   "genuine cases",
			result: CaseResult{Cases: []TestCase{{ID: "TC001"}}},
		},
		{
			name:     "empty with no marker",
			result:   CaseResult{},
			failed:   true,
			critical: true,
		},
		{
			name:     "parse marker",
			result:   CaseResult{Marker: &ErrorMarker{Kind: ErrParse}},
			failed:   true,
			critical: true,
		},
		{
			name:   "api marker is soft",
			result: CaseResult{Marker: &ErrorMarker{Kind: ErrAPI}},
			failed: true,
		},
		{
			name:   "generic marker is soft",
			result: CaseResult{Marker: &ErrorMarker{Kind: ErrGeneric}},
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Failed(); got != tt.failed {
				t.Errorf("Failed() = %v, want %v", got, tt.failed)
			}
			if got := tt.result.Critical(); got != tt.critical {
				t.Errorf("Critical() = %v, want %v", got, tt.critical)
			}
		})
	}
}

func TestCaseResultRows(t *testing.T) {
	r := CaseResult{Marker: &ErrorMarker{Kind: ErrAPI, Scenario: "Rate limit"}}
	rows := r.Rows()
	if len(rows) != 1 || rows[0].ID != CaseIDAPIError {
		t.Fatalf("marker result should render exactly one marker row, got %v", rows)
	}

	ok := CaseResult{Cases: []TestCase{{ID: "TC001"}, {ID: "TC002"}}}
	if len(ok.Rows()) != 2 {
		t.Fatalf("success result should render its cases")
	}
}
