package synth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caseforge/caseforge/types"
)

// Wire keys the generator must emit for every test case record.
const (
	keyID       = "Test Case ID"
	keyScenario = "Test Scenario"
	keySteps    = "Steps to Execute"
	keyExpected = "Expected Result"
)

// ParseCases strictly parses raw generator output into a case table.
//
// Acceptance requires a JSON list of objects, non-empty, whose first record
// carries all four wire keys. Later records may miss keys; those fields are
// filled with "N/A". Any other shape yields a PARSE_ERROR marker whose
// detail carries the raw text verbatim, so operators can diagnose prompt or
// model drift. Lenient recovery (extracting a table from surrounding prose)
// is deliberately not attempted.
func ParseCases(raw string) types.CaseResult {
	parseFailure := func() types.CaseResult {
		return types.CaseResult{Marker: &types.ErrorMarker{
			Kind:     types.ErrParse,
			Scenario: "Failed to parse model response",
			Detail:   raw,
		}}
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &records); err != nil {
		return parseFailure()
	}
	if len(records) == 0 {
		return parseFailure()
	}

	for _, key := range []string{keyID, keyScenario, keySteps, keyExpected} {
		if _, ok := records[0][key]; !ok {
			return parseFailure()
		}
	}

	cases := make([]types.TestCase, 0, len(records))
	for _, rec := range records {
		cases = append(cases, types.TestCase{
			ID:       fieldString(rec, keyID),
			Scenario: fieldString(rec, keyScenario),
			Steps:    fieldString(rec, keySteps),
			Expected: fieldString(rec, keyExpected),
		})
	}

	return types.CaseResult{Cases: cases}
}

// fieldString extracts a record field as a string, tolerating non-string
// JSON values and filling absent keys with "N/A".
func fieldString(rec map[string]any, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return "N/A"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
