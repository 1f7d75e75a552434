package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/caseforge/caseforge/types"
)

// Column headers for the CSV artifact tables.
var (
	caseHeader   = []string{"Test Case ID", "Test Scenario", "Steps to Execute", "Expected Result"}
	scriptHeader = []string{"Test Case ID", "Python Selenium Code"}
)

// encodeElements renders the element payload as indented JSON. An empty
// slice encodes as "[]", never "null".
func encodeElements(elements []types.Element) ([]byte, error) {
	if elements == nil {
		elements = []types.Element{}
	}
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return append(data, '\n'), nil
}

// encodeTestCases renders the case table as CSV. Multi-line step text is
// CSV-quoted by the encoder, so embedded newlines round-trip.
func encodeTestCases(rows []types.TestCase) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(caseHeader); err != nil {
		return nil, fmt.Errorf("encode test cases: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.ID, row.Scenario, row.Steps, row.Expected}); err != nil {
			return nil, fmt.Errorf("encode test cases: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode test cases: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeScripts(scripts []types.Script) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(scriptHeader); err != nil {
		return nil, fmt.Errorf("encode scripts: %w", err)
	}
	for _, s := range scripts {
		if err := w.Write([]string{s.CaseID, s.Code}); err != nil {
			return nil, fmt.Errorf("encode scripts: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode scripts: %w", err)
	}
	return buf.Bytes(), nil
}
