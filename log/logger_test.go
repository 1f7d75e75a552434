package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/caseforge/caseforge/types"
)

func TestLogger_RunContext(t *testing.T) {
	var buf bytes.Buffer
	meta := types.RunMeta{RunID: "run-1", URL: "https://example.com", RequestedCases: 3}
	logger := NewLogger(&meta).WithOutput(&buf)

	logger.Info("extraction complete", map[string]any{"elements": 12})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v", err)
	}
	if entry["run_id"] != "run-1" {
		t.Errorf("expected run_id field, got %v", entry["run_id"])
	}
	if entry["url"] != "https://example.com" {
		t.Errorf("expected url field, got %v", entry["url"])
	}
	if entry["message"] != "extraction complete" {
		t.Errorf("expected message, got %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
}

func TestLogger_NilMeta(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(nil).WithOutput(&buf)

	logger.Warn("no run yet", nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v", err)
	}
	if _, ok := entry["run_id"]; ok {
		t.Error("expected no run_id field without run context")
	}
	if entry["level"] != "warn" {
		t.Errorf("expected warn level, got %v", entry["level"])
	}
}

func TestSugaredLogger(t *testing.T) {
	var buf bytes.Buffer
	meta := types.RunMeta{RunID: "run-2", URL: "https://example.com", RequestedCases: 1}
	sugar := NewLogger(&meta).WithOutput(&buf).Sugar().With("stage", "extract")

	sugar.Infof("processed %d of %d", 3, 5)

	out := buf.String()
	if !strings.Contains(out, "processed 3 of 5") {
		t.Errorf("expected formatted message, got %s", out)
	}
	if !strings.Contains(out, `"stage":"extract"`) {
		t.Errorf("expected context field, got %s", out)
	}
}
