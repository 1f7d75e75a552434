package synth

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/caseforge/caseforge/log"
	"github.com/caseforge/caseforge/types"
)

// fakeModel returns canned responses in order, or a fixed error.
type fakeModel struct {
	responses []string
	err       error
	calls     int
	lastUser  string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	for _, msg := range messages {
		if msg.Role == llms.ChatMessageTypeHuman {
			for _, part := range msg.Parts {
				if text, ok := part.(llms.TextContent); ok {
					m.lastUser = text.Text
				}
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &llms.ContentResponse{}, nil
	}
	text := m.responses[0]
	m.responses = m.responses[1:]
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func testClient(t *testing.T, model llms.Model) *Client {
	t.Helper()
	logger := log.NewLogger(nil).WithOutput(io.Discard)
	return NewWithModel(model, Config{Model: "test-model", APIKey: "x"}, logger)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare code", "print('hi')", "print('hi')"},
		{"python fence", "```python\nprint('hi')\n```", "print('hi')"},
		{"plain fence", "```\nprint('hi')\n```", "print('hi')"},
		{"fence with trailing newline", "```python\nprint('hi')\n```\n", "print('hi')"},
		{"no trailing fence", "```python\nprint('hi')", "print('hi')"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSynthesizeScript(t *testing.T) {
	model := &fakeModel{responses: []string{"```python\nfrom selenium import webdriver\n```"}}
	client := testClient(t, model)

	tc := types.TestCase{ID: "TC001", Scenario: "Open home page", Steps: "1. Go home.", Expected: "Home loads"}
	code := client.SynthesizeScript(context.Background(), tc, "[]", "https://example.com")

	if code != "from selenium import webdriver" {
		t.Errorf("script = %q", code)
	}
	if !strings.Contains(model.lastUser, "TC001") {
		t.Error("prompt should embed the case ID")
	}
	if !strings.Contains(model.lastUser, "https://example.com") {
		t.Error("prompt should embed the target URL")
	}
}

func TestSynthesizeScript_TransportError(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	client := testClient(t, model)

	tc := types.TestCase{ID: "TC001", Scenario: "x", Steps: "y", Expected: "z"}
	code := client.SynthesizeScript(context.Background(), tc, "[]", "https://example.com")

	if !strings.HasPrefix(code, types.ScriptErrorPrefix) {
		t.Fatalf("error placeholder must start with %q, got %q", types.ScriptErrorPrefix, code)
	}
	if !strings.Contains(code, "connection refused") {
		t.Errorf("placeholder should carry the error detail, got %q", code)
	}
	script := types.Script{CaseID: tc.ID, Code: code}
	if !script.IsError() {
		t.Error("placeholder should classify as an error script")
	}
}
