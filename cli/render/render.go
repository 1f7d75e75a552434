// Package render provides centralized output rendering for the caseforge CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format flag always overrides defaults
//   - Invalid formats are errors
//
// Color handling:
//   - --no-color affects table output only
//   - TUI mode is unaffected by --no-color (uses its own styling)
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/caseforge/caseforge/cli/reader"
	"github.com/caseforge/caseforge/iox"
	"github.com/caseforge/caseforge/types"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context, applying the TTY-based
// format default.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     os.Stdout,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		defer iox.DiscardClose(enc)
		return enc.Encode(data)
	case FormatTable:
		return r.renderTable(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

func (r *Renderer) header(s string) string {
	if r.noColor {
		return s
	}
	return headerStyle.Render(s)
}

// renderTable renders the domain payloads the CLI actually emits. Unknown
// payloads fall back to key-value rows via their JSON shape.
func (r *Renderer) renderTable(data any) error {
	switch v := data.(type) {
	case []types.TestCase:
		return r.renderCases(v)
	case []types.Script:
		return r.renderScripts(v)
	case reader.Summary:
		return r.renderSummary(v)
	default:
		return r.renderKV(data)
	}
}

func (r *Renderer) renderCases(cases []types.TestCase) error {
	if len(cases) == 0 {
		fmt.Fprintln(r.out, "(no test cases)")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer iox.DiscardErr(w.Flush)

	fmt.Fprintln(w, r.header("ID\tSCENARIO\tEXPECTED"))
	for _, c := range cases {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, oneLine(c.Scenario, 50), oneLine(c.Expected, 50))
	}
	return nil
}

func (r *Renderer) renderScripts(scripts []types.Script) error {
	if len(scripts) == 0 {
		fmt.Fprintln(r.out, "(no scripts)")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer iox.DiscardErr(w.Flush)

	fmt.Fprintln(w, r.header("ID\tLINES\tSTATUS"))
	for _, s := range scripts {
		status := "ok"
		if s.IsError() {
			status = "error"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.CaseID, 1+strings.Count(s.Code, "\n"), status)
	}
	return nil
}

func (r *Renderer) renderSummary(s reader.Summary) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer iox.DiscardErr(w.Flush)

	rows := [][2]string{
		{"Run ID", s.RunID},
		{"URL", s.URL},
		{"Requested cases", fmt.Sprintf("%d", s.RequestedCases)},
		{"Snapshots", fmt.Sprintf("%d", s.Snapshots)},
		{"Elements", fmt.Sprintf("%d", s.Elements)},
		{"Test cases", fmt.Sprintf("%d", s.TestCases)},
		{"Scripts", fmt.Sprintf("%d", s.Scripts)},
	}
	if s.Terminal {
		rows = append(rows, [2]string{"Outcome", string(s.Outcome)})
	} else {
		rows = append(rows, [2]string{"Outcome", "(incomplete)"})
	}
	if s.Truncated {
		rows = append(rows, [2]string{"Journal", "truncated"})
	}
	if s.Artifacts.Elements != "" {
		rows = append(rows, [2]string{"Elements artifact", s.Artifacts.Elements})
	}
	if s.Artifacts.TestCases != "" {
		rows = append(rows, [2]string{"Test case artifact", s.Artifacts.TestCases})
	}
	if s.Artifacts.Scripts != "" {
		rows = append(rows, [2]string{"Script artifact", s.Artifacts.Scripts})
	}
	if s.LastLog != "" {
		rows = append(rows, [2]string{"Last log", s.LastLog})
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s:\t%s\n", r.header(row[0]), row[1])
	}
	return nil
}

// renderKV renders any JSON-shaped value as key-value rows.
func (r *Renderer) renderKV(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		fmt.Fprintf(r.out, "%v\n", data)
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer iox.DiscardErr(w.Flush)
	for key, val := range m {
		fmt.Fprintf(w, "%s:\t%s\n", r.header(key), strings.Trim(string(val), `"`))
	}
	return nil
}

func oneLine(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > limit {
		return s[:limit-3] + "..."
	}
	return s
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
