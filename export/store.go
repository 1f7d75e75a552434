// Package export persists run artifacts (element payloads, test case
// tables, script tables) to a storage backend, and records run journals.
package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/caseforge/caseforge/types"
)

// Store persists the three run artifacts. Implementations return the
// artifact's final location (a filesystem path or object key) for display
// in progress logs and the run report.
type Store interface {
	// SaveElements writes the extracted element payload as JSON.
	SaveElements(ctx context.Context, meta types.RunMeta, elements []types.Element) (string, error)
	// SaveTestCases writes the test case table as CSV. Error marker rows
	// are written under an error-suffixed name so a failed table never
	// masquerades as a clean one.
	SaveTestCases(ctx context.Context, meta types.RunMeta, rows []types.TestCase, failed bool) (string, error)
	// SaveScripts writes the generated script table as CSV.
	SaveScripts(ctx context.Context, meta types.RunMeta, scripts []types.Script) (string, error)
}

// URLSlug derives a short artifact name component from the target URL.
// "https://demoblaze.com/index.html" becomes "demoblaze". Falls back to
// "site" when the URL has no usable host.
func URLSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "site"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if label, _, found := strings.Cut(host, "."); found && label != "" {
		return label
	}
	if host == "" {
		return "site"
	}
	return host
}

// Artifact file names, keyed by the run's URL slug.
func elementsName(meta types.RunMeta) string {
	return fmt.Sprintf("elements_%s.json", URLSlug(meta.URL))
}

func testCasesName(meta types.RunMeta, failed bool) string {
	if failed {
		return fmt.Sprintf("test_cases_%s_error.csv", URLSlug(meta.URL))
	}
	return fmt.Sprintf("test_cases_%s.csv", URLSlug(meta.URL))
}

func scriptsName(meta types.RunMeta) string {
	return fmt.Sprintf("test_scripts_%s.csv", URLSlug(meta.URL))
}
