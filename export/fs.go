package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caseforge/caseforge/types"
)

// FSStore writes artifacts to a local output directory, one subdirectory
// per run.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at dir. The directory is
// created on first write, not here.
func NewFSStore(dir string) *FSStore {
	if dir == "" {
		dir = "outputs"
	}
	return &FSStore{root: dir}
}

func (s *FSStore) write(meta types.RunMeta, name string, data []byte) (string, error) {
	dir := filepath.Join(s.root, meta.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (s *FSStore) SaveElements(_ context.Context, meta types.RunMeta, elements []types.Element) (string, error) {
	data, err := encodeElements(elements)
	if err != nil {
		return "", err
	}
	return s.write(meta, elementsName(meta), data)
}

func (s *FSStore) SaveTestCases(_ context.Context, meta types.RunMeta, rows []types.TestCase, failed bool) (string, error) {
	data, err := encodeTestCases(rows)
	if err != nil {
		return "", err
	}
	return s.write(meta, testCasesName(meta, failed), data)
}

func (s *FSStore) SaveScripts(_ context.Context, meta types.RunMeta, scripts []types.Script) (string, error) {
	data, err := encodeScripts(scripts)
	if err != nil {
		return "", err
	}
	return s.write(meta, scriptsName(meta), data)
}
