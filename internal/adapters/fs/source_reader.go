package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
)

// SourceReaderAdapter loads Solidity sources from the sources directory
type SourceReaderAdapter struct{}

// NewSourceReaderAdapter creates a new source reader
func NewSourceReaderAdapter(cfg *config.RuntimeConfig) *SourceReaderAdapter {
	return &SourceReaderAdapter{}
}

// ReadSources returns every .sol file under the sources directory, keyed by
// its slash-separated path relative to the project root.
func (r *SourceReaderAdapter) ReadSources(ctx context.Context, env *pipeline.Env) (map[string]string, error) {
	sources := make(map[string]string)

	// Source IDs become paths under the artifacts directory
	if !withinRoot(env.ProjectRoot, env.SourcesDir) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourcesOutsideRoot, env.SourcesDir)
	}

	if _, err := os.Stat(env.SourcesDir); os.IsNotExist(err) {
		return sources, nil
	}

	err := filepath.WalkDir(env.SourcesDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Skip if not a Solidity file
		if d.IsDir() || filepath.Ext(path) != ".sol" {
			return nil
		}

		rel, err := filepath.Rel(env.ProjectRoot, path)
		if err != nil {
			return fmt.Errorf("failed to resolve source id for %s: %w", path, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read source %s: %w", rel, err)
		}
		id := filepath.ToSlash(rel)
		if id == ".." || strings.HasPrefix(id, "../") {
			return fmt.Errorf("%w: %s", domain.ErrSourcesOutsideRoot, path)
		}
		sources[id] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sources, nil
}

// withinRoot reports whether dir is root or below it
func withinRoot(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// Ensure the adapter implements the interface
var _ pipeline.SourceReader = (*SourceReaderAdapter)(nil)
