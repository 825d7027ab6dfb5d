package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// DeclarationWriterAdapter writes generated declarations to disk.
// It never creates directories; the emit stage provisions them.
type DeclarationWriterAdapter struct {
	atomic bool
}

// NewDeclarationWriterAdapter creates a new declaration writer
func NewDeclarationWriterAdapter(cfg *config.RuntimeConfig) *DeclarationWriterAdapter {
	return &DeclarationWriterAdapter{
		atomic: cfg.Hook.AtomicWrites,
	}
}

// WriteDeclaration replaces the file at path with content
func (w *DeclarationWriterAdapter) WriteDeclaration(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.atomic {
		return writeAtomic(path, content)
	}
	return os.WriteFile(path, content, 0644)
}

// writeAtomic writes to a sibling temp file and renames it over path,
// so readers never observe a truncated declaration.
func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".abi-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(content); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Ensure the adapter implements the interface
var _ usecase.DeclarationWriter = (*DeclarationWriterAdapter)(nil)
