package usecase

import (
	"context"

	"github.com/trebuchet-org/abiemit/internal/domain/models"
)

// DeclarationRenderer turns an interface descriptor into declaration file content
type DeclarationRenderer interface {
	RenderDeclaration(ctx context.Context, abi models.InterfaceDescriptor) ([]byte, error)
}

// DeclarationWriter persists generated declaration files.
// Implementations overwrite existing files and never create directories.
type DeclarationWriter interface {
	WriteDeclaration(ctx context.Context, path string, content []byte) error
}

// ChainProber queries a live network
type ChainProber interface {
	ChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
