package usecase

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// ABIDeclarationHook writes a typed abi declaration next to the artifacts of
// every compiled source file. It is registered around the emit-artifacts stage.
type ABIDeclarationHook struct {
	renderer    DeclarationRenderer
	writer      DeclarationWriter
	concurrency int
	extension   string
	log         *slog.Logger
}

// NewABIDeclarationHook creates a new ABIDeclarationHook
func NewABIDeclarationHook(
	cfg *config.RuntimeConfig,
	renderer DeclarationRenderer,
	writer DeclarationWriter,
	log *slog.Logger,
) *ABIDeclarationHook {
	concurrency := cfg.Hook.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	extension := cfg.Hook.Extension
	if extension == "" {
		extension = ".ts"
	}

	return &ABIDeclarationHook{
		renderer:    renderer,
		writer:      writer,
		concurrency: concurrency,
		extension:   extension,
		log:         log.With("component", "ABIDeclarationHook"),
	}
}

// Extension returns the file extension of generated declarations
func (h *ABIDeclarationHook) Extension() string {
	return h.extension
}

// Intercept runs the native stage, then writes one declaration per source file.
// The stage output is returned untouched.
func (h *ABIDeclarationHook) Intercept(
	ctx context.Context,
	args *pipeline.StageArgs,
	env *pipeline.Env,
	proceed pipeline.Proceed,
) (*models.CompileOutput, error) {
	output, err := proceed(ctx)
	if err != nil {
		var stageErr *domain.StageFailure
		if errors.As(err, &stageErr) {
			return nil, err
		}
		return nil, &domain.StageFailure{Stage: string(args.Stage), Err: err}
	}

	var contracts models.ContractArtifactSet
	if args.Output != nil {
		contracts = args.Output.Contracts
	}

	start := time.Now()

	// Queued writes still run after a failure; Wait reports the first error.
	g := new(errgroup.Group)
	g.SetLimit(h.concurrency)
	for sourceID, contractMap := range contracts {
		sourceID, contractMap := sourceID, contractMap
		g.Go(func() error {
			return h.writeDeclaration(ctx, env.ArtifactsDir, sourceID, contractMap)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h.log.Debug("declarations written", "count", len(contracts), "duration", time.Since(start))
	return output, nil
}

func (h *ABIDeclarationHook) writeDeclaration(ctx context.Context, artifactsDir, sourceID string, contractMap models.ContractMap) error {
	path := models.DeclarationPath(artifactsDir, sourceID, h.extension)

	name, record, ok := contractMap.Primary()
	if !ok {
		h.log.Debug("no contracts in source, skipping", "source", sourceID)
		return nil
	}

	content, err := h.renderer.RenderDeclaration(ctx, record.ABI)
	if err != nil {
		return &domain.WriteFailure{SourceID: sourceID, Path: path, Err: err}
	}
	if err := h.writer.WriteDeclaration(ctx, path, content); err != nil {
		return &domain.WriteFailure{SourceID: sourceID, Path: path, Err: err}
	}

	h.log.Debug("wrote declaration", "source", sourceID, "contract", name, "path", path)
	return nil
}
