package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
)

// CompileContractsParams contains parameters for a compilation run
type CompileContractsParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// DeclarationSummary describes one generated declaration
type DeclarationSummary struct {
	SourceID     string
	ContractName string
	Path         string
	Functions    int
	Events       int
	Errors       int
}

// CompileContractsResult contains the result of a compilation run
type CompileContractsResult struct {
	Output       *models.CompileOutput
	Declarations []DeclarationSummary
	Duration     time.Duration
}

// CompileContracts compiles the project and generates abi declarations
type CompileContracts struct {
	runner   *pipeline.Runner
	hook     *ABIDeclarationHook
	progress ProgressSink
	log      *slog.Logger
}

// NewCompileContracts creates a new CompileContracts use case
func NewCompileContracts(runner *pipeline.Runner, hook *ABIDeclarationHook, progress ProgressSink, log *slog.Logger) *CompileContracts {
	return &CompileContracts{
		runner:   runner,
		hook:     hook,
		progress: progress,
		log:      log.With("component", "CompileContracts"),
	}
}

// Run executes the compile use case
func (uc *CompileContracts) Run(ctx context.Context, params CompileContractsParams) (*CompileContractsResult, error) {
	start := time.Now()

	output, err := uc.runner.Compile(ctx, &stageProgress{sink: uc.progress})
	if err != nil {
		return nil, err
	}

	env := uc.runner.Env()
	return &CompileContractsResult{
		Output:       output,
		Declarations: uc.summarize(env.ArtifactsDir, output),
		Duration:     time.Since(start),
	}, nil
}

// summarize lists the declaration produced for each source, using the same
// contract selection as the hook
func (uc *CompileContracts) summarize(artifactsDir string, output *models.CompileOutput) []DeclarationSummary {
	if output == nil {
		return nil
	}

	bySource := make(map[string]models.EmittedArtifact)
	for _, artifact := range output.Artifacts {
		current, seen := bySource[artifact.SourceID]
		if !seen || artifact.ContractName < current.ContractName {
			bySource[artifact.SourceID] = artifact
		}
	}

	summaries := make([]DeclarationSummary, 0, len(bySource))
	for sourceID, artifact := range bySource {
		summary := DeclarationSummary{
			SourceID:     sourceID,
			ContractName: artifact.ContractName,
			Path:         models.DeclarationPath(artifactsDir, sourceID, uc.hook.Extension()),
		}
		if parsed, err := abi.JSON(bytes.NewReader(artifact.ABI)); err == nil {
			summary.Functions = len(parsed.Methods)
			summary.Events = len(parsed.Events)
			summary.Errors = len(parsed.Errors)
		} else {
			uc.log.Debug("could not parse abi for summary", "source", sourceID, "error", err)
		}
		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DeclarationSummary) int {
		return strings.Compare(a.SourceID, b.SourceID)
	})
	return summaries
}

// stageProgress forwards pipeline stage transitions to a ProgressSink
type stageProgress struct {
	sink ProgressSink
}

func (p *stageProgress) StageStarted(ctx context.Context, stage pipeline.Stage) {
	p.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: stageMessages[stage],
		Spinner: true,
	})
}

func (p *stageProgress) StageFinished(ctx context.Context, stage pipeline.Stage, elapsed time.Duration, err error) {
	p.sink.OnProgress(ctx, ProgressEvent{
		Stage:    string(stage),
		Message:  stageMessages[stage],
		Metadata: elapsed,
	})
}

var stageMessages = map[pipeline.Stage]string{
	pipeline.StageReadSources:   "reading sources",
	pipeline.StageSolc:          "compiling contracts",
	pipeline.StageEmitArtifacts: "emitting artifacts",
}
