// Package pipeline runs the Solidity build as a sequence of named stages.
//
// The emit-artifacts stage accepts interceptors. Each interceptor receives a
// single-use continuation that runs the rest of the chain and, at the end,
// the native stage. Interceptors compose in registration order, so the first
// one registered is the outermost.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
)

// Stage names a step of the build
type Stage string

const (
	StageReadSources   Stage = "compile:solidity:read-sources"
	StageSolc          Stage = "compile:solidity:solc"
	StageEmitArtifacts Stage = "compile:solidity:emit-artifacts"
)

// Env exposes the build's directory layout to stages and interceptors
type Env struct {
	ProjectRoot  string
	SourcesDir   string
	ArtifactsDir string
	CacheDir     string
}

// StageArgs is what the emit-artifacts stage operates on.
// Interceptors see the same Output the native stage persists.
type StageArgs struct {
	Stage       Stage
	SolcVersion string
	Input       *models.CompilerInput
	Output      *models.CompilerOutput
}

// Proceed runs the wrapped stage. It may be called at most once.
type Proceed func(ctx context.Context) (*models.CompileOutput, error)

// Interceptor wraps the emit-artifacts stage
type Interceptor func(ctx context.Context, args *StageArgs, env *Env, proceed Proceed) (*models.CompileOutput, error)

// Handler is a stage implementation with the interceptor chain already applied
type Handler func(ctx context.Context, args *StageArgs, env *Env) (*models.CompileOutput, error)

// SourceReader loads Solidity sources keyed by source ID
type SourceReader interface {
	ReadSources(ctx context.Context, env *Env) (map[string]string, error)
}

// Compiler turns a standard-json input into a standard-json output
type Compiler interface {
	Version(ctx context.Context) (string, error)
	Compile(ctx context.Context, input *models.CompilerInput) (*models.CompilerOutput, error)
}

// ArtifactEmitter is the native emit-artifacts stage
type ArtifactEmitter interface {
	Emit(ctx context.Context, args *StageArgs, env *Env) (*models.CompileOutput, error)
}

// StageObserver is notified when stages start and finish
type StageObserver interface {
	StageStarted(ctx context.Context, stage Stage)
	StageFinished(ctx context.Context, stage Stage, elapsed time.Duration, err error)
}

// Options configures a Runner
type Options struct {
	Env      Env
	Settings models.CompilerSettings
}

// Runner executes the build stages
type Runner struct {
	env      Env
	settings models.CompilerSettings
	sources  SourceReader
	compiler Compiler
	emitter  ArtifactEmitter
	log      *slog.Logger

	mu           sync.RWMutex
	interceptors []Interceptor
}

// NewRunner creates a new pipeline runner
func NewRunner(opts Options, sources SourceReader, compiler Compiler, emitter ArtifactEmitter, log *slog.Logger) *Runner {
	return &Runner{
		env:      opts.Env,
		settings: opts.Settings,
		sources:  sources,
		compiler: compiler,
		emitter:  emitter,
		log:      log.With("component", "Pipeline"),
	}
}

// Env returns the directory layout shared with stages
func (r *Runner) Env() Env {
	return r.env
}

// Intercept registers an interceptor around stage.
// Only the emit-artifacts stage accepts interceptors.
func (r *Runner) Intercept(stage Stage, ic Interceptor) error {
	if stage != StageEmitArtifacts {
		return fmt.Errorf("%w: %s", domain.ErrUnknownStage, stage)
	}
	if ic == nil {
		return fmt.Errorf("nil interceptor for %s", stage)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, ic)
	return nil
}

// Compile runs every stage and returns the emit-artifacts result
func (r *Runner) Compile(ctx context.Context, observer StageObserver) (*models.CompileOutput, error) {
	if observer == nil {
		observer = nopObserver{}
	}
	env := r.env

	var sources map[string]string
	err := r.runStage(ctx, observer, StageReadSources, func() error {
		var err error
		sources, err = r.sources.ReadSources(ctx, &env)
		return err
	})
	if err != nil {
		return nil, &domain.StageFailure{Stage: string(StageReadSources), Err: err}
	}

	args := &StageArgs{
		Stage: StageEmitArtifacts,
		Input: models.NewCompilerInput(sources, r.settings),
	}
	err = r.runStage(ctx, observer, StageSolc, func() error {
		if len(sources) == 0 {
			r.log.Debug("nothing to compile", "dir", env.SourcesDir)
			args.Output = &models.CompilerOutput{Contracts: models.ContractArtifactSet{}}
			return nil
		}

		version, err := r.compiler.Version(ctx)
		if err != nil {
			return err
		}
		args.SolcVersion = version

		output, err := r.compiler.Compile(ctx, args.Input)
		if err != nil {
			return err
		}
		errs, warnings := output.Diagnostics()
		for _, w := range warnings {
			r.log.Debug("compiler warning", "message", w.String())
		}
		if len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				msgs = append(msgs, e.String())
			}
			return &domain.CompilationError{Messages: msgs}
		}
		args.Output = output
		return nil
	})
	if err != nil {
		return nil, &domain.StageFailure{Stage: string(StageSolc), Err: err}
	}

	var output *models.CompileOutput
	err = r.runStage(ctx, observer, StageEmitArtifacts, func() error {
		var err error
		output, err = r.emitHandler()(ctx, args, &env)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrStageFailed) || errors.Is(err, domain.ErrWriteFailed) {
			return nil, err
		}
		return nil, &domain.StageFailure{Stage: string(StageEmitArtifacts), Err: err}
	}
	return output, nil
}

// emitHandler composes registered interceptors around the native emit stage
func (r *Runner) emitHandler() Handler {
	r.mu.RLock()
	interceptors := make([]Interceptor, len(r.interceptors))
	copy(interceptors, r.interceptors)
	r.mu.RUnlock()

	return Chain(r.emitter.Emit, interceptors...)
}

// Chain wraps native with interceptors; the first interceptor runs outermost.
func Chain(native Handler, interceptors ...Interceptor) Handler {
	h := native
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = wrap(interceptors[i], h)
	}
	return h
}

func wrap(ic Interceptor, next Handler) Handler {
	return func(ctx context.Context, args *StageArgs, env *Env) (*models.CompileOutput, error) {
		return ic(ctx, args, env, once(func(ctx context.Context) (*models.CompileOutput, error) {
			return next(ctx, args, env)
		}))
	}
}

// once guards a continuation against repeated invocation
func once(fn Proceed) Proceed {
	var used atomic.Bool
	return func(ctx context.Context) (*models.CompileOutput, error) {
		if !used.CompareAndSwap(false, true) {
			return nil, domain.ErrProceedReused
		}
		return fn(ctx)
	}
}

func (r *Runner) runStage(ctx context.Context, observer StageObserver, stage Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	observer.StageStarted(ctx, stage)
	r.log.Debug("stage started", "stage", stage)

	err := fn()
	elapsed := time.Since(start)

	observer.StageFinished(ctx, stage, elapsed, err)
	if err != nil {
		r.log.Debug("stage failed", "stage", stage, "error", err, "duration", elapsed)
	} else {
		r.log.Debug("stage completed", "stage", stage, "duration", elapsed)
	}
	return err
}

type nopObserver struct{}

func (nopObserver) StageStarted(context.Context, Stage) {}
func (nopObserver) StageFinished(context.Context, Stage, time.Duration, error) {}
