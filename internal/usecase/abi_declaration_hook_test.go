package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/abiemit/internal/adapters/fs"
	"github.com/trebuchet-org/abiemit/internal/adapters/template"
	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHook(t *testing.T, concurrency int) *usecase.ABIDeclarationHook {
	t.Helper()
	cfg := &config.RuntimeConfig{Hook: config.HookConfig{Concurrency: concurrency, Extension: ".ts"}}
	return usecase.NewABIDeclarationHook(
		cfg,
		template.NewDeclarationRendererAdapter(cfg),
		fs.NewDeclarationWriterAdapter(cfg),
		discardLogger(),
	)
}

// artifactSet builds n single-contract sources and provisions their artifact directories
func artifactSet(t *testing.T, artifactsDir string, n int) models.ContractArtifactSet {
	t.Helper()
	set := models.ContractArtifactSet{}
	for i := 0; i < n; i++ {
		sourceID := fmt.Sprintf("contracts/C%02d.sol", i)
		abi := fmt.Sprintf(`[{"type":"function","name":"f%d","inputs":[],"outputs":[],"stateMutability":"view"}]`, i)
		set[sourceID] = models.ContractMap{
			fmt.Sprintf("C%02d", i): {ABI: models.InterfaceDescriptor(abi)},
		}
		require.NoError(t, os.MkdirAll(filepath.Join(artifactsDir, filepath.FromSlash(sourceID)), 0755))
	}
	return set
}

func stageArgs(set models.ContractArtifactSet) *pipeline.StageArgs {
	return &pipeline.StageArgs{
		Stage:  pipeline.StageEmitArtifacts,
		Output: &models.CompilerOutput{Contracts: set},
	}
}

func proceedWith(output *models.CompileOutput, err error) (pipeline.Proceed, *int32) {
	var calls int32
	return func(ctx context.Context) (*models.CompileOutput, error) {
		atomic.AddInt32(&calls, 1)
		return output, err
	}, &calls
}

func countDeclarations(t *testing.T, artifactsDir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(artifactsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "abi.ts" {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestABIDeclarationHook_WritesOneFilePerSource(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 12)
	want := &models.CompileOutput{SolcVersion: "0.8.30"}
	proceed, calls := proceedWith(want, nil)

	got, err := newHook(t, 4).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)

	assert.Same(t, want, got)
	assert.Equal(t, int32(1), *calls)
	assert.Equal(t, 12, countDeclarations(t, env.ArtifactsDir))

	data, err := os.ReadFile(filepath.Join(env.ArtifactsDir, "contracts", "C03.sol", "abi.ts"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "export const abi = [\n"))
	assert.True(t, strings.HasSuffix(string(data), "] as const\n"))
	assert.Contains(t, string(data), "name: 'f3'")
}

func TestABIDeclarationHook_TokenScenario(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: filepath.Join(t.TempDir(), "artifacts")}
	require.NoError(t, os.MkdirAll(filepath.Join(env.ArtifactsDir, "Token.sol"), 0755))

	set := models.ContractArtifactSet{
		"Token.sol": {
			"Token": {ABI: models.InterfaceDescriptor(`[{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`)},
		},
	}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	_, err := newHook(t, 0).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.ArtifactsDir, "Token.sol", "abi.ts"))
	require.NoError(t, err)
	assert.Equal(t, `export const abi = [
  {
    type: 'function',
    name: 'totalSupply',
    inputs: [],
    outputs: [
      {
        name: '',
        type: 'uint256'
      }
    ],
    stateMutability: 'view'
  }
] as const
`, string(data))
}

func TestABIDeclarationHook_Idempotent(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 3)
	hook := newHook(t, 2)
	path := filepath.Join(env.ArtifactsDir, "contracts", "C01.sol", "abi.ts")

	proceed, _ := proceedWith(&models.CompileOutput{}, nil)
	_, err := hook.Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	proceed, _ = proceedWith(&models.CompileOutput{}, nil)
	_, err = hook.Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestABIDeclarationHook_OverwritesStaleContent(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 1)
	path := filepath.Join(env.ArtifactsDir, "contracts", "C00.sol", "abi.ts")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 200)), 0644))

	proceed, _ := proceedWith(&models.CompileOutput{}, nil)
	_, err := newHook(t, 1).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestABIDeclarationHook_ProceedFailure(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 5)
	cause := errors.New("disk full")
	proceed, calls := proceedWith(nil, cause)

	got, err := newHook(t, 2).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int32(1), *calls)

	var stageErr *domain.StageFailure
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, string(pipeline.StageEmitArtifacts), stageErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, countDeclarations(t, env.ArtifactsDir))
}

func TestABIDeclarationHook_ProceedStageFailurePassesThrough(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	inner := &domain.StageFailure{Stage: "inner", Err: errors.New("boom")}
	proceed, _ := proceedWith(nil, inner)

	_, err := newHook(t, 2).Intercept(context.Background(), stageArgs(models.ContractArtifactSet{}), env, proceed)
	assert.Same(t, inner, err)
}

func TestABIDeclarationHook_MissingDirectory(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 6)
	set["contracts/Orphan.sol"] = models.ContractMap{"Orphan": {ABI: models.InterfaceDescriptor(`[]`)}}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	got, err := newHook(t, 2).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.Error(t, err)
	assert.Nil(t, got)

	var writeErr *domain.WriteFailure
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "contracts/Orphan.sol", writeErr.SourceID)
	assert.ErrorIs(t, err, domain.ErrWriteFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Sibling writes are not cancelled by the failure
	assert.Equal(t, 6, countDeclarations(t, env.ArtifactsDir))
	assert.NoDirExists(t, filepath.Join(env.ArtifactsDir, "contracts", "Orphan.sol"))
}

func TestABIDeclarationHook_SkipsEmptyContractMaps(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	set := artifactSet(t, env.ArtifactsDir, 2)
	set["contracts/Empty.sol"] = models.ContractMap{}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	_, err := newHook(t, 2).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)
	assert.Equal(t, 2, countDeclarations(t, env.ArtifactsDir))
}

func TestABIDeclarationHook_UsesFirstContractByName(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	require.NoError(t, os.MkdirAll(filepath.Join(env.ArtifactsDir, "contracts", "Multi.sol"), 0755))
	set := models.ContractArtifactSet{
		"contracts/Multi.sol": {
			"Zeta":  {ABI: models.InterfaceDescriptor(`[{"name":"zeta"}]`)},
			"Alpha": {ABI: models.InterfaceDescriptor(`[{"name":"alpha"}]`)},
		},
	}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	_, err := newHook(t, 2).Intercept(context.Background(), stageArgs(set), env, proceed)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.ArtifactsDir, "contracts", "Multi.sol", "abi.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "'alpha'")
	assert.NotContains(t, string(data), "'zeta'")
}

func TestABIDeclarationHook_NoContracts(t *testing.T) {
	env := &pipeline.Env{ArtifactsDir: t.TempDir()}
	want := &models.CompileOutput{}
	proceed, _ := proceedWith(want, nil)

	got, err := newHook(t, 2).Intercept(context.Background(), &pipeline.StageArgs{Stage: pipeline.StageEmitArtifacts}, env, proceed)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

// limitWriter records the peak number of concurrent writes
type limitWriter struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	paths    []string
}

func (w *limitWriter) WriteDeclaration(ctx context.Context, path string, content []byte) error {
	w.mu.Lock()
	w.inFlight++
	if w.inFlight > w.peak {
		w.peak = w.inFlight
	}
	w.paths = append(w.paths, path)
	w.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	w.mu.Lock()
	w.inFlight--
	w.mu.Unlock()
	return nil
}

func TestABIDeclarationHook_ConcurrencyLimit(t *testing.T) {
	cfg := &config.RuntimeConfig{Hook: config.HookConfig{Concurrency: 3}}
	writer := &limitWriter{}
	hook := usecase.NewABIDeclarationHook(cfg, template.NewDeclarationRendererAdapter(cfg), writer, discardLogger())

	set := models.ContractArtifactSet{}
	for i := 0; i < 20; i++ {
		set[fmt.Sprintf("S%d.sol", i)] = models.ContractMap{"C": {ABI: models.InterfaceDescriptor(`[]`)}}
	}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	_, err := hook.Intercept(context.Background(), stageArgs(set), &pipeline.Env{ArtifactsDir: "artifacts"}, proceed)
	require.NoError(t, err)

	assert.Len(t, writer.paths, 20)
	assert.LessOrEqual(t, writer.peak, 3)
	assert.Equal(t, ".ts", hook.Extension())
}

// failingRenderer rejects one descriptor
type failingRenderer struct{}

func (failingRenderer) RenderDeclaration(ctx context.Context, abi models.InterfaceDescriptor) ([]byte, error) {
	if strings.Contains(string(abi), "bad") {
		return nil, errors.New("cannot render")
	}
	return []byte("ok"), nil
}

func TestABIDeclarationHook_RenderFailure(t *testing.T) {
	cfg := &config.RuntimeConfig{}
	writer := &limitWriter{}
	hook := usecase.NewABIDeclarationHook(cfg, failingRenderer{}, writer, discardLogger())

	set := models.ContractArtifactSet{
		"Good.sol": {"Good": {ABI: models.InterfaceDescriptor(`[]`)}},
		"Bad.sol":  {"Bad": {ABI: models.InterfaceDescriptor(`["bad"]`)}},
	}
	proceed, _ := proceedWith(&models.CompileOutput{}, nil)

	_, err := hook.Intercept(context.Background(), stageArgs(set), &pipeline.Env{ArtifactsDir: "artifacts"}, proceed)
	var writeErr *domain.WriteFailure
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "Bad.sol", writeErr.SourceID)
	assert.Equal(t, filepath.Join("artifacts", "Bad.sol", "abi.ts"), writeErr.Path)
	assert.Len(t, writer.paths, 1)
}
