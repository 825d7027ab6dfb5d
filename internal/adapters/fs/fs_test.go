package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSourceReader_ReadSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "contracts", "Token.sol"), "contract Token {}")
	writeFile(t, filepath.Join(root, "contracts", "lib", "Math.sol"), "library Math {}")
	writeFile(t, filepath.Join(root, "contracts", "README.md"), "# docs")

	env := &pipeline.Env{ProjectRoot: root, SourcesDir: filepath.Join(root, "contracts")}
	sources, err := NewSourceReaderAdapter(&config.RuntimeConfig{}).ReadSources(context.Background(), env)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"contracts/Token.sol":    "contract Token {}",
		"contracts/lib/Math.sol": "library Math {}",
	}, sources)
}

func TestSourceReader_MissingDirectory(t *testing.T) {
	root := t.TempDir()
	env := &pipeline.Env{ProjectRoot: root, SourcesDir: filepath.Join(root, "contracts")}

	sources, err := NewSourceReaderAdapter(&config.RuntimeConfig{}).ReadSources(context.Background(), env)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceReader_OutsideProjectRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "proj")
	require.NoError(t, os.MkdirAll(root, 0755))
	writeFile(t, filepath.Join(base, "shared", "A.sol"), "contract A {}")

	env := &pipeline.Env{
		ProjectRoot:  root,
		SourcesDir:   filepath.Join(base, "shared"),
		ArtifactsDir: filepath.Join(root, "artifacts"),
	}
	sources, err := NewSourceReaderAdapter(&config.RuntimeConfig{}).ReadSources(context.Background(), env)
	assert.ErrorIs(t, err, domain.ErrSourcesOutsideRoot)
	assert.Nil(t, sources)

	_, statErr := os.Stat(filepath.Join(root, "shared"))
	assert.True(t, os.IsNotExist(statErr), "nothing is created outside the artifacts directory")
}

func TestWithinRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")

	assert.True(t, withinRoot(root, root))
	assert.True(t, withinRoot(root, filepath.Join(root, "contracts")))
	assert.True(t, withinRoot(root, filepath.Join(root, "..proj", "x")), "dot-prefixed names are not parents")
	assert.False(t, withinRoot(root, filepath.Dir(root)))
	assert.False(t, withinRoot(root, filepath.Join(root, "..", "shared")))
}

func TestArtifactEmitter_Emit(t *testing.T) {
	root := t.TempDir()
	env := &pipeline.Env{ArtifactsDir: filepath.Join(root, "artifacts")}

	args := &pipeline.StageArgs{
		Stage:       pipeline.StageEmitArtifacts,
		SolcVersion: "0.8.30",
		Output: &models.CompilerOutput{
			Contracts: models.ContractArtifactSet{
				"contracts/Token.sol": {
					"Token": {
						ABI: models.InterfaceDescriptor(`[{"type":"constructor","inputs":[]}]`),
						EVM: models.EVMOutput{
							Bytecode:         models.BytecodeObject{Object: "6080"},
							DeployedBytecode: models.BytecodeObject{Object: "0x6080"},
						},
					},
					"IToken": {},
				},
			},
			Errors: []models.CompilerDiagnostic{
				{Severity: "warning", Type: "Warning", Message: "unused variable"},
			},
		},
	}

	out, err := NewArtifactEmitterAdapter(&config.RuntimeConfig{}).Emit(context.Background(), args, env)
	require.NoError(t, err)

	assert.Equal(t, "0.8.30", out.SolcVersion)
	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, "IToken", out.Artifacts[0].ContractName)
	assert.Equal(t, "Token", out.Artifacts[1].ContractName)
	assert.Len(t, out.Warnings, 1)

	data, err := os.ReadFile(filepath.Join(env.ArtifactsDir, "contracts", "Token.sol", "Token.json"))
	require.NoError(t, err)

	var artifact ContractArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, ArtifactFormat, artifact.Format)
	assert.Equal(t, "contracts/Token.sol", artifact.SourceName)
	assert.Equal(t, "0x6080", artifact.Bytecode)
	assert.Equal(t, "0x6080", artifact.DeployedBytecode)
	assert.JSONEq(t, `[{"type":"constructor","inputs":[]}]`, string(artifact.ABI))

	data, err = os.ReadFile(filepath.Join(env.ArtifactsDir, "contracts", "Token.sol", "IToken.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.JSONEq(t, `[]`, string(artifact.ABI))
	assert.Equal(t, "0x", artifact.Bytecode)
}

func TestArtifactEmitter_NilOutput(t *testing.T) {
	out, err := NewArtifactEmitterAdapter(&config.RuntimeConfig{}).Emit(
		context.Background(),
		&pipeline.StageArgs{SolcVersion: "0.8.30"},
		&pipeline.Env{ArtifactsDir: t.TempDir()},
	)
	require.NoError(t, err)
	assert.Empty(t, out.Artifacts)
}

func TestDeclarationWriter(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		t.Run(map[bool]string{false: "direct", true: "atomic"}[atomic], func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "abi.ts")
			w := NewDeclarationWriterAdapter(&config.RuntimeConfig{
				Hook: config.HookConfig{AtomicWrites: atomic},
			})

			require.NoError(t, w.WriteDeclaration(context.Background(), path, []byte("first but longer")))
			require.NoError(t, w.WriteDeclaration(context.Background(), path, []byte("second")))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "second", string(data))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files left behind")
		})
	}
}

func TestDeclarationWriter_DoesNotCreateDirectories(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		dir := t.TempDir()
		w := NewDeclarationWriterAdapter(&config.RuntimeConfig{
			Hook: config.HookConfig{AtomicWrites: atomic},
		})

		err := w.WriteDeclaration(context.Background(), filepath.Join(dir, "missing", "abi.ts"), []byte("x"))
		require.Error(t, err)
		assert.NoDirExists(t, filepath.Join(dir, "missing"))
	}
}

func TestDeclarationWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "abi.ts")
	err := NewDeclarationWriterAdapter(&config.RuntimeConfig{}).WriteDeclaration(ctx, path, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}
