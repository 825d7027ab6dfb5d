package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/abiemit/internal/adapters/blockchain"
	"github.com/trebuchet-org/abiemit/internal/adapters/fs"
	"github.com/trebuchet-org/abiemit/internal/adapters/solc"
	"github.com/trebuchet-org/abiemit/internal/adapters/template"
	internalconfig "github.com/trebuchet-org/abiemit/internal/config"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// ProvidePipelineRunner builds the compile pipeline with the abi declaration
// hook registered around the emit-artifacts stage
func ProvidePipelineRunner(
	cfg *config.RuntimeConfig,
	sources pipeline.SourceReader,
	compiler pipeline.Compiler,
	emitter pipeline.ArtifactEmitter,
	hook *usecase.ABIDeclarationHook,
	log *slog.Logger,
) (*pipeline.Runner, error) {
	runner := pipeline.NewRunner(
		pipeline.Options{
			Env: pipeline.Env{
				ProjectRoot:  cfg.ProjectRoot,
				SourcesDir:   cfg.SourcesDir,
				ArtifactsDir: cfg.ArtifactsDir,
				CacheDir:     cfg.CacheDir,
			},
			Settings: solc.SettingsFromConfig(cfg.Solidity),
		},
		sources,
		compiler,
		emitter,
		log,
	)
	if err := runner.Intercept(pipeline.StageEmitArtifacts, hook.Intercept); err != nil {
		return nil, err
	}
	return runner, nil
}

// ProvideSigningAddress derives checksummed deployer addresses from signing keys
func ProvideSigningAddress() usecase.SigningAddressFunc {
	return func(hexKey string) (string, error) {
		addr, err := internalconfig.SigningAddress(hexKey)
		if err != nil {
			return "", err
		}
		return addr.Hex(), nil
	}
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSourceReaderAdapter,
	wire.Bind(new(pipeline.SourceReader), new(*fs.SourceReaderAdapter)),

	fs.NewArtifactEmitterAdapter,
	wire.Bind(new(pipeline.ArtifactEmitter), new(*fs.ArtifactEmitterAdapter)),

	fs.NewDeclarationWriterAdapter,
	wire.Bind(new(usecase.DeclarationWriter), new(*fs.DeclarationWriterAdapter)),
)

// SolcSet provides the solc compiler
var SolcSet = wire.NewSet(
	solc.NewCompilerAdapter,
	wire.Bind(new(pipeline.Compiler), new(*solc.CompilerAdapter)),
)

// TemplateSet provides template-based implementations
var TemplateSet = wire.NewSet(
	template.NewDeclarationRendererAdapter,
	wire.Bind(new(usecase.DeclarationRenderer), new(*template.DeclarationRendererAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewChainProberAdapter,
	wire.Bind(new(usecase.ChainProber), new(*blockchain.ChainProberAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	// Provider functions
	ProvidePipelineRunner,
	ProvideSigningAddress,

	// Adapter sets
	FSSet,
	SolcSet,
	TemplateSet,
	BlockchainSet,
)
