package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
)

// ArtifactFormat tags emitted artifact files
const ArtifactFormat = "hh-sol-artifact-1"

// ContractArtifact is the per-contract artifact file layout
type ContractArtifact struct {
	Format                 string                                       `json:"_format"`
	ContractName           string                                       `json:"contractName"`
	SourceName             string                                       `json:"sourceName"`
	ABI                    models.InterfaceDescriptor                   `json:"abi"`
	Bytecode               string                                       `json:"bytecode"`
	DeployedBytecode       string                                       `json:"deployedBytecode"`
	LinkReferences         map[string]map[string][]models.LinkReference `json:"linkReferences"`
	DeployedLinkReferences map[string]map[string][]models.LinkReference `json:"deployedLinkReferences"`
}

// ArtifactEmitterAdapter is the native emit-artifacts stage. It writes one
// JSON artifact per contract under <artifacts>/<sourceID>/.
type ArtifactEmitterAdapter struct{}

// NewArtifactEmitterAdapter creates a new artifact emitter
func NewArtifactEmitterAdapter(cfg *config.RuntimeConfig) *ArtifactEmitterAdapter {
	return &ArtifactEmitterAdapter{}
}

// Emit persists the compiler output and reports what was written
func (e *ArtifactEmitterAdapter) Emit(ctx context.Context, args *pipeline.StageArgs, env *pipeline.Env) (*models.CompileOutput, error) {
	result := &models.CompileOutput{
		SolcVersion: args.SolcVersion,
	}
	if args.Output == nil {
		return result, nil
	}
	_, result.Warnings = args.Output.Diagnostics()

	for _, sourceID := range args.Output.Contracts.SourceIDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(env.ArtifactsDir, filepath.FromSlash(sourceID))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory: %w", err)
		}

		contracts := args.Output.Contracts[sourceID]
		for _, name := range contracts.Names() {
			record := contracts[name]
			path := filepath.Join(dir, name+".json")
			if err := writeArtifact(path, newContractArtifact(sourceID, name, record)); err != nil {
				return nil, fmt.Errorf("failed to write artifact %s:%s: %w", sourceID, name, err)
			}
			result.Artifacts = append(result.Artifacts, models.EmittedArtifact{
				SourceID:     sourceID,
				ContractName: name,
				Path:         path,
				ABI:          record.ABI,
			})
		}
	}

	return result, nil
}

func newContractArtifact(sourceID, name string, record *models.ContractBuildRecord) *ContractArtifact {
	abi := record.ABI
	if len(abi) == 0 {
		abi = models.InterfaceDescriptor("[]")
	}
	return &ContractArtifact{
		Format:                 ArtifactFormat,
		ContractName:           name,
		SourceName:             sourceID,
		ABI:                    abi,
		Bytecode:               prefixHex(record.EVM.Bytecode.Object),
		DeployedBytecode:       prefixHex(record.EVM.DeployedBytecode.Object),
		LinkReferences:         orEmpty(record.EVM.Bytecode.LinkReferences),
		DeployedLinkReferences: orEmpty(record.EVM.DeployedBytecode.LinkReferences),
	}
}

func writeArtifact(path string, artifact *ContractArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func prefixHex(object string) string {
	if strings.HasPrefix(object, "0x") {
		return object
	}
	return "0x" + object
}

func orEmpty(refs map[string]map[string][]models.LinkReference) map[string]map[string][]models.LinkReference {
	if refs == nil {
		return map[string]map[string][]models.LinkReference{}
	}
	return refs
}

// Ensure the adapter implements the interface
var _ pipeline.ArtifactEmitter = (*ArtifactEmitterAdapter)(nil)
