package models

import (
	"encoding/json"
	"path/filepath"
	"slices"

	"github.com/samber/lo"
)

// InterfaceDescriptor is a contract ABI exactly as the compiler emitted it.
// It is kept as raw JSON so key order survives into generated files.
type InterfaceDescriptor = json.RawMessage

// BytecodeObject represents bytecode information in a solc evm output
type BytecodeObject struct {
	Object         string                                `json:"object"`
	SourceMap      string                                `json:"sourceMap,omitempty"`
	LinkReferences map[string]map[string][]LinkReference `json:"linkReferences,omitempty"`
}

// LinkReference is a library placeholder position inside bytecode
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// EVMOutput is the evm section of a compiled contract
type EVMOutput struct {
	Bytecode          BytecodeObject    `json:"bytecode"`
	DeployedBytecode  BytecodeObject    `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers,omitempty"`
}

// ContractBuildRecord is a compiled contract as reported by solc.
// Only ABI is consumed when generating declarations.
type ContractBuildRecord struct {
	ABI           InterfaceDescriptor `json:"abi"`
	Metadata      string              `json:"metadata,omitempty"`
	EVM           EVMOutput           `json:"evm"`
	StorageLayout json.RawMessage     `json:"storageLayout,omitempty"`
}

// ContractMap maps contract names to their build records for one source file
type ContractMap map[string]*ContractBuildRecord

// Names returns the contract names in lexicographic order
func (m ContractMap) Names() []string {
	names := lo.Keys(m)
	slices.Sort(names)
	return names
}

// Primary returns the record whose contract name sorts first.
// Source files declaring several contracts get one declaration built from this record.
func (m ContractMap) Primary() (string, *ContractBuildRecord, bool) {
	names := m.Names()
	if len(names) == 0 {
		return "", nil, false
	}
	return names[0], m[names[0]], true
}

// ContractArtifactSet maps source file identifiers to the contracts they declare
type ContractArtifactSet map[string]ContractMap

// SourceIDs returns the source identifiers in lexicographic order
func (s ContractArtifactSet) SourceIDs() []string {
	ids := lo.Keys(s)
	slices.Sort(ids)
	return ids
}

// DeclarationPath returns where the generated declaration for a source file lives.
func DeclarationPath(artifactsDir, sourceID, extension string) string {
	return filepath.Join(artifactsDir, filepath.FromSlash(sourceID), "abi"+extension)
}

// DeclarationFile is a generated declaration ready to be written
type DeclarationFile struct {
	SourceID     string
	ContractName string
	Path         string
	Content      []byte
}
