package models

import "strings"

// SourceContent is a single entry of the standard-json sources section
type SourceContent struct {
	Content string `json:"content"`
}

// OptimizerSettings mirrors solc's optimizer settings
type OptimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// CompilerSettings is the settings section of a standard-json input
type CompilerSettings struct {
	Optimizer       OptimizerSettings              `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	Remappings      []string                       `json:"remappings,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// CompilerInput is a solc standard-json input document
type CompilerInput struct {
	Language string                   `json:"language"`
	Sources  map[string]SourceContent `json:"sources"`
	Settings CompilerSettings         `json:"settings"`
}

// NewCompilerInput builds a Solidity standard-json input from source contents keyed by source ID
func NewCompilerInput(sources map[string]string, settings CompilerSettings) *CompilerInput {
	input := &CompilerInput{
		Language: "Solidity",
		Sources:  make(map[string]SourceContent, len(sources)),
		Settings: settings,
	}
	for id, content := range sources {
		input.Sources[id] = SourceContent{Content: content}
	}
	return input
}

// SourceLocation points at a span inside a source file
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CompilerDiagnostic is an entry of the standard-json errors array
type CompilerDiagnostic struct {
	Severity         string          `json:"severity"`
	Type             string          `json:"type"`
	Component        string          `json:"component"`
	Message          string          `json:"message"`
	FormattedMessage string          `json:"formattedMessage,omitempty"`
	SourceLocation   *SourceLocation `json:"sourceLocation,omitempty"`
}

// IsError reports whether the diagnostic aborts compilation
func (d CompilerDiagnostic) IsError() bool {
	return d.Severity == "error"
}

// String prefers solc's own formatting
func (d CompilerDiagnostic) String() string {
	if d.FormattedMessage != "" {
		return strings.TrimSpace(d.FormattedMessage)
	}
	if d.SourceLocation != nil {
		return d.SourceLocation.File + ": " + d.Type + ": " + d.Message
	}
	return d.Type + ": " + d.Message
}

// SourceUnit is an entry of the standard-json output sources section
type SourceUnit struct {
	ID int `json:"id"`
}

// CompilerOutput is a solc standard-json output document
type CompilerOutput struct {
	Contracts ContractArtifactSet   `json:"contracts"`
	Sources   map[string]SourceUnit `json:"sources"`
	Errors    []CompilerDiagnostic  `json:"errors,omitempty"`
}

// Diagnostics splits compiler messages into errors and everything else
func (o *CompilerOutput) Diagnostics() (errs, warnings []CompilerDiagnostic) {
	for _, d := range o.Errors {
		if d.IsError() {
			errs = append(errs, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errs, warnings
}

// EmittedArtifact describes one artifact file written by the emit stage
type EmittedArtifact struct {
	SourceID     string
	ContractName string
	Path         string
	ABI          InterfaceDescriptor
}

// CompileOutput is the result of the emit-artifacts stage.
// Hooks around that stage observe it but hand it back untouched.
type CompileOutput struct {
	SolcVersion string
	Artifacts   []EmittedArtifact
	Warnings    []CompilerDiagnostic
}
