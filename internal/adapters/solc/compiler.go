package solc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
	"github.com/trebuchet-org/abiemit/internal/pipeline"
)

// baseOutputs are always requested; the declaration hook needs at least "abi"
var baseOutputs = []string{
	"abi",
	"evm.bytecode",
	"evm.deployedBytecode",
	"evm.methodIdentifiers",
	"metadata",
}

var versionPattern = regexp.MustCompile(`Version:\s*(\S+)`)

// CompilerAdapter runs solc in standard-json mode
type CompilerAdapter struct {
	binary      string
	projectRoot string
	expected    string
	log         *slog.Logger

	versionOnce sync.Once
	version     string
	versionErr  error
}

// NewCompilerAdapter creates a new solc compiler adapter
func NewCompilerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *CompilerAdapter {
	return &CompilerAdapter{
		binary:      cfg.Solidity.Solc,
		projectRoot: cfg.ProjectRoot,
		expected:    cfg.Solidity.Version,
		log:         log.With("component", "SolcAdapter"),
	}
}

// SettingsFromConfig builds the standard-json settings section
func SettingsFromConfig(cfg config.SolidityConfig) models.CompilerSettings {
	outputs := lo.Uniq(append(append([]string{}, baseOutputs...), cfg.OutputSelection...))

	return models.CompilerSettings{
		Optimizer: models.OptimizerSettings{
			Enabled: cfg.Optimizer.Enabled,
			Runs:    cfg.Optimizer.Runs,
		},
		EVMVersion: cfg.EVMVersion,
		Remappings: cfg.Remappings,
		OutputSelection: map[string]map[string][]string{
			"*": {"*": outputs},
		},
	}
}

// Version returns the solc version, e.g. "0.8.30+commit.73712a01.Linux.g++".
// A mismatch with the configured version is logged, not rejected.
func (c *CompilerAdapter) Version(ctx context.Context) (string, error) {
	c.versionOnce.Do(func() {
		cmd := exec.CommandContext(ctx, c.binary, "--version")
		cmd.Dir = c.projectRoot

		output, err := cmd.CombinedOutput()
		if err != nil {
			c.versionErr = fmt.Errorf("failed to run %s --version: %w\nOutput: %s", c.binary, err, string(output))
			return
		}

		match := versionPattern.FindSubmatch(output)
		if match == nil {
			c.versionErr = fmt.Errorf("unrecognized %s --version output: %q", c.binary, strings.TrimSpace(string(output)))
			return
		}
		c.version = string(match[1])

		if c.expected != "" && !strings.HasPrefix(c.version, c.expected) {
			c.log.Warn("solc version differs from configuration", "configured", c.expected, "found", c.version)
		}
	})
	return c.version, c.versionErr
}

// Compile feeds input to solc --standard-json and decodes its output
func (c *CompilerAdapter) Compile(ctx context.Context, input *models.CompilerInput) (*models.CompilerOutput, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiler input: %w", err)
	}

	start := time.Now()
	c.log.Debug("running solc", "binary", c.binary, "sources", len(input.Sources))

	cmd := exec.CommandContext(ctx, c.binary, "--standard-json", "--base-path", ".")
	cmd.Dir = c.projectRoot
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("solc failed: %w\nOutput: %s", err, strings.TrimSpace(stderr.String()))
	}

	var output models.CompilerOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to decode solc output: %w", err)
	}
	if output.Contracts == nil {
		output.Contracts = models.ContractArtifactSet{}
	}

	c.log.Debug("solc completed", "contracts", len(output.Contracts), "duration", time.Since(start))
	return &output, nil
}

// Ensure the adapter implements the interface
var _ pipeline.Compiler = (*CompilerAdapter)(nil)
