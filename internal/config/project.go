package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
)

// ProjectFileName is the project configuration file looked up from the working directory
const ProjectFileName = "abiemit.toml"

// Defaults applied when abiemit.toml is absent or leaves a field empty
const (
	DefaultSourcesDir      = "contracts"
	DefaultArtifactsDir    = "artifacts"
	DefaultCacheDir        = "cache"
	DefaultSolcVersion     = "0.8.30"
	DefaultSolcBinary      = "solc"
	DefaultOptimizerRuns   = 200
	DefaultExtension       = ".ts"
	DefaultNetworkName     = "deploy"
	defaultOutputSelection = "storageLayout"
)

// DefaultProjectFile returns the configuration used when no abiemit.toml exists
func DefaultProjectFile() *config.ProjectFile {
	return &config.ProjectFile{
		Paths: config.PathsConfig{
			Sources:   DefaultSourcesDir,
			Artifacts: DefaultArtifactsDir,
			Cache:     DefaultCacheDir,
		},
		Solidity: config.SolidityConfig{
			Version: DefaultSolcVersion,
			Solc:    DefaultSolcBinary,
			Optimizer: config.OptimizerConfig{
				Enabled: true,
				Runs:    DefaultOptimizerRuns,
			},
			OutputSelection: []string{defaultOutputSelection},
		},
		Hook: config.HookConfig{
			Concurrency: runtime.NumCPU(),
			Extension:   DefaultExtension,
		},
		Network: config.NetworkConfig{
			Name: DefaultNetworkName,
		},
	}
}

// LoadProjectFile reads abiemit.toml from projectRoot.
// It returns the defaults and an empty path when the file does not exist.
func LoadProjectFile(projectRoot string) (*config.ProjectFile, string, error) {
	cfg := DefaultProjectFile()

	path := filepath.Join(projectRoot, ProjectFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, "", nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, "", fmt.Errorf("unknown keys in %s: %v", ProjectFileName, undecoded)
	}

	applyDefaults(cfg)
	return cfg, path, nil
}

// applyDefaults fills fields that were explicitly emptied in the file
func applyDefaults(cfg *config.ProjectFile) {
	defaults := DefaultProjectFile()
	if cfg.Paths.Sources == "" {
		cfg.Paths.Sources = defaults.Paths.Sources
	}
	if cfg.Paths.Artifacts == "" {
		cfg.Paths.Artifacts = defaults.Paths.Artifacts
	}
	if cfg.Paths.Cache == "" {
		cfg.Paths.Cache = defaults.Paths.Cache
	}
	if cfg.Solidity.Solc == "" {
		cfg.Solidity.Solc = defaults.Solidity.Solc
	}
	if cfg.Solidity.Optimizer.Enabled && cfg.Solidity.Optimizer.Runs <= 0 {
		cfg.Solidity.Optimizer.Runs = DefaultOptimizerRuns
	}
	if cfg.Hook.Concurrency <= 0 {
		cfg.Hook.Concurrency = defaults.Hook.Concurrency
	}
	if cfg.Hook.Extension == "" {
		cfg.Hook.Extension = defaults.Hook.Extension
	}
	if cfg.Network.Name == "" {
		cfg.Network.Name = defaults.Network.Name
	}
}

// resolvePath makes p absolute relative to projectRoot
func resolvePath(projectRoot, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(projectRoot, p)
}
