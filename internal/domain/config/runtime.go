package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string // abiemit.toml path, empty when running on defaults

	// Resolved absolute paths
	SourcesDir   string
	ArtifactsDir string
	CacheDir     string

	Solidity SolidityConfig
	Hook     HookConfig
	Network  NetworkConfig

	// Assembled once from the process environment
	Environment *EnvironmentConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration
}
