package config

// ProjectFile represents the raw abiemit.toml structure
type ProjectFile struct {
	Paths    PathsConfig    `toml:"paths"`
	Solidity SolidityConfig `toml:"solidity"`
	Hook     HookConfig     `toml:"hook"`
	Network  NetworkConfig  `toml:"network"`
}

// PathsConfig holds project-relative directories
type PathsConfig struct {
	Sources   string `toml:"sources,omitempty"`
	Artifacts string `toml:"artifacts,omitempty"`
	Cache     string `toml:"cache,omitempty"`
}

// OptimizerConfig mirrors solc's optimizer switch
type OptimizerConfig struct {
	Enabled bool `toml:"enabled"`
	Runs    int  `toml:"runs,omitempty"`
}

// SolidityConfig controls how sources are compiled
type SolidityConfig struct {
	Version         string          `toml:"version,omitempty"`
	Solc            string          `toml:"solc,omitempty"` // compiler binary
	EVMVersion      string          `toml:"evm_version,omitempty"`
	Optimizer       OptimizerConfig `toml:"optimizer"`
	OutputSelection []string        `toml:"output_selection,omitempty"` // extra per-contract outputs
	Remappings      []string        `toml:"remappings,omitempty"`
}

// HookConfig controls the ABI declaration hook
type HookConfig struct {
	Concurrency  int    `toml:"concurrency,omitempty"`
	AtomicWrites bool   `toml:"atomic_writes,omitempty"`
	Extension    string `toml:"extension,omitempty"`
}

// NetworkConfig names the deployment profile and its explorer
type NetworkConfig struct {
	Name        string `toml:"name,omitempty"`
	ExplorerURL string `toml:"explorer_url,omitempty"`
}
