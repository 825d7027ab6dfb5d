package models

// ExplorerConfig holds block explorer verification settings
type ExplorerConfig struct {
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	APIKeySet bool   `json:"apiKeySet" yaml:"apiKeySet"`
	APIKey    string `json:"-" yaml:"-"`
}

// NetworkProfile is a named deployment target assembled from the environment
type NetworkProfile struct {
	Name      string         `json:"name" yaml:"name"`
	URL       string         `json:"url" yaml:"url"`
	Accounts  []string       `json:"-" yaml:"-"`
	Deployer  string         `json:"deployer" yaml:"deployer"`
	Ephemeral bool           `json:"ephemeralKey" yaml:"ephemeralKey"`
	ChainID   uint64         `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Explorer  ExplorerConfig `json:"explorer" yaml:"explorer"`
}
