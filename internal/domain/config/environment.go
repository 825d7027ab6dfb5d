package config

import "slices"

// Environment variables read at startup
const (
	EnvSigningKey      = "CONTRACT_OWNER_PRIVATE_KEY"
	EnvRPCURL          = "ETH_RPC"
	EnvVerificationKey = "ETHERSCAN_API_KEY"
)

// EnvironmentConfig holds deployment parameters assembled from the environment.
// It is built once and never persisted.
type EnvironmentConfig struct {
	SigningKey      string
	RPCURL          string
	VerificationKey string

	// Defaulted lists the variables that were absent and fell back to their default
	Defaulted []string
}

// UsesGeneratedKey reports whether the signing key was generated for this process
func (e *EnvironmentConfig) UsesGeneratedKey() bool {
	return e.IsDefaulted(EnvSigningKey)
}

// IsDefaulted reports whether the named variable fell back to its default
func (e *EnvironmentConfig) IsDefaulted(name string) bool {
	return slices.Contains(e.Defaulted, name)
}
