package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/abiemit/internal/domain/config"
)

// EnvironmentVariable is one assembled variable prepared for display
type EnvironmentVariable struct {
	Name      string
	Value     string // masked for secrets
	Defaulted bool
	Secret    bool
}

// ShowEnvironmentResult contains the result of showing the environment
type ShowEnvironmentResult struct {
	Variables    []EnvironmentVariable
	GeneratedKey bool
}

// ShowEnvironment reports the assembled environment without revealing secrets
type ShowEnvironment struct {
	config *config.RuntimeConfig
}

// NewShowEnvironment creates a new ShowEnvironment use case
func NewShowEnvironment(cfg *config.RuntimeConfig) *ShowEnvironment {
	return &ShowEnvironment{config: cfg}
}

// Run executes the show environment use case
func (uc *ShowEnvironment) Run(ctx context.Context) (*ShowEnvironmentResult, error) {
	env := uc.config.Environment
	if env == nil {
		return nil, fmt.Errorf("environment not assembled")
	}

	variables := []EnvironmentVariable{
		{Name: config.EnvSigningKey, Value: MaskSecret(env.SigningKey), Secret: true},
		{Name: config.EnvRPCURL, Value: env.RPCURL},
		{Name: config.EnvVerificationKey, Value: MaskSecret(env.VerificationKey), Secret: true},
	}
	for i := range variables {
		variables[i].Defaulted = env.IsDefaulted(variables[i].Name)
	}

	// The fallback key is regenerated on every start, so showing any part of it is useless
	if env.UsesGeneratedKey() {
		variables[0].Value = ""
	}

	return &ShowEnvironmentResult{
		Variables:    variables,
		GeneratedKey: env.UsesGeneratedKey(),
	}, nil
}

// MaskSecret keeps only enough of a secret to recognize it
func MaskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "…" + secret[len(secret)-4:]
	}
}
