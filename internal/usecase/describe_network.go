package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/domain/models"
)

// SigningAddressFunc derives the account controlled by a hex private key
type SigningAddressFunc func(hexKey string) (string, error)

// DescribeNetworkParams contains parameters for describing the deployment network
type DescribeNetworkParams struct {
	// Probe dials the RPC endpoint to read the chain ID
	Probe bool
}

// DescribeNetworkResult contains the assembled deployment profile
type DescribeNetworkResult struct {
	Profile    *models.NetworkProfile
	ProbeError error
}

// DescribeNetwork builds the deployment network profile from the assembled environment
type DescribeNetwork struct {
	config  *config.RuntimeConfig
	prober  ChainProber
	address SigningAddressFunc
}

// NewDescribeNetwork creates a new DescribeNetwork use case
func NewDescribeNetwork(cfg *config.RuntimeConfig, prober ChainProber, address SigningAddressFunc) *DescribeNetwork {
	return &DescribeNetwork{
		config:  cfg,
		prober:  prober,
		address: address,
	}
}

// Run executes the use case. An unusable signing key fails here, since the
// environment assembler accepts any string.
func (uc *DescribeNetwork) Run(ctx context.Context, params DescribeNetworkParams) (*DescribeNetworkResult, error) {
	env := uc.config.Environment
	if env == nil {
		return nil, fmt.Errorf("environment not assembled")
	}

	deployer, err := uc.address(env.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvSigningKey, err)
	}

	profile := &models.NetworkProfile{
		Name:      uc.config.Network.Name,
		URL:       env.RPCURL,
		Accounts:  []string{env.SigningKey},
		Deployer:  deployer,
		Ephemeral: env.UsesGeneratedKey(),
		Explorer: models.ExplorerConfig{
			URL:       uc.config.Network.ExplorerURL,
			APIKey:    env.VerificationKey,
			APIKeySet: env.VerificationKey != "",
		},
	}

	result := &DescribeNetworkResult{Profile: profile}
	if !params.Probe {
		return result, nil
	}

	if profile.URL == "" {
		result.ProbeError = fmt.Errorf("%w (set %s)", domain.ErrNoRPCEndpoint, config.EnvRPCURL)
		return result, nil
	}
	chainID, err := uc.prober.ChainID(ctx, profile.URL)
	if err != nil {
		result.ProbeError = err
		return result, nil
	}
	profile.ChainID = chainID

	return result, nil
}
