package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// ChainProberAdapter reads chain information over JSON-RPC using ethclient
type ChainProberAdapter struct {
	timeout time.Duration
}

// NewChainProberAdapter creates a new chain prober
func NewChainProberAdapter() *ChainProberAdapter {
	return &ChainProberAdapter{timeout: 10 * time.Second}
}

// ChainID dials rpcURL and returns the chain ID it reports
func (p *ChainProberAdapter) ChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Ensure the adapter implements the interface
var _ usecase.ChainProber = (*ChainProberAdapter)(nil)
