package config

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/abiemit/internal/domain"
)

// GenerateSigningKey returns a new 0x-prefixed secp256k1 private key
func GenerateSigningKey() (string, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate signing key: %w", err)
	}
	return hexutil.Encode(crypto.FromECDSA(key)), nil
}

// ParseSigningKey decodes a hex private key, with or without 0x prefix
func ParseSigningKey(hexKey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty key", domain.ErrInvalidSigningKey)
	}
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSigningKey, err)
	}
	return key, nil
}

// SigningAddress returns the account controlled by hexKey
func SigningAddress(hexKey string) (common.Address, error) {
	key, err := ParseSigningKey(hexKey)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
