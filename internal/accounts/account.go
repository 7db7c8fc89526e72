// Package accounts resolves the deployer, batch poster and validator accounts.
package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Account is an address with its private key, held only in memory.
type Account struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// SanitizePrivateKey returns key with a 0x prefix. It is idempotent.
func SanitizePrivateKey(key string) string {
	if strings.HasPrefix(key, "0x") {
		return key
	}
	return "0x" + key
}

// GeneratePrivateKey returns a fresh 0x-prefixed key from a CSPRNG.
func GeneratePrivateKey() (string, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hexutil.Encode(crypto.FromECDSA(key)), nil
}

// WithFallbackPrivateKey returns the sanitized key, or a generated one when key is empty.
func WithFallbackPrivateKey(key string) (string, error) {
	if key == "" {
		return GeneratePrivateKey()
	}
	return SanitizePrivateKey(key), nil
}

// FromPrivateKey parses a hex-encoded key, with or without 0x.
func FromPrivateKey(hexKey string) (*Account, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(SanitizePrivateKey(hexKey), "0x"))
	if err != nil {
		return nil, deployerrors.ErrInvalidPrivateKey.Wrap(err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, deployerrors.ErrInvalidPrivateKey.WithMessage("failed to get public key")
	}

	return &Account{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the account's address.
func (a *Account) Address() common.Address {
	return a.address
}

// PrivateKey returns the 0x-prefixed hex encoding of the key.
func (a *Account) PrivateKey() string {
	return hexutil.Encode(crypto.FromECDSA(a.privateKey))
}

// SignTransaction signs tx for chainID with the latest signer for that chain.
func (a *Account) SignTransaction(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(chainID)
	signedTx, err := types.SignTx(tx, signer, a.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signedTx, nil
}
