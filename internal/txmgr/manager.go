// Package txmgr signs, broadcasts and confirms parent chain transactions.
package txmgr

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Signer signs transactions for an account.
type Signer interface {
	Address() common.Address
	SignTransaction(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Manager drives a prepared request to a confirmed receipt. It never retries.
type Manager struct {
	client orbit.Client
	logger *slog.Logger
}

// NewManager creates a transaction manager on client.
func NewManager(client orbit.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client: client,
		logger: logger,
	}
}

// Sign signs req with signer and returns the signed transaction and its raw encoding.
func (m *Manager) Sign(ctx context.Context, req *orbit.TransactionRequest, signer Signer) (*types.Transaction, []byte, error) {
	if req.From != signer.Address() {
		return nil, nil, fmt.Errorf("request from %s cannot be signed by %s", req.From.Hex(), signer.Address().Hex())
	}

	signedTx, err := signer.SignTransaction(ctx, req.Transaction(), req.ChainID)
	if err != nil {
		return nil, nil, err
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("encode signed transaction: %w", err)
	}
	return signedTx, raw, nil
}

// SignAndConfirm signs, broadcasts and waits for the receipt of req.
// The wait has no timeout of its own; it ends when ctx is cancelled.
func (m *Manager) SignAndConfirm(ctx context.Context, req *orbit.TransactionRequest, signer Signer) (*orbit.TransactionReceipt, error) {
	signedTx, raw, err := m.Sign(ctx, req, signer)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("signed transaction",
		slog.String("tx_hash", signedTx.Hash().Hex()),
		slog.String("raw", hexutil.Encode(raw)),
	)

	if err := m.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, deployerrors.RPC("send transaction", err)
	}

	m.logger.Info("transaction submitted, waiting for confirmation",
		slog.String("tx_hash", signedTx.Hash().Hex()),
		slog.Uint64("nonce", signedTx.Nonce()),
		slog.Uint64("gas_limit", signedTx.Gas()),
	)

	receipt, err := bind.WaitMined(ctx, m.client, signedTx)
	if err != nil {
		return nil, deployerrors.RPC("wait for receipt", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, deployerrors.ErrTransactionReverted.WithMessage(
			fmt.Sprintf("transaction %s reverted in block %s", signedTx.Hash().Hex(), receipt.BlockNumber),
		)
	}

	m.logger.Info("transaction confirmed",
		slog.String("tx_hash", signedTx.Hash().Hex()),
		slog.Uint64("block_number", receipt.BlockNumber.Uint64()),
		slog.Uint64("gas_used", receipt.GasUsed),
	)

	return orbit.NewTransactionReceipt(receipt), nil
}
