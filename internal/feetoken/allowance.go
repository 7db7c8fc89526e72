// Package feetoken makes sure the deployer's custom fee token allowance covers
// the RollupCreator's retryable fees before deployment.
package feetoken

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/txmgr"
)

// Confirmer broadcasts a prepared request and waits for it.
type Confirmer interface {
	SignAndConfirm(ctx context.Context, req *orbit.TransactionRequest, signer txmgr.Signer) (*orbit.TransactionReceipt, error)
}

// Result describes what Ensure did.
type Result struct {
	// Approved is true when an approval transaction was confirmed.
	Approved bool
	TxHash   common.Hash
}

// AllowanceManager checks and raises fee token allowances.
type AllowanceManager struct {
	client    orbit.Client
	confirmer Confirmer
	parent    orbit.ParentChain
	logger    *slog.Logger
}

// NewAllowanceManager creates an allowance manager.
func NewAllowanceManager(client orbit.Client, confirmer Confirmer, parent orbit.ParentChain, logger *slog.Logger) *AllowanceManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllowanceManager{
		client:    client,
		confirmer: confirmer,
		parent:    parent,
		logger:    logger,
	}
}

// Ensure approves rollupCreator to spend the fee token of deployer when the
// current allowance is below amount (nil for the default retryable fees).
// The check is re-run on every call and is not atomic with the approval.
func (m *AllowanceManager) Ensure(
	ctx context.Context,
	nativeToken common.Address,
	rollupCreator common.Address,
	deployer txmgr.Signer,
	amount *big.Int,
) (*Result, error) {
	params := orbit.FeeTokenParams{
		NativeToken:   nativeToken,
		Owner:         deployer.Address(),
		RollupCreator: rollupCreator,
		Amount:        amount,
	}

	enough, err := orbit.EnoughCustomFeeTokenAllowance(ctx, m.client, params)
	if err != nil {
		return nil, err
	}
	if enough {
		m.logger.Info("fee token allowance sufficient",
			slog.String("native_token", nativeToken.Hex()),
			slog.String("spender", rollupCreator.Hex()),
		)
		return &Result{}, nil
	}

	req, err := orbit.PrepareCustomFeeTokenApprovalTransactionRequest(ctx, m.client, params)
	if err != nil {
		return nil, err
	}

	receipt, err := m.confirmer.SignAndConfirm(ctx, req, deployer)
	if err != nil {
		return nil, err
	}

	m.logger.Info("Tokens approved",
		slog.String("native_token", nativeToken.Hex()),
		slog.String("tx_hash", receipt.TransactionHash().Hex()),
		slog.String("explorer", m.parent.TxURL(receipt.TransactionHash())),
	)

	return &Result{Approved: true, TxHash: receipt.TransactionHash()}, nil
}
