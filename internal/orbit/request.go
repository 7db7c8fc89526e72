package orbit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// GasLimitBufferPercent is added on top of every gas estimate.
const GasLimitBufferPercent = 20

// TransactionRequest is a fully populated, unsigned EIP-1559 transaction.
type TransactionRequest struct {
	From      common.Address
	To        *common.Address
	Data      []byte
	Value     *big.Int
	Nonce     uint64
	Gas       uint64
	GasTipCap *big.Int
	GasFeeCap *big.Int
	ChainID   *big.Int
}

// Transaction builds the unsigned transaction for the request.
func (r *TransactionRequest) Transaction() *types.Transaction {
	value := r.Value
	if value == nil {
		value = new(big.Int)
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   r.ChainID,
		Nonce:     r.Nonce,
		GasTipCap: r.GasTipCap,
		GasFeeCap: r.GasFeeCap,
		Gas:       r.Gas,
		To:        r.To,
		Value:     value,
		Data:      r.Data,
	})
}

// PrepareTransactionRequest fills nonce, gas limit, fee caps and chain id for a call
// from `from` to `to`. Estimation failures are returned, not papered over.
func PrepareTransactionRequest(
	ctx context.Context,
	client Client,
	from common.Address,
	to common.Address,
	data []byte,
	value *big.Int,
) (*TransactionRequest, error) {
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, deployerrors.RPC("get chain id", err)
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, deployerrors.RPC("get nonce", err)
	}

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, deployerrors.RPC("suggest gas tip cap", err)
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, deployerrors.RPC("get latest header", err)
	}
	if head.BaseFee == nil {
		return nil, deployerrors.ErrRPC.WithStage("get latest header").WithMessage("parent chain does not support EIP-1559")
	}

	// feeCap = tip + 2 * baseFee
	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tipCap)

	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:      from,
		To:        &to,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		return nil, deployerrors.RPC("estimate gas", fmt.Errorf("estimate gas for %s: %w", to.Hex(), err))
	}
	gas = gas * (100 + GasLimitBufferPercent) / 100

	return &TransactionRequest{
		From:      from,
		To:        &to,
		Data:      data,
		Value:     value,
		Nonce:     nonce,
		Gas:       gas,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		ChainID:   chainID,
	}, nil
}
