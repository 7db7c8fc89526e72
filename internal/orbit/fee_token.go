package orbit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// DefaultRetryablesFees is the fee budget the RollupCreator spends on
// retryable tickets when deploying the L2 factories (0.125 units, 18 decimals).
var DefaultRetryablesFees = new(big.Int).Div(big.NewInt(params.Ether), big.NewInt(8))

// FeeTokenParams identifies a fee token allowance check.
type FeeTokenParams struct {
	NativeToken   common.Address
	Owner         common.Address
	RollupCreator common.Address
	// Amount defaults to DefaultRetryablesFees when nil.
	Amount *big.Int
}

func (p FeeTokenParams) amount() *big.Int {
	if p.Amount == nil {
		return DefaultRetryablesFees
	}
	return p.Amount
}

// FeeTokenAllowance returns allowance(owner, rollupCreator) on the fee token.
func FeeTokenAllowance(ctx context.Context, client Client, p FeeTokenParams) (*big.Int, error) {
	data, err := ERC20ABI.Pack("allowance", p.Owner, p.RollupCreator)
	if err != nil {
		return nil, fmt.Errorf("pack allowance: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &p.NativeToken,
		Data: data,
	}, nil)
	if err != nil {
		return nil, deployerrors.RPC("call allowance", err)
	}

	var allowance *big.Int
	if err := ERC20ABI.UnpackIntoInterface(&allowance, "allowance", result); err != nil {
		return nil, deployerrors.ErrMalformedData.WithStage("unpack allowance").Wrap(err)
	}
	return allowance, nil
}

// EnoughCustomFeeTokenAllowance reports whether the owner already allows the
// RollupCreator to spend the required amount.
func EnoughCustomFeeTokenAllowance(ctx context.Context, client Client, p FeeTokenParams) (bool, error) {
	allowance, err := FeeTokenAllowance(ctx, client, p)
	if err != nil {
		return false, err
	}
	return allowance.Cmp(p.amount()) >= 0, nil
}

// PrepareCustomFeeTokenApprovalTransactionRequest prepares approve(rollupCreator, amount)
// on the fee token, sent from the owner.
func PrepareCustomFeeTokenApprovalTransactionRequest(ctx context.Context, client Client, p FeeTokenParams) (*TransactionRequest, error) {
	data, err := ERC20ABI.Pack("approve", p.RollupCreator, p.amount())
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	return PrepareTransactionRequest(ctx, client, p.Owner, p.NativeToken, data, nil)
}
