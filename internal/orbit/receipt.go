package orbit

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// CoreContracts are the addresses deployed by a single createRollup call.
type CoreContracts struct {
	Rollup                 common.Address `json:"rollup"`
	NativeToken            common.Address `json:"nativeToken"`
	Inbox                  common.Address `json:"inbox"`
	Outbox                 common.Address `json:"outbox"`
	RollupEventInbox       common.Address `json:"rollupEventInbox"`
	ChallengeManager       common.Address `json:"challengeManager"`
	AdminProxy             common.Address `json:"adminProxy"`
	SequencerInbox         common.Address `json:"sequencerInbox"`
	Bridge                 common.Address `json:"bridge"`
	UpgradeExecutor        common.Address `json:"upgradeExecutor"`
	ValidatorUtils         common.Address `json:"validatorUtils"` // zero for nitro-contracts v3
	ValidatorWalletCreator common.Address `json:"validatorWalletCreator"`
	DeployedAtBlockNumber  uint64         `json:"deployedAtBlockNumber"`
}

// TransactionReceipt wraps a confirmed receipt with Orbit-specific accessors.
type TransactionReceipt struct {
	*types.Receipt
}

// NewTransactionReceipt wraps r.
func NewTransactionReceipt(r *types.Receipt) *TransactionReceipt {
	return &TransactionReceipt{Receipt: r}
}

// TransactionHash returns the hash of the transaction the receipt belongs to.
func (r *TransactionReceipt) TransactionHash() common.Hash {
	return r.TxHash
}

// BlockNumberUint64 returns the block the transaction was included in.
func (r *TransactionReceipt) BlockNumberUint64() uint64 {
	if r.BlockNumber == nil {
		return 0
	}
	return r.BlockNumber.Uint64()
}

// CoreContracts decodes the RollupCreated event of the receipt.
func (r *TransactionReceipt) CoreContracts() (*CoreContracts, error) {
	for _, log := range r.Logs {
		if len(log.Topics) != 3 {
			continue
		}

		var contracts *CoreContracts
		var err error
		switch log.Topics[0] {
		case RollupCreatedV3Topic:
			contracts, err = decodeRollupCreated(log, false)
		case RollupCreatedV2Topic:
			contracts, err = decodeRollupCreated(log, true)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}

		contracts.DeployedAtBlockNumber = r.BlockNumberUint64()
		return contracts, nil
	}

	return nil, deployerrors.ErrNotRollupCreation.WithMessage(
		fmt.Sprintf("RollupCreated event not found in logs of %s", r.TxHash.Hex()),
	)
}

// decodeRollupCreated reads the indexed rollup and nativeToken from the
// topics and the remaining addresses, one word each, from the data.
func decodeRollupCreated(log *types.Log, withValidatorUtils bool) (*CoreContracts, error) {
	words := 9
	if withValidatorUtils {
		words = 10
	}
	if len(log.Data) != words*32 {
		return nil, deployerrors.ErrMalformedData.WithStage("decode RollupCreated").WithMessage(
			fmt.Sprintf("expected %d bytes of event data, got %d", words*32, len(log.Data)),
		)
	}

	word := func(i int) common.Address {
		return common.BytesToAddress(log.Data[i*32 : (i+1)*32])
	}

	c := &CoreContracts{
		Rollup:           common.BytesToAddress(log.Topics[1].Bytes()),
		NativeToken:      common.BytesToAddress(log.Topics[2].Bytes()),
		Inbox:            word(0),
		Outbox:           word(1),
		RollupEventInbox: word(2),
		ChallengeManager: word(3),
		AdminProxy:       word(4),
		SequencerInbox:   word(5),
		Bridge:           word(6),
		UpgradeExecutor:  word(7),
	}
	if withValidatorUtils {
		c.ValidatorUtils = word(8)
		c.ValidatorWalletCreator = word(9)
	} else {
		c.ValidatorWalletCreator = word(8)
	}
	return c, nil
}
