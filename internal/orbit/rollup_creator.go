package orbit

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// BOLD deployment defaults.
const (
	// DefaultConfirmPeriodBlocks is ~1 week of Ethereum blocks.
	DefaultConfirmPeriodBlocks = 45818
	// TestnetConfirmPeriodBlocks is used when the parent chain is a testnet.
	TestnetConfirmPeriodBlocks = 150
	DefaultMaxDataSize         = 117964
	// L3MaxDataSize applies when the parent chain is itself an Arbitrum chain.
	L3MaxDataSize = 104857

	DefaultMinimumAssertionPeriod = 75
	// DefaultValidatorAfkBlocks is ~28 days.
	DefaultValidatorAfkBlocks           = 201600
	DefaultLayerZeroBlockEdgeHeight     = 1 << 25
	DefaultLayerZeroBigStepEdgeHeight   = 1 << 19
	DefaultLayerZeroSmallStepEdgeHeight = 1 << 23
	DefaultNumBigStepLevel              = 3
	// DefaultChallengeGracePeriodBlocks is ~2 days.
	DefaultChallengeGracePeriodBlocks = 14400

	machineStatusFinished = 1
)

var (
	// DefaultWasmModuleRoot is the module root of Nitro consensus-v51.
	DefaultWasmModuleRoot = common.HexToHash("0x8a7513bf7bb3e3db04b0d982d0e973bcf57bf8b88aef7c6d03dba3a81a56a499")
	// DefaultBaseStake is 0.1 of the stake token.
	DefaultBaseStake = new(big.Int).Div(big.NewInt(params.Ether), big.NewInt(10))
	// DefaultMaxFeePerGasForRetryables is 0.1 gwei.
	DefaultMaxFeePerGasForRetryables = big.NewInt(100_000_000)
)

// DeploymentConfigParams are the caller-supplied values of the rollup config.
type DeploymentConfigParams struct {
	ChainID     uint64
	Owner       common.Address
	ChainConfig ChainConfig
	// StakeToken defaults to the parent chain's WETH.
	StakeToken common.Address
	// BaseStake defaults to DefaultBaseStake.
	BaseStake *big.Int
}

// PrepareDeploymentParamsConfig builds the rollup config with defaults for the parent chain.
func PrepareDeploymentParamsConfig(parent ParentChain, p DeploymentConfigParams) (RollupConfig, error) {
	chainConfigJSON, err := p.ChainConfig.JSON()
	if err != nil {
		return RollupConfig{}, err
	}

	confirmPeriod := uint64(DefaultConfirmPeriodBlocks)
	if parent.Testnet {
		confirmPeriod = TestnetConfirmPeriodBlocks
	}

	stakeToken := p.StakeToken
	if stakeToken == (common.Address{}) {
		stakeToken = parent.WETH
	}

	baseStake := p.BaseStake
	if baseStake == nil {
		baseStake = DefaultBaseStake
	}

	// EdgeChallengeManager needs numBigStepLevel + 2 stake amounts.
	miniStake := new(big.Int).Div(baseStake, big.NewInt(10))
	miniStakeValues := make([]*big.Int, DefaultNumBigStepLevel+2)
	for i := range miniStakeValues {
		miniStakeValues[i] = new(big.Int).Set(miniStake)
	}

	return RollupConfig{
		ConfirmPeriodBlocks:    confirmPeriod,
		StakeToken:             stakeToken,
		BaseStake:              new(big.Int).Set(baseStake),
		WasmModuleRoot:         DefaultWasmModuleRoot,
		Owner:                  p.Owner,
		LoserStakeEscrow:       p.Owner,
		ChainId:                new(big.Int).SetUint64(p.ChainID),
		ChainConfig:            chainConfigJSON,
		MinimumAssertionPeriod: big.NewInt(DefaultMinimumAssertionPeriod),
		ValidatorAfkBlocks:     DefaultValidatorAfkBlocks,
		MiniStakeValues:        miniStakeValues,
		SequencerInboxMaxTimeVariation: MaxTimeVariation{
			DelayBlocks:   big.NewInt(5760),
			FutureBlocks:  big.NewInt(64),
			DelaySeconds:  big.NewInt(86400),
			FutureSeconds: big.NewInt(3600),
		},
		LayerZeroBlockEdgeHeight:     big.NewInt(DefaultLayerZeroBlockEdgeHeight),
		LayerZeroBigStepEdgeHeight:   big.NewInt(DefaultLayerZeroBigStepEdgeHeight),
		LayerZeroSmallStepEdgeHeight: big.NewInt(DefaultLayerZeroSmallStepEdgeHeight),
		GenesisAssertionState: AssertionState{
			MachineStatus: machineStatusFinished,
		},
		GenesisInboxCount:          big.NewInt(1),
		NumBigStepLevel:            DefaultNumBigStepLevel,
		ChallengeGracePeriodBlocks: DefaultChallengeGracePeriodBlocks,
	}, nil
}

// CreateRollupParams are the createRollup inputs chosen by the caller.
type CreateRollupParams struct {
	Config       RollupConfig
	BatchPosters []common.Address
	Validators   []common.Address
	// NativeToken is set only for custom fee token chains.
	NativeToken *common.Address
}

// CreateRollupRequestParams selects the RollupCreator and parent chain for a createRollup call.
type CreateRollupRequestParams struct {
	Params        CreateRollupParams
	Account       common.Address
	ParentChain   ParentChain
	RollupCreator common.Address
}

// DeploymentParams fills the remaining createRollup fields with defaults.
func (p CreateRollupParams) DeploymentParams(parent ParentChain, owner common.Address) RollupDeploymentParams {
	maxDataSize := int64(DefaultMaxDataSize)
	if parent.IsArbitrum {
		maxDataSize = L3MaxDataSize
	}

	nativeToken := common.Address{}
	if p.NativeToken != nil {
		nativeToken = *p.NativeToken
	}

	return RollupDeploymentParams{
		Config:                    p.Config,
		Validators:                p.Validators,
		MaxDataSize:               big.NewInt(maxDataSize),
		NativeToken:               nativeToken,
		DeployFactoriesToL2:       true,
		MaxFeePerGasForRetryables: new(big.Int).Set(DefaultMaxFeePerGasForRetryables),
		BatchPosters:              p.BatchPosters,
		BatchPosterManager:        owner,
	}
}

// RetryablesValue is the ETH attached to createRollup. Custom fee token chains
// pay retryables in the token through the allowance, so they attach nothing.
func (d RollupDeploymentParams) RetryablesValue() *big.Int {
	if d.DeployFactoriesToL2 && d.NativeToken == (common.Address{}) {
		return new(big.Int).Set(DefaultRetryablesFees)
	}
	return new(big.Int)
}

// EncodeCreateRollup packs the createRollup call data.
func EncodeCreateRollup(d RollupDeploymentParams) ([]byte, error) {
	data, err := RollupCreatorABI.Pack("createRollup", d)
	if err != nil {
		return nil, fmt.Errorf("pack createRollup: %w", err)
	}
	return data, nil
}

// PrepareCreateRollupTransactionRequest prepares the createRollup transaction from the account.
func PrepareCreateRollupTransactionRequest(ctx context.Context, client Client, p CreateRollupRequestParams) (*TransactionRequest, error) {
	if p.RollupCreator == (common.Address{}) {
		p.RollupCreator = p.ParentChain.RollupCreator
	}
	if p.RollupCreator == (common.Address{}) {
		return nil, deployerrors.ErrUnknownParentChain.WithMessage("no RollupCreator known for parent chain " + p.ParentChain.Name)
	}

	deployParams := p.Params.DeploymentParams(p.ParentChain, p.Account)
	data, err := EncodeCreateRollup(deployParams)
	if err != nil {
		return nil, err
	}

	return PrepareTransactionRequest(ctx, client, p.Account, p.RollupCreator, data, deployParams.RetryablesValue())
}

// DecodeCreateRollup unpacks createRollup call data.
func DecodeCreateRollup(data []byte) (decoded *RollupDeploymentParams, err error) {
	method := RollupCreatorABI.Methods["createRollup"]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return nil, deployerrors.ErrInvalidTransaction
	}

	vals, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, deployerrors.ErrInvalidTransaction.Wrap(err)
	}
	if len(vals) != 1 {
		return nil, deployerrors.ErrInvalidTransaction.WithMessage(fmt.Sprintf("expected 1 argument, got %d", len(vals)))
	}

	// abi.ConvertType panics on layout mismatch.
	defer func() {
		if r := recover(); r != nil {
			decoded = nil
			err = deployerrors.ErrInvalidTransaction.Wrap(fmt.Errorf("convert deploy params: %v", r))
		}
	}()
	return abi.ConvertType(vals[0], new(RollupDeploymentParams)).(*RollupDeploymentParams), nil
}

// DecodedCreateRollup is a createRollup transaction read back from the parent chain.
type DecodedCreateRollup struct {
	RollupCreator common.Address
	Params        RollupDeploymentParams
	ChainConfig   ChainConfig
}

// DecodeCreateRollupTransaction decodes the call data and embedded chain config of tx.
func DecodeCreateRollupTransaction(tx *types.Transaction) (*DecodedCreateRollup, error) {
	if tx.To() == nil {
		return nil, deployerrors.ErrInvalidTransaction.WithMessage("transaction is a contract creation")
	}

	deployParams, err := DecodeCreateRollup(tx.Data())
	if err != nil {
		return nil, err
	}

	chainConfig, err := ParseChainConfig(deployParams.Config.ChainConfig)
	if err != nil {
		return nil, err
	}

	return &DecodedCreateRollup{
		RollupCreator: *tx.To(),
		Params:        *deployParams,
		ChainConfig:   chainConfig,
	}, nil
}
