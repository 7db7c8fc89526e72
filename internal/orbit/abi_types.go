package orbit

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ABI types for RollupCreator.createRollup (nitro-contracts v3.1.0, BOLD).
// Field order must follow the Solidity structs; abi tags carry the Solidity names.

// GlobalState is the machine global state of an assertion.
type GlobalState struct {
	Bytes32Vals [2][32]byte `abi:"bytes32Vals"`
	U64Vals     [2]uint64   `abi:"u64Vals"`
}

// AssertionState is the state committed by an assertion.
type AssertionState struct {
	GlobalState    GlobalState `abi:"globalState"`
	MachineStatus  uint8       `abi:"machineStatus"`
	EndHistoryRoot [32]byte    `abi:"endHistoryRoot"`
}

// MaxTimeVariation bounds how far sequencer messages may drift.
type MaxTimeVariation struct {
	DelayBlocks   *big.Int `abi:"delayBlocks"`
	FutureBlocks  *big.Int `abi:"futureBlocks"`
	DelaySeconds  *big.Int `abi:"delaySeconds"`
	FutureSeconds *big.Int `abi:"futureSeconds"`
}

// BufferConfig is the sequencer inbox delay buffer. Zero disables it.
type BufferConfig struct {
	Threshold            uint64 `abi:"threshold"`
	Max                  uint64 `abi:"max"`
	ReplenishRateInBasis uint64 `abi:"replenishRateInBasis"`
}

// RollupConfig is the Config struct of createRollup.
type RollupConfig struct {
	ConfirmPeriodBlocks            uint64           `abi:"confirmPeriodBlocks"`
	StakeToken                     common.Address   `abi:"stakeToken"`
	BaseStake                      *big.Int         `abi:"baseStake"`
	WasmModuleRoot                 [32]byte         `abi:"wasmModuleRoot"`
	Owner                          common.Address   `abi:"owner"`
	LoserStakeEscrow               common.Address   `abi:"loserStakeEscrow"`
	ChainId                        *big.Int         `abi:"chainId"`
	ChainConfig                    string           `abi:"chainConfig"`
	MinimumAssertionPeriod         *big.Int         `abi:"minimumAssertionPeriod"`
	ValidatorAfkBlocks             uint64           `abi:"validatorAfkBlocks"`
	MiniStakeValues                []*big.Int       `abi:"miniStakeValues"`
	SequencerInboxMaxTimeVariation MaxTimeVariation `abi:"sequencerInboxMaxTimeVariation"`
	LayerZeroBlockEdgeHeight       *big.Int         `abi:"layerZeroBlockEdgeHeight"`
	LayerZeroBigStepEdgeHeight     *big.Int         `abi:"layerZeroBigStepEdgeHeight"`
	LayerZeroSmallStepEdgeHeight   *big.Int         `abi:"layerZeroSmallStepEdgeHeight"`
	GenesisAssertionState          AssertionState   `abi:"genesisAssertionState"`
	GenesisInboxCount              *big.Int         `abi:"genesisInboxCount"`
	AnyTrustFastConfirmer          common.Address   `abi:"anyTrustFastConfirmer"`
	NumBigStepLevel                uint8            `abi:"numBigStepLevel"`
	ChallengeGracePeriodBlocks     uint64           `abi:"challengeGracePeriodBlocks"`
	BufferConfig                   BufferConfig     `abi:"bufferConfig"`
}

// RollupDeploymentParams is the single tuple argument of createRollup.
type RollupDeploymentParams struct {
	Config                    RollupConfig     `abi:"config"`
	Validators                []common.Address `abi:"validators"`
	MaxDataSize               *big.Int         `abi:"maxDataSize"`
	NativeToken               common.Address   `abi:"nativeToken"`
	DeployFactoriesToL2       bool             `abi:"deployFactoriesToL2"`
	MaxFeePerGasForRetryables *big.Int         `abi:"maxFeePerGasForRetryables"`
	BatchPosters              []common.Address `abi:"batchPosters"`
	BatchPosterManager        common.Address   `abi:"batchPosterManager"`
	FeeTokenPricer            common.Address   `abi:"feeTokenPricer"`
	CustomOsp                 common.Address   `abi:"customOsp"`
}
