package orbit

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// rollupCreatorABIJSON covers createRollup of the v3.1.0 RollupCreator.
const rollupCreatorABIJSON = `[{
	"type": "function",
	"name": "createRollup",
	"stateMutability": "payable",
	"inputs": [{
		"name": "deployParams",
		"type": "tuple",
		"components": [
			{"name": "config", "type": "tuple", "components": [
				{"name": "confirmPeriodBlocks", "type": "uint64"},
				{"name": "stakeToken", "type": "address"},
				{"name": "baseStake", "type": "uint256"},
				{"name": "wasmModuleRoot", "type": "bytes32"},
				{"name": "owner", "type": "address"},
				{"name": "loserStakeEscrow", "type": "address"},
				{"name": "chainId", "type": "uint256"},
				{"name": "chainConfig", "type": "string"},
				{"name": "minimumAssertionPeriod", "type": "uint256"},
				{"name": "validatorAfkBlocks", "type": "uint64"},
				{"name": "miniStakeValues", "type": "uint256[]"},
				{"name": "sequencerInboxMaxTimeVariation", "type": "tuple", "components": [
					{"name": "delayBlocks", "type": "uint256"},
					{"name": "futureBlocks", "type": "uint256"},
					{"name": "delaySeconds", "type": "uint256"},
					{"name": "futureSeconds", "type": "uint256"}
				]},
				{"name": "layerZeroBlockEdgeHeight", "type": "uint256"},
				{"name": "layerZeroBigStepEdgeHeight", "type": "uint256"},
				{"name": "layerZeroSmallStepEdgeHeight", "type": "uint256"},
				{"name": "genesisAssertionState", "type": "tuple", "components": [
					{"name": "globalState", "type": "tuple", "components": [
						{"name": "bytes32Vals", "type": "bytes32[2]"},
						{"name": "u64Vals", "type": "uint64[2]"}
					]},
					{"name": "machineStatus", "type": "uint8"},
					{"name": "endHistoryRoot", "type": "bytes32"}
				]},
				{"name": "genesisInboxCount", "type": "uint256"},
				{"name": "anyTrustFastConfirmer", "type": "address"},
				{"name": "numBigStepLevel", "type": "uint8"},
				{"name": "challengeGracePeriodBlocks", "type": "uint64"},
				{"name": "bufferConfig", "type": "tuple", "components": [
					{"name": "threshold", "type": "uint64"},
					{"name": "max", "type": "uint64"},
					{"name": "replenishRateInBasis", "type": "uint64"}
				]}
			]},
			{"name": "validators", "type": "address[]"},
			{"name": "maxDataSize", "type": "uint256"},
			{"name": "nativeToken", "type": "address"},
			{"name": "deployFactoriesToL2", "type": "bool"},
			{"name": "maxFeePerGasForRetryables", "type": "uint256"},
			{"name": "batchPosters", "type": "address[]"},
			{"name": "batchPosterManager", "type": "address"},
			{"name": "feeTokenPricer", "type": "address"},
			{"name": "customOsp", "type": "address"}
		]
	}],
	"outputs": [{"name": "", "type": "address"}]
}]`

const erc20ABIJSON = `[{
	"type": "function",
	"name": "allowance",
	"stateMutability": "view",
	"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}],
	"outputs": [{"name": "", "type": "uint256"}]
}, {
	"type": "function",
	"name": "approve",
	"stateMutability": "nonpayable",
	"inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}],
	"outputs": [{"name": "", "type": "bool"}]
}]`

// RollupCreated event signatures. v3 (BOLD) dropped validatorUtils.
const (
	rollupCreatedV3Signature = "RollupCreated(address,address,address,address,address,address,address,address,address,address,address)"
	rollupCreatedV2Signature = "RollupCreated(address,address,address,address,address,address,address,address,address,address,address,address)"
)

var (
	// RollupCreatorABI is the parsed RollupCreator interface.
	RollupCreatorABI = mustParseABI("RollupCreator", rollupCreatorABIJSON)
	// ERC20ABI is the subset of ERC-20 used for fee token allowances.
	ERC20ABI = mustParseABI("ERC20", erc20ABIJSON)

	// RollupCreatedV3Topic is topic0 of the nitro-contracts v3 RollupCreated event.
	RollupCreatedV3Topic = crypto.Keccak256Hash([]byte(rollupCreatedV3Signature))
	// RollupCreatedV2Topic is topic0 of the nitro-contracts v1/v2 RollupCreated event.
	RollupCreatedV2Topic = crypto.Keccak256Hash([]byte(rollupCreatedV2Signature))
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s ABI: %v", name, err))
	}
	return parsed
}
