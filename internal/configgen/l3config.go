// Package configgen derives the node and application configuration of a
// deployed chain from its chain config and core contracts.
package configgen

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
)

// DefaultMinL2BaseFee is 0.1 gwei.
const DefaultMinL2BaseFee = 100000000

// L3Config is the l3-config.json consumed by the chain's token bridge and
// infrastructure tooling. Field order is part of the file format.
type L3Config struct {
	NetworkFeeReceiver         string `json:"networkFeeReceiver"`
	InfrastructureFeeCollector string `json:"infrastructureFeeCollector"`
	Staker                     string `json:"staker"`
	BatchPoster                string `json:"batchPoster"`
	ChainOwner                 string `json:"chainOwner"`
	ChainID                    uint64 `json:"chainId"`
	ChainName                  string `json:"chainName"`
	MinL2BaseFee               uint64 `json:"minL2BaseFee"`
	ParentChainID              uint64 `json:"parentChainId"`
	ParentChainNodeURL         string `json:"parent-chain-node-url"`
	Utils                      string `json:"utils"`
	Rollup                     string `json:"rollup"`
	Inbox                      string `json:"inbox"`
	NativeToken                string `json:"nativeToken"`
	Outbox                     string `json:"outbox"`
	RollupEventInbox           string `json:"rollupEventInbox"`
	ChallengeManager           string `json:"challengeManager"`
	AdminProxy                 string `json:"adminProxy"`
	SequencerInbox             string `json:"sequencerInbox"`
	Bridge                     string `json:"bridge"`
	UpgradeExecutor            string `json:"upgradeExecutor"`
	ValidatorUtils             string `json:"validatorUtils"`
	ValidatorWalletCreator     string `json:"validatorWalletCreator"`
	DeployedAtBlockNumber      string `json:"deployedAtBlockNumber"`
}

// L3Params are the inputs of BuildL3Config.
type L3Params struct {
	Deployer           common.Address
	Staker             common.Address
	BatchPoster        common.Address
	ChainConfig        orbit.ChainConfig
	ChainName          string
	ParentChainID      uint64
	ParentChainNodeURL string
	CoreContracts      *orbit.CoreContracts
}

// BuildL3Config maps the deployment outcome to the l3 config. The deployer
// receives network and infrastructure fees and owns the chain.
func BuildL3Config(p L3Params) L3Config {
	c := p.CoreContracts
	return L3Config{
		NetworkFeeReceiver:         p.Deployer.Hex(),
		InfrastructureFeeCollector: p.Deployer.Hex(),
		Staker:                     p.Staker.Hex(),
		BatchPoster:                p.BatchPoster.Hex(),
		ChainOwner:                 p.Deployer.Hex(),
		ChainID:                    p.ChainConfig.ChainID,
		ChainName:                  p.ChainName,
		MinL2BaseFee:               DefaultMinL2BaseFee,
		ParentChainID:              p.ParentChainID,
		ParentChainNodeURL:         p.ParentChainNodeURL,
		Utils:                      c.ValidatorUtils.Hex(),
		Rollup:                     c.Rollup.Hex(),
		Inbox:                      c.Inbox.Hex(),
		NativeToken:                c.NativeToken.Hex(),
		Outbox:                     c.Outbox.Hex(),
		RollupEventInbox:           c.RollupEventInbox.Hex(),
		ChallengeManager:           c.ChallengeManager.Hex(),
		AdminProxy:                 c.AdminProxy.Hex(),
		SequencerInbox:             c.SequencerInbox.Hex(),
		Bridge:                     c.Bridge.Hex(),
		UpgradeExecutor:            c.UpgradeExecutor.Hex(),
		ValidatorUtils:             c.ValidatorUtils.Hex(),
		ValidatorWalletCreator:     c.ValidatorWalletCreator.Hex(),
		DeployedAtBlockNumber:      strconv.FormatUint(c.DeployedAtBlockNumber, 10),
	}
}
