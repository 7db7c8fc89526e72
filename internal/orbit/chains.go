package orbit

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// ParentChain describes a chain an Orbit rollup can settle to.
type ParentChain struct {
	ID          uint64
	Name        string
	RPCURL      string
	ExplorerURL string
	// IsArbitrum is true for Arbitrum chains, which makes the new chain an L3.
	IsArbitrum bool
	Testnet    bool
	// RollupCreator is the nitro-contracts v3.1.0 RollupCreator deployment.
	RollupCreator common.Address
	// WETH is used as the BOLD stake token.
	WETH common.Address
}

// ParentChains is the registry of supported parent chains keyed by chain id.
var ParentChains = map[uint64]ParentChain{
	1: {
		ID:            1,
		Name:          "Ethereum",
		RPCURL:        "https://eth.merkle.io",
		ExplorerURL:   "https://etherscan.io",
		RollupCreator: common.HexToAddress("0x90D68B056c411015eaE3EC0b98AD94E2C91419F1"),
		WETH:          common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	},
	11155111: {
		ID:            11155111,
		Name:          "Sepolia",
		RPCURL:        "https://sepolia.drpc.org",
		ExplorerURL:   "https://sepolia.etherscan.io",
		Testnet:       true,
		RollupCreator: common.HexToAddress("0xfb774ea8A92ae528A596c8D90CBCF1BdBc4Cee79"),
		WETH:          common.HexToAddress("0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9"),
	},
	42161: {
		ID:            42161,
		Name:          "Arbitrum One",
		RPCURL:        "https://arb1.arbitrum.io/rpc",
		ExplorerURL:   "https://arbiscan.io",
		IsArbitrum:    true,
		RollupCreator: common.HexToAddress("0x79607f00e61E6d7C0E6330bd7451f73136042a5C"),
		WETH:          common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"),
	},
	421614: {
		ID:            421614,
		Name:          "Arbitrum Sepolia",
		RPCURL:        "https://sepolia-rollup.arbitrum.io/rpc",
		ExplorerURL:   "https://sepolia.arbiscan.io",
		IsArbitrum:    true,
		Testnet:       true,
		RollupCreator: common.HexToAddress("0xd2Ec8376B1dF436fAb18120E416d3F2BeC61275b"),
		WETH:          common.HexToAddress("0x980B62Da83eFf3D4576C647993b0c1D7faf17c73"),
	},
}

// LookupParentChain returns the registry entry for chainID.
func LookupParentChain(chainID uint64) (ParentChain, error) {
	pc, ok := ParentChains[chainID]
	if !ok {
		return ParentChain{}, deployerrors.ErrUnknownParentChain.WithMessage(
			"unsupported parent chain " + strconv.FormatUint(chainID, 10) + ", supported: " + supportedChains(),
		)
	}
	return pc, nil
}

// TxURL returns the explorer link for a transaction hash.
func (p ParentChain) TxURL(hash common.Hash) string {
	return p.ExplorerURL + "/tx/" + hash.Hex()
}

// AddressURL returns the explorer link for an address.
func (p ParentChain) AddressURL(addr common.Address) string {
	return p.ExplorerURL + "/address/" + addr.Hex()
}

func supportedChains() string {
	ids := make([]uint64, 0, len(ParentChains))
	for id := range ParentChains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(names, ", ")
}
