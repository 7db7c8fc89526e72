package orbit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Node defaults for a freshly deployed chain.
const (
	DefaultNodeHTTPPort          = 8449
	DefaultBatchPosterMaxSize    = 90000
	DefaultSequencerMaxTxData    = 85000
	DefaultSequencerMaxBlockTime = "250ms"
	// DefaultDASURL is the local data availability server started next to the node.
	DefaultDASURL = "http://localhost:9876"
	// placeholderDASPubKey is replaced by the committee key once keyset setup runs.
	placeholderDASPubKey = "YAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

// NodeConfig is the node-config.json consumed by nitro.
type NodeConfig struct {
	Chain       NodeChainConfig       `json:"chain"`
	ParentChain NodeParentChainConfig `json:"parent-chain"`
	HTTP        NodeHTTPConfig        `json:"http"`
	Node        NodeSettings          `json:"node"`
	Execution   ExecutionConfig       `json:"execution"`
}

// NodeChainConfig identifies the chain the node serves.
type NodeChainConfig struct {
	InfoJSON string `json:"info-json"`
	Name     string `json:"name"`
}

// NodeParentChainConfig contains parent chain connection settings.
type NodeParentChainConfig struct {
	Connection ConnectionConfig `json:"connection"`
}

// ConnectionConfig is an RPC endpoint.
type ConnectionConfig struct {
	URL string `json:"url"`
}

// NodeHTTPConfig contains the node's JSON-RPC server settings.
type NodeHTTPConfig struct {
	Addr       string   `json:"addr"`
	Port       int      `json:"port"`
	VHosts     string   `json:"vhosts"`
	Corsdomain string   `json:"corsdomain"`
	API        []string `json:"api"`
}

// NodeSettings configures the sequencer, batch poster and staker roles.
type NodeSettings struct {
	Sequencer        bool                    `json:"sequencer"`
	DelayedSequencer DelayedSequencerConfig  `json:"delayed-sequencer"`
	BatchPoster      BatchPosterConfig       `json:"batch-poster"`
	Staker           StakerConfig            `json:"staker"`
	Dangerous        DangerousConfig         `json:"dangerous"`
	DataAvailability *DataAvailabilityConfig `json:"data-availability,omitempty"`
}

// DelayedSequencerConfig controls inclusion of delayed inbox messages.
type DelayedSequencerConfig struct {
	Enable           bool `json:"enable"`
	UseMergeFinality bool `json:"use-merge-finality"`
	FinalizeDistance int  `json:"finalize-distance"`
}

// BatchPosterConfig contains batch poster settings.
type BatchPosterConfig struct {
	MaxSize           int          `json:"max-size"`
	Enable            bool         `json:"enable"`
	ParentChainWallet WalletConfig `json:"parent-chain-wallet"`
}

// StakerConfig contains validator settings.
type StakerConfig struct {
	Enable            bool         `json:"enable"`
	Strategy          string       `json:"strategy"`
	ParentChainWallet WalletConfig `json:"parent-chain-wallet"`
}

// WalletConfig holds a parent chain signing key without the 0x prefix.
type WalletConfig struct {
	PrivateKey string `json:"private-key"`
}

// DangerousConfig contains settings nitro marks as unsafe for production.
type DangerousConfig struct {
	NoSequencerCoordinator bool `json:"no-sequencer-coordinator"`
}

// DataAvailabilityConfig connects an AnyTrust node to its committee.
type DataAvailabilityConfig struct {
	Enable                bool                 `json:"enable"`
	SequencerInboxAddress string               `json:"sequencer-inbox-address"`
	ParentChainNodeURL    string               `json:"parent-chain-node-url"`
	RestAggregator        RestAggregatorConfig `json:"rest-aggregator"`
	RPCAggregator         RPCAggregatorConfig  `json:"rpc-aggregator"`
}

// RestAggregatorConfig lists the REST endpoints used to fetch batch data.
type RestAggregatorConfig struct {
	Enable bool     `json:"enable"`
	URLs   []string `json:"urls"`
}

// RPCAggregatorConfig lists the committee members batches are stored with.
type RPCAggregatorConfig struct {
	Enable        bool   `json:"enable"`
	AssumedHonest int    `json:"assumed-honest"`
	Backends      string `json:"backends"`
}

// DASBackend is one committee member of the rpc aggregator.
type DASBackend struct {
	URL        string `json:"url"`
	PubKey     string `json:"pubkey"`
	SignerMask int    `json:"signermask"`
}

// ExecutionConfig contains execution client settings.
type ExecutionConfig struct {
	ForwardingTarget string                   `json:"forwarding-target"`
	Sequencer        ExecutionSequencerConfig `json:"sequencer"`
	Caching          CachingConfig            `json:"caching"`
}

// ExecutionSequencerConfig contains sequencer block production limits.
type ExecutionSequencerConfig struct {
	Enable        bool   `json:"enable"`
	MaxTxDataSize int    `json:"max-tx-data-size"`
	MaxBlockSpeed string `json:"max-block-speed"`
}

// CachingConfig controls state retention.
type CachingConfig struct {
	Archive bool `json:"archive"`
}

// ChainInfo is one entry of the chain.info-json array.
type ChainInfo struct {
	ChainID               uint64          `json:"chain-id"`
	ParentChainID         uint64          `json:"parent-chain-id"`
	ParentChainIsArbitrum bool            `json:"parent-chain-is-arbitrum"`
	ChainName             string          `json:"chain-name"`
	ChainConfig           ChainConfig     `json:"chain-config"`
	Rollup                ChainInfoRollup `json:"rollup"`
}

// ChainInfoRollup holds the core contract addresses of a ChainInfo entry.
type ChainInfoRollup struct {
	Bridge                 string `json:"bridge"`
	Inbox                  string `json:"inbox"`
	SequencerInbox         string `json:"sequencer-inbox"`
	Rollup                 string `json:"rollup"`
	ValidatorUtils         string `json:"validator-utils"`
	ValidatorWalletCreator string `json:"validator-wallet-creator"`
	DeployedAt             uint64 `json:"deployed-at"`
}

// NodeConfigParams are the inputs of PrepareNodeConfig.
type NodeConfigParams struct {
	ChainName             string         `validate:"required"`
	ChainConfig           ChainConfig
	CoreContracts         *CoreContracts `validate:"required"`
	BatchPosterPrivateKey string         `validate:"required"`
	ValidatorPrivateKey   string         `validate:"required"`
	ParentChainID         uint64         `validate:"required"`
	ParentChainRPCURL     string         `validate:"required"`
}

var nodeConfigValidate = validator.New()

// PrepareNodeConfig builds the nitro node config for a sequencer, batch poster
// and staker running on one machine.
func PrepareNodeConfig(p NodeConfigParams) (*NodeConfig, error) {
	if err := nodeConfigValidate.Struct(p); err != nil {
		return nil, deployerrors.ErrPrecondition.WithStage("prepare node config").Wrap(err)
	}

	parent, known := ParentChains[p.ParentChainID]
	// Unknown parent chains are local test networks (nitro-testnode), which are Arbitrum-like.
	isArbitrum := !known || parent.IsArbitrum

	c := p.CoreContracts
	info := []ChainInfo{{
		ChainID:               p.ChainConfig.ChainID,
		ParentChainID:         p.ParentChainID,
		ParentChainIsArbitrum: isArbitrum,
		ChainName:             p.ChainName,
		ChainConfig:           p.ChainConfig,
		Rollup: ChainInfoRollup{
			Bridge:                 c.Bridge.Hex(),
			Inbox:                  c.Inbox.Hex(),
			SequencerInbox:         c.SequencerInbox.Hex(),
			Rollup:                 c.Rollup.Hex(),
			ValidatorUtils:         c.ValidatorUtils.Hex(),
			ValidatorWalletCreator: c.ValidatorWalletCreator.Hex(),
			DeployedAt:             c.DeployedAtBlockNumber,
		},
	}}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal chain info: %w", err)
	}

	cfg := &NodeConfig{
		Chain: NodeChainConfig{
			InfoJSON: string(infoJSON),
			Name:     p.ChainName,
		},
		ParentChain: NodeParentChainConfig{
			Connection: ConnectionConfig{URL: p.ParentChainRPCURL},
		},
		HTTP: NodeHTTPConfig{
			Addr:       "0.0.0.0",
			Port:       DefaultNodeHTTPPort,
			VHosts:     "*",
			Corsdomain: "*",
			API:        []string{"eth", "net", "web3", "arb", "debug"},
		},
		Node: NodeSettings{
			Sequencer: true,
			DelayedSequencer: DelayedSequencerConfig{
				Enable:           true,
				UseMergeFinality: false,
				FinalizeDistance: 1,
			},
			BatchPoster: BatchPosterConfig{
				MaxSize:           DefaultBatchPosterMaxSize,
				Enable:            true,
				ParentChainWallet: WalletConfig{PrivateKey: stripHexPrefix(p.BatchPosterPrivateKey)},
			},
			Staker: StakerConfig{
				Enable:            true,
				Strategy:          "MakeNodes",
				ParentChainWallet: WalletConfig{PrivateKey: stripHexPrefix(p.ValidatorPrivateKey)},
			},
			Dangerous: DangerousConfig{NoSequencerCoordinator: true},
		},
		Execution: ExecutionConfig{
			ForwardingTarget: "",
			Sequencer: ExecutionSequencerConfig{
				Enable:        true,
				MaxTxDataSize: DefaultSequencerMaxTxData,
				MaxBlockSpeed: DefaultSequencerMaxBlockTime,
			},
			Caching: CachingConfig{Archive: true},
		},
	}

	if p.ChainConfig.Arbitrum.DataAvailabilityCommittee {
		backends, err := json.Marshal([]DASBackend{{
			URL:        DefaultDASURL,
			PubKey:     placeholderDASPubKey,
			SignerMask: 1,
		}})
		if err != nil {
			return nil, fmt.Errorf("marshal das backends: %w", err)
		}

		cfg.Node.DataAvailability = &DataAvailabilityConfig{
			Enable:                true,
			SequencerInboxAddress: c.SequencerInbox.Hex(),
			ParentChainNodeURL:    p.ParentChainRPCURL,
			RestAggregator: RestAggregatorConfig{
				Enable: true,
				URLs:   []string{DefaultDASURL},
			},
			RPCAggregator: RPCAggregatorConfig{
				Enable:        true,
				AssumedHonest: 1,
				Backends:      string(backends),
			},
		}
	}

	return cfg, nil
}

func stripHexPrefix(key string) string {
	return strings.TrimPrefix(key, "0x")
}
