package orbit

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Chain config defaults for new Orbit chains.
const (
	// DefaultArbOSVersion is ArbOS 51 from Nitro consensus-v51.
	DefaultArbOSVersion = 51
	DefaultMaxCodeSize  = 24576
	// DefaultMaxInitCodeSize is twice the code size limit.
	DefaultMaxInitCodeSize = 49152
)

// Generated chain ids fall in this range.
const (
	minGeneratedChainID = 10_000_000_000
	maxGeneratedChainID = 99_999_999_999
)

// CliqueConfig is the unused clique section every Orbit chain config carries.
type CliqueConfig struct {
	Period uint64 `json:"period"`
	Epoch  uint64 `json:"epoch"`
}

// ArbitrumChainParams is the arbitrum section of the chain config.
type ArbitrumChainParams struct {
	EnableArbOS               bool   `json:"EnableArbOS"`
	AllowDebugPrecompiles     bool   `json:"AllowDebugPrecompiles"`
	DataAvailabilityCommittee bool   `json:"DataAvailabilityCommittee"`
	InitialArbOSVersion       uint64 `json:"InitialArbOSVersion"`
	InitialChainOwner         string `json:"InitialChainOwner"`
	GenesisBlockNum           uint64 `json:"GenesisBlockNum"`
	MaxCodeSize               uint64 `json:"MaxCodeSize"`
	MaxInitCodeSize           uint64 `json:"MaxInitCodeSize"`
}

// ChainConfig is the genesis chain config embedded in createRollup.
type ChainConfig struct {
	ChainID             uint64              `json:"chainId"`
	HomesteadBlock      uint64              `json:"homesteadBlock"`
	DAOForkBlock        *uint64             `json:"daoForkBlock"`
	DAOForkSupport      bool                `json:"daoForkSupport"`
	EIP150Block         uint64              `json:"eip150Block"`
	EIP150Hash          common.Hash         `json:"eip150Hash"`
	EIP155Block         uint64              `json:"eip155Block"`
	EIP158Block         uint64              `json:"eip158Block"`
	ByzantiumBlock      uint64              `json:"byzantiumBlock"`
	ConstantinopleBlock uint64              `json:"constantinopleBlock"`
	PetersburgBlock     uint64              `json:"petersburgBlock"`
	IstanbulBlock       uint64              `json:"istanbulBlock"`
	MuirGlacierBlock    uint64              `json:"muirGlacierBlock"`
	BerlinBlock         uint64              `json:"berlinBlock"`
	LondonBlock         uint64              `json:"londonBlock"`
	Clique              CliqueConfig        `json:"clique"`
	Arbitrum            ArbitrumChainParams `json:"arbitrum"`
}

// ChainConfigParams are the caller-supplied chain config values.
type ChainConfigParams struct {
	ChainID                   uint64
	InitialChainOwner         common.Address
	DataAvailabilityCommittee bool
}

// PrepareChainConfig builds the chain config with every hard fork active at genesis.
func PrepareChainConfig(p ChainConfigParams) ChainConfig {
	return ChainConfig{
		ChainID:        p.ChainID,
		DAOForkSupport: true,
		Arbitrum: ArbitrumChainParams{
			EnableArbOS:               true,
			AllowDebugPrecompiles:     false,
			DataAvailabilityCommittee: p.DataAvailabilityCommittee,
			InitialArbOSVersion:       DefaultArbOSVersion,
			InitialChainOwner:         p.InitialChainOwner.Hex(),
			GenesisBlockNum:           0,
			MaxCodeSize:               DefaultMaxCodeSize,
			MaxInitCodeSize:           DefaultMaxInitCodeSize,
		},
	}
}

// JSON returns the compact encoding stored on chain.
func (c ChainConfig) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal chain config: %w", err)
	}
	return string(b), nil
}

// ParseChainConfig decodes a chain config string read back from createRollup.
func ParseChainConfig(raw string) (ChainConfig, error) {
	var c ChainConfig
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return ChainConfig{}, deployerrors.ErrInvalidChainConfig.Wrap(err)
	}
	return c, nil
}

// InitialChainOwner returns the owner address recorded in the config.
func (c ChainConfig) InitialChainOwner() common.Address {
	return common.HexToAddress(c.Arbitrum.InitialChainOwner)
}

// GenerateChainID returns a random chain id in [10_000_000_000, 99_999_999_999].
func GenerateChainID() (uint64, error) {
	span := big.NewInt(maxGeneratedChainID - minGeneratedChainID + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("generate chain id: %w", err)
	}
	return n.Uint64() + minGeneratedChainID, nil
}
