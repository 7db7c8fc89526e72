package config

import (
	"github.com/ethereum/go-ethereum/common"
)

// ChainType selects the data availability mode of the new chain.
type ChainType string

const (
	ChainTypeAnyTrust ChainType = "anytrust"
	ChainTypeRollups  ChainType = "rollups"
)

// ParseChainType maps a raw value to a ChainType.
// Only the exact value "rollups" selects rollups; anything else is anytrust.
func ParseChainType(raw string) ChainType {
	if raw == string(ChainTypeRollups) {
		return ChainTypeRollups
	}
	return ChainTypeAnyTrust
}

// ChainIdentity is the chain id, type and fee token of the chain being deployed.
type ChainIdentity struct {
	ChainID     uint64
	ChainType   ChainType
	NativeToken common.Address
}

// DataAvailabilityCommittee reports whether the chain uses an AnyTrust committee.
func (c ChainIdentity) DataAvailabilityCommittee() bool {
	return c.ChainType == ChainTypeAnyTrust
}

// UsesCustomFeeToken reports whether the chain pays gas in an ERC-20 token.
func (c ChainIdentity) UsesCustomFeeToken() bool {
	return c.NativeToken != (common.Address{})
}

// ResolveChainIdentity derives the identity for chainID from the settings.
// Rollups chains always use the native gas token, whatever NATIVE_TOKEN says.
func ResolveChainIdentity(s *Settings, chainID uint64) ChainIdentity {
	chainType := ParseChainType(s.ChainType)

	token := s.NativeTokenAddress()
	if chainType == ChainTypeRollups {
		token = common.Address{}
	}

	return ChainIdentity{
		ChainID:     chainID,
		ChainType:   chainType,
		NativeToken: token,
	}
}
