package orbit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

var testOwner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func TestPrepareChainConfig(t *testing.T) {
	t.Run("anytrust", func(t *testing.T) {
		cfg := PrepareChainConfig(ChainConfigParams{
			ChainID:                   412346,
			InitialChainOwner:         testOwner,
			DataAvailabilityCommittee: true,
		})

		assert.Equal(t, uint64(412346), cfg.ChainID)
		assert.True(t, cfg.Arbitrum.EnableArbOS)
		assert.False(t, cfg.Arbitrum.AllowDebugPrecompiles)
		assert.True(t, cfg.Arbitrum.DataAvailabilityCommittee)
		assert.Equal(t, uint64(DefaultArbOSVersion), cfg.Arbitrum.InitialArbOSVersion)
		assert.Equal(t, testOwner.Hex(), cfg.Arbitrum.InitialChainOwner)
		assert.Equal(t, testOwner, cfg.InitialChainOwner())
		assert.Equal(t, uint64(24576), cfg.Arbitrum.MaxCodeSize)
		assert.Equal(t, uint64(49152), cfg.Arbitrum.MaxInitCodeSize)
		assert.Nil(t, cfg.DAOForkBlock)
		assert.True(t, cfg.DAOForkSupport)
	})

	t.Run("rollups", func(t *testing.T) {
		cfg := PrepareChainConfig(ChainConfigParams{ChainID: 1, InitialChainOwner: testOwner})
		assert.False(t, cfg.Arbitrum.DataAvailabilityCommittee)
	})

	t.Run("json shape", func(t *testing.T) {
		cfg := PrepareChainConfig(ChainConfigParams{ChainID: 412346, InitialChainOwner: testOwner})
		raw, err := cfg.JSON()
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &m))
		assert.Equal(t, float64(412346), m["chainId"])
		assert.Contains(t, m, "daoForkBlock")
		assert.Nil(t, m["daoForkBlock"])
		assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000000", m["eip150Hash"])

		arb, ok := m["arbitrum"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, testOwner.Hex(), arb["InitialChainOwner"])
		assert.Equal(t, false, arb["DataAvailabilityCommittee"])
	})

	t.Run("round trips", func(t *testing.T) {
		cfg := PrepareChainConfig(ChainConfigParams{ChainID: 99, InitialChainOwner: testOwner, DataAvailabilityCommittee: true})
		raw, err := cfg.JSON()
		require.NoError(t, err)

		parsed, err := ParseChainConfig(raw)
		require.NoError(t, err)
		assert.Equal(t, cfg, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseChainConfig("{not json")
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidChainConfig))
	})
}

func TestGenerateChainID(t *testing.T) {
	seen := make(map[uint64]struct{})
	for i := 0; i < 100; i++ {
		id, err := GenerateChainID()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, uint64(minGeneratedChainID))
		assert.LessOrEqual(t, id, uint64(maxGeneratedChainID))
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func TestLookupParentChain(t *testing.T) {
	t.Run("known", func(t *testing.T) {
		pc, err := LookupParentChain(421614)
		require.NoError(t, err)
		assert.True(t, pc.IsArbitrum)
		assert.True(t, pc.Testnet)
		assert.Equal(t, common.HexToAddress("0xd2Ec8376B1dF436fAb18120E416d3F2BeC61275b"), pc.RollupCreator)
		assert.Equal(t, "https://sepolia.arbiscan.io/tx/"+common.Hash{}.Hex(), pc.TxURL(common.Hash{}))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := LookupParentChain(5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrUnknownParentChain))
		assert.Contains(t, err.Error(), "421614")
	})
}
