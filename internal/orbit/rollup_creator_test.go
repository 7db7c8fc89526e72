package orbit

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

func testRollupConfig(t *testing.T, parent ParentChain) RollupConfig {
	t.Helper()
	cfg, err := PrepareDeploymentParamsConfig(parent, DeploymentConfigParams{
		ChainID:     412346,
		Owner:       testOwner,
		ChainConfig: PrepareChainConfig(ChainConfigParams{ChainID: 412346, InitialChainOwner: testOwner, DataAvailabilityCommittee: true}),
	})
	require.NoError(t, err)
	return cfg
}

func TestPrepareDeploymentParamsConfig(t *testing.T) {
	t.Run("testnet defaults", func(t *testing.T) {
		cfg := testRollupConfig(t, ParentChains[421614])

		assert.Equal(t, uint64(TestnetConfirmPeriodBlocks), cfg.ConfirmPeriodBlocks)
		assert.Equal(t, ParentChains[421614].WETH, cfg.StakeToken)
		assert.Equal(t, DefaultBaseStake, cfg.BaseStake)
		assert.Equal(t, testOwner, cfg.Owner)
		assert.Equal(t, testOwner, cfg.LoserStakeEscrow)
		assert.Equal(t, big.NewInt(412346), cfg.ChainId)
		assert.Len(t, cfg.MiniStakeValues, DefaultNumBigStepLevel+2)
		assert.Equal(t, uint8(1), cfg.GenesisAssertionState.MachineStatus)
		assert.Equal(t, [32]byte(DefaultWasmModuleRoot), cfg.WasmModuleRoot)
	})

	t.Run("mainnet confirm period", func(t *testing.T) {
		cfg := testRollupConfig(t, ParentChains[42161])
		assert.Equal(t, uint64(DefaultConfirmPeriodBlocks), cfg.ConfirmPeriodBlocks)
	})
}

func TestDeploymentParams(t *testing.T) {
	validators := []common.Address{common.HexToAddress("0xaa")}
	batchPosters := []common.Address{common.HexToAddress("0xbb")}

	t.Run("eth native chain attaches retryable fees", func(t *testing.T) {
		p := CreateRollupParams{
			Config:       testRollupConfig(t, ParentChains[421614]),
			BatchPosters: batchPosters,
			Validators:   validators,
		}
		d := p.DeploymentParams(ParentChains[421614], testOwner)

		assert.Equal(t, common.Address{}, d.NativeToken)
		assert.Equal(t, big.NewInt(L3MaxDataSize), d.MaxDataSize)
		assert.True(t, d.DeployFactoriesToL2)
		assert.Equal(t, testOwner, d.BatchPosterManager)
		assert.Equal(t, DefaultRetryablesFees, d.RetryablesValue())
	})

	t.Run("custom fee token attaches nothing", func(t *testing.T) {
		token := common.HexToAddress("0xcc")
		p := CreateRollupParams{
			Config:      testRollupConfig(t, ParentChains[1]),
			NativeToken: &token,
		}
		d := p.DeploymentParams(ParentChains[1], testOwner)

		assert.Equal(t, token, d.NativeToken)
		assert.Equal(t, big.NewInt(DefaultMaxDataSize), d.MaxDataSize)
		assert.Equal(t, 0, d.RetryablesValue().Sign())
	})
}

func TestCreateRollupEncoding(t *testing.T) {
	token := common.HexToAddress("0xcc")
	p := CreateRollupParams{
		Config:       testRollupConfig(t, ParentChains[421614]),
		BatchPosters: []common.Address{common.HexToAddress("0xbb")},
		Validators:   []common.Address{common.HexToAddress("0xaa"), common.HexToAddress("0xab")},
		NativeToken:  &token,
	}
	deployParams := p.DeploymentParams(ParentChains[421614], testOwner)

	data, err := EncodeCreateRollup(deployParams)
	require.NoError(t, err)
	assert.Equal(t, RollupCreatorABI.Methods["createRollup"].ID, data[:4])

	t.Run("decodes call data", func(t *testing.T) {
		decoded, err := DecodeCreateRollup(data)
		require.NoError(t, err)
		assert.Equal(t, deployParams, *decoded)
	})

	t.Run("decodes transaction", func(t *testing.T) {
		creator := ParentChains[421614].RollupCreator
		tx := types.NewTx(&types.DynamicFeeTx{ChainID: big.NewInt(421614), To: &creator, Data: data})

		decoded, err := DecodeCreateRollupTransaction(tx)
		require.NoError(t, err)
		assert.Equal(t, creator, decoded.RollupCreator)
		assert.Equal(t, uint64(412346), decoded.ChainConfig.ChainID)
		assert.Equal(t, testOwner, decoded.ChainConfig.InitialChainOwner())
		assert.Equal(t, p.Validators, decoded.Params.Validators)
		assert.Equal(t, token, decoded.Params.NativeToken)
	})

	t.Run("rejects other selectors", func(t *testing.T) {
		_, err := DecodeCreateRollup([]byte{0xde, 0xad, 0xbe, 0xef, 0x00})
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidTransaction))

		_, err = DecodeCreateRollup(nil)
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidTransaction))
	})

	t.Run("rejects truncated arguments", func(t *testing.T) {
		_, err := DecodeCreateRollup(data[:100])
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidTransaction))
	})

	t.Run("rejects contract creation", func(t *testing.T) {
		tx := types.NewTx(&types.DynamicFeeTx{ChainID: big.NewInt(421614), Data: data})
		_, err := DecodeCreateRollupTransaction(tx)
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidTransaction))
	})
}
