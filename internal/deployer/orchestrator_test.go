package deployer

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/accounts"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/config"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/configgen"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit/orbittest"
	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Anvil development keys.
const (
	deployerKey    = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	batchPosterKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	validatorKey   = "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"
)

var feeToken = common.HexToAddress("0x00000000000000000000000000000000000000cc")

// memSink records written files.
type memSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemSink() *memSink {
	return &memSink{files: make(map[string][]byte)}
}

func (s *memSink) WriteFile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), data...)
	return nil
}

func (s *memSink) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

func testSettings() *config.Settings {
	return &config.Settings{
		DeployerPrivateKey:    deployerKey,
		BatchPosterPrivateKey: batchPosterKey,
		ValidatorPrivateKey:   validatorKey,
		ChainName:             config.DefaultChainName,
		ChainType:             "anytrust",
		ParentChainID:         config.DefaultParentChainID,
		OutputDir:             ".",
		LogLevel:              "info",
	}
}

type fixture struct {
	backend *orbittest.Backend
	sink    *memSink
	orch    *Orchestrator
	parent  orbit.ParentChain
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	parent := orbit.ParentChains[421614]
	b := orbittest.NewBackend(parent.ID)
	sink := newMemSink()
	return &fixture{
		backend: b,
		sink:    sink,
		parent:  parent,
		orch: New(Dependencies{
			Client:        b,
			ParentChain:   parent,
			Sink:          sink,
			ChainIDSource: func() (uint64, error) { return 412346, nil },
		}),
	}
}

func mustAddress(t *testing.T, key string) common.Address {
	t.Helper()
	acct, err := accounts.FromPrivateKey(key)
	require.NoError(t, err)
	return acct.Address()
}

// ============================================================================
// Deploy Tests
// ============================================================================

func TestDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("anytrust with native gas token", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.orch.Deploy(ctx, testSettings())
		require.NoError(t, err)

		sent := f.backend.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, f.parent.RollupCreator, *sent[0].To())
		assert.Zero(t, orbit.DefaultRetryablesFees.Cmp(sent[0].Value()))
		assert.Equal(t, sent[0].Hash(), result.TxHash)
		assert.NotEmpty(t, result.RunID)

		expected := orbittest.ExpectedContracts(1, common.Address{}, false)
		expected.DeployedAtBlockNumber = f.backend.BlockNumber
		assert.Equal(t, expected, result.CoreContracts)

		assert.Equal(t, uint64(412346), result.ChainConfig.ChainID)
		assert.True(t, result.ChainConfig.Arbitrum.DataAvailabilityCommittee)
		assert.Equal(t, mustAddress(t, deployerKey), result.ChainConfig.InitialChainOwner())
		assert.NotNil(t, result.NodeConfig.Node.DataAvailability)

		assert.Contains(t, f.sink.files, configgen.NodeConfigFile)
		assert.Contains(t, f.sink.files, configgen.L3ConfigFile)
	})

	t.Run("records roles in the transaction", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.orch.Deploy(ctx, testSettings())
		require.NoError(t, err)

		decoded, err := orbit.DecodeCreateRollupTransaction(f.backend.Sent()[0])
		require.NoError(t, err)
		assert.Equal(t, []common.Address{mustAddress(t, batchPosterKey)}, decoded.Params.BatchPosters)
		assert.Equal(t, []common.Address{mustAddress(t, validatorKey)}, decoded.Params.Validators)
		assert.Equal(t, common.Address{}, decoded.Params.NativeToken)
		assert.Equal(t, result.ChainConfig, decoded.ChainConfig)

		assert.Equal(t, mustAddress(t, batchPosterKey).Hex(), result.L3Config.BatchPoster)
		assert.Equal(t, mustAddress(t, validatorKey).Hex(), result.L3Config.Staker)
		assert.Equal(t, mustAddress(t, deployerKey).Hex(), result.L3Config.ChainOwner)
	})

	t.Run("rollups ignores native token", func(t *testing.T) {
		f := newFixture(t)
		s := testSettings()
		s.ChainType = "rollups"
		s.NativeToken = feeToken.Hex()

		result, err := f.orch.Deploy(ctx, s)
		require.NoError(t, err)

		require.Len(t, f.backend.Sent(), 1)
		assert.False(t, result.ChainConfig.Arbitrum.DataAvailabilityCommittee)
		assert.Equal(t, common.Address{}, result.CoreContracts.NativeToken)
		assert.Nil(t, result.NodeConfig.Node.DataAvailability)
	})

	t.Run("custom fee token with insufficient allowance approves first", func(t *testing.T) {
		f := newFixture(t)
		s := testSettings()
		s.NativeToken = feeToken.Hex()

		result, err := f.orch.Deploy(ctx, s)
		require.NoError(t, err)

		sent := f.backend.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, feeToken, *sent[0].To())
		assert.Equal(t, f.parent.RollupCreator, *sent[1].To())
		assert.Equal(t, 0, sent[1].Value().Sign())
		assert.Equal(t, feeToken, result.CoreContracts.NativeToken)
		assert.Zero(t, orbit.DefaultRetryablesFees.Cmp(f.backend.Allowance(feeToken, mustAddress(t, deployerKey), f.parent.RollupCreator)))
	})

	t.Run("custom fee token with sufficient allowance skips approval", func(t *testing.T) {
		f := newFixture(t)
		f.backend.SetAllowance(feeToken, mustAddress(t, deployerKey), f.parent.RollupCreator, big.NewInt(1e18))
		s := testSettings()
		s.NativeToken = feeToken.Hex()

		_, err := f.orch.Deploy(ctx, s)
		require.NoError(t, err)

		sent := f.backend.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, f.parent.RollupCreator, *sent[0].To())
	})

	t.Run("generates missing role keys", func(t *testing.T) {
		f := newFixture(t)
		s := testSettings()
		s.BatchPosterPrivateKey = ""
		s.ValidatorPrivateKey = ""

		result, err := f.orch.Deploy(ctx, s)
		require.NoError(t, err)
		assert.NotEqual(t, result.L3Config.BatchPoster, result.L3Config.Staker)
		assert.NotEmpty(t, result.NodeConfig.Node.BatchPoster.ParentChainWallet.PrivateKey)
	})

	t.Run("missing deployer key fails before any network call", func(t *testing.T) {
		f := newFixture(t)
		s := testSettings()
		s.DeployerPrivateKey = ""

		_, err := f.orch.Deploy(ctx, s)
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrMissingDeployerKey))
		assert.Empty(t, f.backend.Sent())
		assert.Empty(t, f.sink.files)
	})

	t.Run("reverted creation writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.backend.RevertNext = true

		_, err := f.orch.Deploy(ctx, testSettings())
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrTransactionReverted))
		assert.Contains(t, err.Error(), StageCreate)
		assert.Empty(t, f.sink.files)
	})

	t.Run("gas estimation failure surfaces", func(t *testing.T) {
		f := newFixture(t)
		f.backend.Errors["EstimateGas"] = errors.New("insufficient funds")

		_, err := f.orch.Deploy(ctx, testSettings())
		require.Error(t, err)
		kind, ok := deployerrors.KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, deployerrors.KindRPC, kind)
		assert.Empty(t, f.backend.Sent())
	})

	t.Run("l3 config block number is a string", func(t *testing.T) {
		f := newFixture(t)
		f.backend.BlockNumber = 123456789012345

		_, err := f.orch.Deploy(ctx, testSettings())
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(f.sink.files[configgen.L3ConfigFile], &m))
		assert.Equal(t, "123456789012345", m["deployedAtBlockNumber"])
		assert.Equal(t, float64(412346), m["chainId"])
	})
}

// ============================================================================
// GenerateConfig Tests
// ============================================================================

func TestGenerateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("matches the live deployment", func(t *testing.T) {
		for _, legacy := range []bool{false, true} {
			f := newFixture(t)
			f.backend.LegacyEvents = legacy

			live, err := f.orch.Deploy(ctx, testSettings())
			require.NoError(t, err)
			liveFiles := map[string][]byte{
				configgen.NodeConfigFile: f.sink.files[configgen.NodeConfigFile],
				configgen.L3ConfigFile:   f.sink.files[configgen.L3ConfigFile],
			}

			regen, err := f.orch.GenerateConfig(ctx, testSettings(), live.TxHash)
			require.NoError(t, err)

			assert.Equal(t, live.CoreContracts, regen.CoreContracts)
			assert.Equal(t, live.ChainConfig, regen.ChainConfig)
			assert.Equal(t, live.L3Config, regen.L3Config)
			assert.Equal(t, liveFiles[configgen.NodeConfigFile], f.sink.files[configgen.NodeConfigFile])
			assert.Equal(t, liveFiles[configgen.L3ConfigFile], f.sink.files[configgen.L3ConfigFile])
			assert.Equal(t, legacy, regen.CoreContracts.ValidatorUtils != common.Address{})
		}
	})

	t.Run("requires role keys", func(t *testing.T) {
		f := newFixture(t)
		live, err := f.orch.Deploy(ctx, testSettings())
		require.NoError(t, err)

		s := testSettings()
		s.ValidatorPrivateKey = ""
		_, err = f.orch.GenerateConfig(ctx, s, live.TxHash)
		assert.True(t, errors.Is(err, deployerrors.ErrMissingRoleKey))

		s = testSettings()
		s.DeployerPrivateKey = ""
		_, err = f.orch.GenerateConfig(ctx, s, live.TxHash)
		assert.True(t, errors.Is(err, deployerrors.ErrMissingDeployerKey))
	})

	t.Run("rejects keys of other accounts", func(t *testing.T) {
		f := newFixture(t)
		live, err := f.orch.Deploy(ctx, testSettings())
		require.NoError(t, err)

		s := testSettings()
		s.BatchPosterPrivateKey = validatorKey
		_, err = f.orch.GenerateConfig(ctx, s, live.TxHash)
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrRoleMismatch))
		assert.Contains(t, err.Error(), "batch poster")
	})

	t.Run("rejects transactions that are not createRollup", func(t *testing.T) {
		f := newFixture(t)
		s := testSettings()
		s.NativeToken = feeToken.Hex()
		_, err := f.orch.Deploy(ctx, s)
		require.NoError(t, err)

		approval := f.backend.Sent()[0]
		_, err = f.orch.GenerateConfig(ctx, testSettings(), approval.Hash())
		assert.True(t, errors.Is(err, deployerrors.ErrInvalidTransaction))
	})

	t.Run("unknown hash", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.orch.GenerateConfig(ctx, testSettings(), common.HexToHash("0xdead"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrRPC))
		assert.Empty(t, f.sink.files)
	})
}
