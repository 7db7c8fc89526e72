package main

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

func TestParseTxHash(t *testing.T) {
	t.Run("accepts a 32 byte hash", func(t *testing.T) {
		raw := "0x5b1c0000000000000000000000000000000000000000000000000000000000e9"
		h, err := parseTxHash(raw)
		require.NoError(t, err)
		assert.Equal(t, common.HexToHash(raw), h)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "5b1c", "0xzz", "0x5b1c"} {
			_, err := parseTxHash(raw)
			require.Error(t, err, raw)
			assert.True(t, errors.Is(err, deployerrors.ErrPrecondition), raw)
		}
	})
}

func TestMissingDeployerKey(t *testing.T) {
	for _, env := range []string{
		"DEPLOYER_PRIVATE_KEY", "BATCH_POSTER_PRIVATE_KEY", "VALIDATOR_PRIVATE_KEY",
		"NATIVE_TOKEN", "CHAIN_NAME", "CHAIN_TYPE", "PARENT_CHAIN_ID",
		"PARENT_CHAIN_RPC_URL", "ROLLUP_CREATOR_ADDRESS", "OUTPUT_DIR", "LOG_LEVEL",
	} {
		t.Setenv(env, "")
	}
	chdir(t, t.TempDir())

	// Nothing listens on this port, so any RPC call would fail with a connection error.
	parentChainRPC = "http://127.0.0.1:1"
	t.Cleanup(func() { parentChainRPC = "" })

	t.Run("deploy", func(t *testing.T) {
		err := runDeploy(deployCmd, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrMissingDeployerKey))
		assert.False(t, errors.Is(err, deployerrors.ErrRPC))
	})

	t.Run("generate-config", func(t *testing.T) {
		err := runGenerate(generateCmd, []string{"0x5b1c0000000000000000000000000000000000000000000000000000000000e9"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, deployerrors.ErrMissingDeployerKey))
	})
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["deploy"])
	assert.True(t, names["generate-config"])
	assert.True(t, names["version"])

	assert.Error(t, generateCmd.Args(generateCmd, nil))
	assert.NoError(t, generateCmd.Args(generateCmd, []string{"0x01"}))
	assert.Error(t, deployCmd.Args(deployCmd, []string{"extra"}))
}
