// Package config provides settings loading for the orbit deployer.
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Defaults applied when a variable is not set.
const (
	DefaultChainName     = "My Orbit Chain"
	DefaultParentChainID = 421614
	DefaultOutputDir     = "."
	DefaultLogLevel      = "info"
)

// Settings holds every input of a deployment run.
// Keys are read once; nothing mutates Settings after Load returns.
type Settings struct {
	DeployerPrivateKey    string `mapstructure:"deployer_private_key"`
	BatchPosterPrivateKey string `mapstructure:"batch_poster_private_key"`
	ValidatorPrivateKey   string `mapstructure:"validator_private_key"`

	NativeToken string `mapstructure:"native_token"`
	ChainName   string `mapstructure:"chain_name" validate:"required"`
	ChainType   string `mapstructure:"chain_type"`

	ParentChainID        uint64 `mapstructure:"parent_chain_id" validate:"required"`
	ParentChainRPCURL    string `mapstructure:"parent_chain_rpc_url" validate:"omitempty,url"`
	RollupCreatorAddress string `mapstructure:"rollup_creator_address" validate:"omitempty,eth_addr"`

	OutputDir string `mapstructure:"output_dir" validate:"required"`
	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// envKeys maps settings keys to their environment variables.
var envKeys = map[string]string{
	"deployer_private_key":     "DEPLOYER_PRIVATE_KEY",
	"batch_poster_private_key": "BATCH_POSTER_PRIVATE_KEY",
	"validator_private_key":    "VALIDATOR_PRIVATE_KEY",
	"native_token":             "NATIVE_TOKEN",
	"chain_name":               "CHAIN_NAME",
	"chain_type":               "CHAIN_TYPE",
	"parent_chain_id":          "PARENT_CHAIN_ID",
	"parent_chain_rpc_url":     "PARENT_CHAIN_RPC_URL",
	"rollup_creator_address":   "ROLLUP_CREATOR_ADDRESS",
	"output_dir":               "OUTPUT_DIR",
	"log_level":                "LOG_LEVEL",
}

// Load reads settings from an optional config file and the environment.
// An empty configFile searches for orbit-deployer.yaml in . and ./config.
func Load(configFile string) (*Settings, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("orbit-deployer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &s, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployer_private_key", "")
	v.SetDefault("batch_poster_private_key", "")
	v.SetDefault("validator_private_key", "")
	v.SetDefault("native_token", "")
	v.SetDefault("chain_name", DefaultChainName)
	v.SetDefault("chain_type", string(ChainTypeAnyTrust))
	v.SetDefault("parent_chain_id", DefaultParentChainID)
	v.SetDefault("parent_chain_rpc_url", "")
	v.SetDefault("rollup_creator_address", "")
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("log_level", DefaultLogLevel)
}

var validate = validator.New()

// Validate checks field formats. Private key material is checked by the account resolver.
// NATIVE_TOKEN is only checked for chains that can use it.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.NativeToken != "" && ParseChainType(s.ChainType) != ChainTypeRollups {
		if err := validate.Var(s.NativeToken, "eth_addr"); err != nil {
			return fmt.Errorf("invalid settings: native_token: %w", err)
		}
	}
	return nil
}

// RequireDeployerKey fails when DEPLOYER_PRIVATE_KEY is not configured.
func (s *Settings) RequireDeployerKey() error {
	if s.DeployerPrivateKey == "" {
		return deployerrors.ErrMissingDeployerKey
	}
	return nil
}

// NativeTokenAddress returns the configured fee token, or the zero address.
func (s *Settings) NativeTokenAddress() common.Address {
	if s.NativeToken == "" {
		return common.Address{}
	}
	return common.HexToAddress(s.NativeToken)
}

// RollupCreator returns the override address, if one is configured.
func (s *Settings) RollupCreator() (common.Address, bool) {
	if s.RollupCreatorAddress == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(s.RollupCreatorAddress), true
}
