package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/config"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/configgen"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/deployer"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Global flags
	cfgFile        string
	outputDir      string
	logLevel       string
	parentChainRPC string
)

var rootCmd = &cobra.Command{
	Use:   "orbit-deployer",
	Short: "Deploy Arbitrum Orbit chains and generate their node configs",
	Long: `orbit-deployer creates an Arbitrum Orbit rollup on a parent chain through
the RollupCreator contract and writes node-config.json and l3-config.json.

Configuration (in order of priority):
  1. Command-line flags (--output-dir, --log-level, --parent-chain-rpc)
  2. Environment variables (DEPLOYER_PRIVATE_KEY, BATCH_POSTER_PRIVATE_KEY,
     VALIDATOR_PRIVATE_KEY, NATIVE_TOKEN, CHAIN_NAME, CHAIN_TYPE, PARENT_CHAIN_ID, ...)
  3. Config file (./orbit-deployer.yaml)

Get started:
  $ export DEPLOYER_PRIVATE_KEY=0x...
  $ orbit-deployer deploy
  $ orbit-deployer generate-config 0xTxHash`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orbit-deployer version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./orbit-deployer.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for generated configs (or OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (or LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&parentChainRPC, "parent-chain-rpc", "", "parent chain RPC URL (or PARENT_CHAIN_RPC_URL)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs, built from the merged settings.
type app struct {
	settings     *config.Settings
	logger       *slog.Logger
	orchestrator *deployer.Orchestrator
	parent       orbit.ParentChain
	close        func()
}

// loadSettings merges the config file, environment and flags. It fails
// without touching the network when the deployer key is missing.
func loadSettings() (*config.Settings, error) {
	s, err := config.Load(cfgFile)
	if err != nil {
		return nil, deployerrors.ErrPrecondition.WithMessage("load config").Wrap(err)
	}
	if outputDir != "" {
		s.OutputDir = outputDir
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if parentChainRPC != "" {
		s.ParentChainRPCURL = parentChainRPC
	}
	if err := s.Validate(); err != nil {
		return nil, deployerrors.ErrPrecondition.WithMessage("invalid config").Wrap(err)
	}
	if err := s.RequireDeployerKey(); err != nil {
		return nil, err
	}
	return s, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

// setup connects to the parent chain and wires the orchestrator.
func setup(ctx context.Context) (*app, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	logger := newLogger(s.LogLevel)

	parent, err := orbit.LookupParentChain(s.ParentChainID)
	if err != nil {
		return nil, err
	}

	rpcURL := s.ParentChainRPCURL
	if rpcURL == "" {
		rpcURL = parent.RPCURL
	}

	client, err := orbit.Dial(ctx, rpcURL)
	if err != nil {
		return nil, deployerrors.RPC("connect", err)
	}

	remoteID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, deployerrors.RPC("connect", fmt.Errorf("get chain id: %w", err))
	}
	if !remoteID.IsUint64() || remoteID.Uint64() != parent.ID {
		client.Close()
		return nil, deployerrors.ErrParentChainMismatch.WithMessage(
			fmt.Sprintf("RPC endpoint %s serves chain %s, configured parent chain is %d", rpcURL, remoteID, parent.ID),
		)
	}

	deps := deployer.Dependencies{
		Client:            client,
		ParentChain:       parent,
		ParentChainRPCURL: rpcURL,
		Sink:              configgen.DirSink{Dir: s.OutputDir},
		Logger:            logger,
	}
	if creator, ok := s.RollupCreator(); ok {
		deps.RollupCreator = creator
	}

	logger.Info("connected to parent chain",
		slog.String("parent_chain", parent.Name),
		slog.Uint64("parent_chain_id", parent.ID),
	)

	return &app{
		settings:     s,
		logger:       logger,
		orchestrator: deployer.New(deps),
		parent:       parent,
		close:        client.Close,
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// reportError logs a failed run with its classification.
func reportError(logger *slog.Logger, msg string, err error) {
	attrs := []any{slog.String("error", err.Error())}
	if kind, ok := deployerrors.KindOf(err); ok {
		attrs = append(attrs, slog.String("kind", string(kind)))
	}
	logger.Error(msg, attrs...)
}
