package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/configgen"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/deployer"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create a new Orbit chain on the parent chain",
	Long: `Create a new Orbit chain through the parent chain's RollupCreator and write
its node-config.json and l3-config.json.

Batch poster and validator keys are generated when not configured. With a
custom NATIVE_TOKEN on an AnyTrust chain the RollupCreator is approved to
spend the retryable fees first.

Examples:
  # AnyTrust chain on Arbitrum Sepolia
  DEPLOYER_PRIVATE_KEY=0x... orbit-deployer deploy

  # Rollup chain with configs written to ./out
  CHAIN_TYPE=rollups orbit-deployer deploy --output-dir ./out`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := setup(ctx)
	if err != nil {
		reportError(newLogger(logLevel), "setup failed", err)
		return err
	}
	defer rt.close()

	result, err := rt.orchestrator.Deploy(ctx, rt.settings)
	if err != nil {
		reportError(rt.logger, "deployment failed", err)
		return err
	}

	printSummary(rt.settings.OutputDir, rt.parent, result)
	return nil
}

func printSummary(dir string, parent orbit.ParentChain, result *deployer.Result) {
	fmt.Printf("\nChain %d deployed\n\n", result.ChainConfig.ChainID)
	fmt.Printf("  TX Hash:         %s\n", result.TxHash.Hex())
	if url := parent.TxURL(result.TxHash); url != "" {
		fmt.Printf("  Explorer:        %s\n", url)
	}
	fmt.Printf("  Rollup:          %s\n", result.CoreContracts.Rollup.Hex())
	fmt.Printf("  Sequencer Inbox: %s\n", result.CoreContracts.SequencerInbox.Hex())
	fmt.Printf("  Deployed At:     %d\n", result.CoreContracts.DeployedAtBlockNumber)
	fmt.Printf("  Node Config:     %s\n", filepath.Join(dir, configgen.NodeConfigFile))
	fmt.Printf("  L3 Config:       %s\n", filepath.Join(dir, configgen.L3ConfigFile))
}
