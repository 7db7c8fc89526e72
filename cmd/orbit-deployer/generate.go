package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

var generateCmd = &cobra.Command{
	Use:   "generate-config <tx-hash>",
	Short: "Regenerate the configs of an existing deployment",
	Long: `Rebuild node-config.json and l3-config.json from the createRollup transaction
of an earlier deployment.

The deployer, batch poster and validator keys must be configured and must
match the accounts recorded by the transaction.

Examples:
  orbit-deployer generate-config 0x5b1c...e9a2 --output-dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	txHash, err := parseTxHash(args[0])
	if err != nil {
		reportError(newLogger(logLevel), "invalid transaction hash", err)
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rt, err := setup(ctx)
	if err != nil {
		reportError(newLogger(logLevel), "setup failed", err)
		return err
	}
	defer rt.close()

	result, err := rt.orchestrator.GenerateConfig(ctx, rt.settings, txHash)
	if err != nil {
		reportError(rt.logger, "config generation failed", err)
		return err
	}

	printSummary(rt.settings.OutputDir, rt.parent, result)
	return nil
}

func parseTxHash(raw string) (common.Hash, error) {
	b, err := hexutil.Decode(raw)
	if err != nil {
		return common.Hash{}, deployerrors.ErrPrecondition.WithMessage("transaction hash must be 0x-prefixed hex").Wrap(err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, deployerrors.ErrPrecondition.WithMessage(
			fmt.Sprintf("transaction hash must be %d bytes, got %d", common.HashLength, len(b)),
		)
	}
	return common.BytesToHash(b), nil
}
