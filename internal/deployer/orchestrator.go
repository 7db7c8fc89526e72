// Package deployer runs the Orbit rollup deployment workflow: account
// resolution, fee token allowance, rollup creation, contract extraction and
// config generation.
package deployer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/accounts"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/config"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/configgen"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/feetoken"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/txmgr"
)

// Workflow stages, used to attribute errors.
const (
	StageAccounts    = "resolve accounts"
	StageChainConfig = "prepare chain config"
	StageAllowance   = "fee token allowance"
	StageCreate      = "create rollup"
	StageExtract     = "extract core contracts"
	StageFetch       = "fetch deployment"
	StageConfig      = "generate config"
)

// Dependencies are the collaborators of an Orchestrator, built once by the caller.
type Dependencies struct {
	Client      orbit.Client
	ParentChain orbit.ParentChain
	// RollupCreator overrides the registry address when non-zero.
	RollupCreator common.Address
	// ParentChainRPCURL is written into the generated configs.
	ParentChainRPCURL string
	Sink              configgen.FileSink
	// ChainIDSource defaults to orbit.GenerateChainID.
	ChainIDSource func() (uint64, error)
	Logger        *slog.Logger
}

// Result is the outcome of a run.
type Result struct {
	RunID         string
	TxHash        common.Hash
	ChainConfig   orbit.ChainConfig
	CoreContracts *orbit.CoreContracts
	NodeConfig    *orbit.NodeConfig
	L3Config      configgen.L3Config
}

// Orchestrator executes the deployment stages in order. It holds no state
// between runs.
type Orchestrator struct {
	deps   Dependencies
	txm    *txmgr.Manager
	logger *slog.Logger
}

// New creates an orchestrator.
func New(deps Dependencies) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.ChainIDSource == nil {
		deps.ChainIDSource = orbit.GenerateChainID
	}
	if deps.RollupCreator == (common.Address{}) {
		deps.RollupCreator = deps.ParentChain.RollupCreator
	}
	if deps.ParentChainRPCURL == "" {
		deps.ParentChainRPCURL = deps.ParentChain.RPCURL
	}

	return &Orchestrator{
		deps:   deps,
		txm:    txmgr.NewManager(deps.Client, deps.Logger),
		logger: deps.Logger,
	}
}

// Deploy creates a new rollup on the parent chain and writes its configs.
func (o *Orchestrator) Deploy(ctx context.Context, s *config.Settings) (*Result, error) {
	runID := uuid.New().String()
	logger := o.logger.With(slog.String("run_id", runID))

	logger.Info("starting rollup deployment",
		slog.String("chain_name", s.ChainName),
		slog.Uint64("parent_chain_id", o.deps.ParentChain.ID),
		slog.String("rollup_creator", o.deps.RollupCreator.Hex()),
	)

	accts, err := accounts.Resolve(accounts.Keys{
		Deployer:    s.DeployerPrivateKey,
		BatchPoster: s.BatchPosterPrivateKey,
		Validator:   s.ValidatorPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}

	chainID, err := o.deps.ChainIDSource()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageChainConfig, err)
	}
	identity := config.ResolveChainIdentity(s, chainID)

	chainConfig := orbit.PrepareChainConfig(orbit.ChainConfigParams{
		ChainID:                   identity.ChainID,
		InitialChainOwner:         accts.Deployer.Address(),
		DataAvailabilityCommittee: identity.DataAvailabilityCommittee(),
	})

	rollupConfig, err := orbit.PrepareDeploymentParamsConfig(o.deps.ParentChain, orbit.DeploymentConfigParams{
		ChainID:     identity.ChainID,
		Owner:       accts.Deployer.Address(),
		ChainConfig: chainConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageChainConfig, err)
	}

	logger.Info("chain config prepared",
		slog.Uint64("chain_id", identity.ChainID),
		slog.String("chain_type", string(identity.ChainType)),
		slog.String("native_token", identity.NativeToken.Hex()),
	)

	params := orbit.CreateRollupParams{
		Config:       rollupConfig,
		BatchPosters: []common.Address{accts.BatchPoster.Address()},
		Validators:   []common.Address{accts.Validator.Address()},
	}

	if identity.UsesCustomFeeToken() {
		allowances := feetoken.NewAllowanceManager(o.deps.Client, o.txm, o.deps.ParentChain, logger)
		if _, err := allowances.Ensure(ctx, identity.NativeToken, o.deps.RollupCreator, accts.Deployer, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", StageAllowance, err)
		}
		token := identity.NativeToken
		params.NativeToken = &token
	}

	req, err := orbit.PrepareCreateRollupTransactionRequest(ctx, o.deps.Client, orbit.CreateRollupRequestParams{
		Params:        params,
		Account:       accts.Deployer.Address(),
		ParentChain:   o.deps.ParentChain,
		RollupCreator: o.deps.RollupCreator,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageCreate, err)
	}

	receipt, err := o.txm.SignAndConfirm(ctx, req, accts.Deployer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageCreate, err)
	}

	logger.Info("Deployed",
		slog.String("tx_hash", receipt.TransactionHash().Hex()),
		slog.String("explorer", o.deps.ParentChain.TxURL(receipt.TransactionHash())),
	)

	contracts, err := receipt.CoreContracts()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageExtract, err)
	}

	logger.Info("rollup deployed successfully",
		slog.String("rollup", contracts.Rollup.Hex()),
		slog.String("sequencer_inbox", contracts.SequencerInbox.Hex()),
		slog.Uint64("deployed_at", contracts.DeployedAtBlockNumber),
	)

	result, err := o.generate(logger, generateInput{
		chainName:   s.ChainName,
		chainConfig: chainConfig,
		contracts:   contracts,
		deployer:    accts.Deployer,
		batchPoster: accts.BatchPoster,
		validator:   accts.Validator,
	})
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	result.TxHash = receipt.TransactionHash()
	return result, nil
}

// GenerateConfig regenerates the configs of an earlier deployment from its
// createRollup transaction hash. The configured keys must match the roles
// recorded on chain.
func (o *Orchestrator) GenerateConfig(ctx context.Context, s *config.Settings, txHash common.Hash) (*Result, error) {
	runID := uuid.New().String()
	logger := o.logger.With(slog.String("run_id", runID), slog.String("tx_hash", txHash.Hex()))

	logger.Info("regenerating config from deployment")

	if s.DeployerPrivateKey == "" {
		return nil, deployerrors.ErrMissingDeployerKey
	}

	tx, _, err := o.deps.Client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, deployerrors.RPC(StageFetch, fmt.Errorf("get transaction: %w", err))
	}

	rawReceipt, err := o.deps.Client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, deployerrors.RPC(StageFetch, fmt.Errorf("get receipt: %w", err))
	}
	if rawReceipt.Status != types.ReceiptStatusSuccessful {
		return nil, deployerrors.ErrTransactionReverted.WithStage(StageFetch)
	}

	decoded, err := orbit.DecodeCreateRollupTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageFetch, err)
	}

	contracts, err := orbit.NewTransactionReceipt(rawReceipt).CoreContracts()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageExtract, err)
	}

	deployer, err := accounts.MustMatch("deployer", s.DeployerPrivateKey, decoded.ChainConfig.InitialChainOwner())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageAccounts, err)
	}
	batchPoster, err := accounts.MustMatch("batch poster", s.BatchPosterPrivateKey, firstOrZero(decoded.Params.BatchPosters))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageAccounts, err)
	}
	validator, err := accounts.MustMatch("validator", s.ValidatorPrivateKey, firstOrZero(decoded.Params.Validators))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageAccounts, err)
	}

	result, err := o.generate(logger, generateInput{
		chainName:   s.ChainName,
		chainConfig: decoded.ChainConfig,
		contracts:   contracts,
		deployer:    deployer,
		batchPoster: batchPoster,
		validator:   validator,
	})
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	result.TxHash = txHash
	return result, nil
}

type generateInput struct {
	chainName   string
	chainConfig orbit.ChainConfig
	contracts   *orbit.CoreContracts
	deployer    *accounts.Account
	batchPoster *accounts.Account
	validator   *accounts.Account
}

func (o *Orchestrator) generate(logger *slog.Logger, in generateInput) (*Result, error) {
	nodeConfig, err := configgen.BuildNodeConfig(configgen.NodeParams{
		ChainName:             in.chainName,
		ChainConfig:           in.chainConfig,
		CoreContracts:         in.contracts,
		BatchPosterPrivateKey: in.batchPoster.PrivateKey(),
		ValidatorPrivateKey:   in.validator.PrivateKey(),
		ParentChainID:         o.deps.ParentChain.ID,
		ParentChainRPCURL:     o.deps.ParentChainRPCURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageConfig, err)
	}

	l3Config := configgen.BuildL3Config(configgen.L3Params{
		Deployer:           in.deployer.Address(),
		Staker:             in.validator.Address(),
		BatchPoster:        in.batchPoster.Address(),
		ChainConfig:        in.chainConfig,
		ChainName:          in.chainName,
		ParentChainID:      o.deps.ParentChain.ID,
		ParentChainNodeURL: o.deps.ParentChainRPCURL,
		CoreContracts:      in.contracts,
	})

	if err := configgen.NewWriter(o.deps.Sink, logger).Write(nodeConfig, l3Config); err != nil {
		return nil, fmt.Errorf("%s: %w", StageConfig, err)
	}

	return &Result{
		ChainConfig:   in.chainConfig,
		CoreContracts: in.contracts,
		NodeConfig:    nodeConfig,
		L3Config:      l3Config,
	}, nil
}

func firstOrZero(addrs []common.Address) common.Address {
	if len(addrs) == 0 {
		return common.Address{}
	}
	return addrs[0]
}
