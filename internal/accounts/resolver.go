package accounts

import (
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	deployerrors "github.com/Zeeve-App/Arbitrum-Anytrust/internal/pkg/errors"
)

// Keys is the raw key material for the three roles. Empty means not configured.
type Keys struct {
	Deployer    string
	BatchPoster string
	Validator   string
}

// Set is the resolved accounts of one run.
type Set struct {
	Deployer    *Account
	BatchPoster *Account
	Validator   *Account
}

// Resolve builds the three accounts. The deployer key is mandatory;
// missing batch poster and validator keys are generated.
func Resolve(keys Keys, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if keys.Deployer == "" {
		return nil, deployerrors.ErrMissingDeployerKey
	}

	deployer, err := FromPrivateKey(keys.Deployer)
	if err != nil {
		return nil, roleError("deployer", err)
	}

	batchPoster, err := resolveRole("batch poster", keys.BatchPoster, logger)
	if err != nil {
		return nil, err
	}

	validator, err := resolveRole("validator", keys.Validator, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Accounts resolved",
		slog.String("deployer", deployer.Address().Hex()),
		slog.String("batch_poster", batchPoster.Address().Hex()),
		slog.String("validator", validator.Address().Hex()),
	)

	return &Set{
		Deployer:    deployer,
		BatchPoster: batchPoster,
		Validator:   validator,
	}, nil
}

// MustMatch checks that key derives address, for roles recorded on chain.
func MustMatch(role, key string, address common.Address) (*Account, error) {
	if key == "" {
		return nil, deployerrors.ErrMissingRoleKey.WithMessage(role + " private key required for config generation")
	}
	acct, err := FromPrivateKey(key)
	if err != nil {
		return nil, roleError(role, err)
	}
	if acct.Address() != address {
		return nil, deployerrors.ErrRoleMismatch.WithMessage(
			role + " key derives " + acct.Address().Hex() + ", deployment recorded " + address.Hex(),
		)
	}
	return acct, nil
}

func resolveRole(role, key string, logger *slog.Logger) (*Account, error) {
	if key == "" {
		logger.Info("No key configured, generating one", slog.String("role", role))
	}
	hexKey, err := WithFallbackPrivateKey(key)
	if err != nil {
		return nil, err
	}
	acct, err := FromPrivateKey(hexKey)
	if err != nil {
		return nil, roleError(role, err)
	}
	return acct, nil
}

func roleError(role string, err error) error {
	var de *deployerrors.DeployError
	if errors.As(err, &de) {
		return de.WithStage(role)
	}
	return deployerrors.ErrInvalidPrivateKey.WithStage(role).Wrap(err)
}
