// Package errors provides typed failures for the deployment workflow.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure by how the caller should react to it.
type Kind string

const (
	// KindPrecondition is a configuration problem detected before any network work.
	KindPrecondition Kind = "precondition"
	// KindRPC is a failure reported by the parent chain RPC endpoint.
	KindRPC Kind = "rpc"
	// KindMalformedData is on-chain or configured data that could not be parsed.
	KindMalformedData Kind = "malformed_data"
	// KindReverted is a transaction that was mined but did not succeed.
	KindReverted Kind = "reverted"
)

// DeployError is a failure raised by one stage of the deployment workflow.
type DeployError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by code when the target carries one, otherwise by kind.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

// WithStage returns a copy of the error attributed to a workflow stage.
func (e *DeployError) WithStage(stage string) *DeployError {
	return &DeployError{
		Kind:    e.Kind,
		Code:    e.Code,
		Stage:   stage,
		Message: e.Message,
		Err:     e.Err,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *DeployError) WithMessage(message string) *DeployError {
	return &DeployError{
		Kind:    e.Kind,
		Code:    e.Code,
		Stage:   e.Stage,
		Message: message,
		Err:     e.Err,
	}
}

// Wrap returns a copy of the error carrying err as its cause.
func (e *DeployError) Wrap(err error) *DeployError {
	return &DeployError{
		Kind:    e.Kind,
		Code:    e.Code,
		Stage:   e.Stage,
		Message: e.Message,
		Err:     err,
	}
}

// Kind sentinels, usable with errors.Is.
var (
	ErrPrecondition  = &DeployError{Kind: KindPrecondition, Message: "precondition failed"}
	ErrRPC           = &DeployError{Kind: KindRPC, Message: "parent chain request failed"}
	ErrMalformedData = &DeployError{Kind: KindMalformedData, Message: "malformed data"}
	ErrReverted      = &DeployError{Kind: KindReverted, Message: "transaction reverted"}
)

// Specific failures.
var (
	// ErrMissingDeployerKey is returned when DEPLOYER_PRIVATE_KEY is not configured.
	ErrMissingDeployerKey = &DeployError{
		Kind:    KindPrecondition,
		Code:    "missing_deployer_key",
		Message: `Please provide the "DEPLOYER_PRIVATE_KEY" environment variable`,
	}

	// ErrInvalidPrivateKey is returned when key material cannot be parsed.
	ErrInvalidPrivateKey = &DeployError{
		Kind:    KindPrecondition,
		Code:    "invalid_private_key",
		Message: "invalid private key",
	}

	// ErrMissingRoleKey is returned when config regeneration needs a key that is not configured.
	ErrMissingRoleKey = &DeployError{
		Kind:    KindPrecondition,
		Code:    "missing_role_key",
		Message: "private key required for config generation",
	}

	// ErrRoleMismatch is returned when a configured key does not match the deployed role.
	ErrRoleMismatch = &DeployError{
		Kind:    KindPrecondition,
		Code:    "role_mismatch",
		Message: "configured key does not match the deployed role",
	}

	// ErrUnknownParentChain is returned for parent chains missing from the registry.
	ErrUnknownParentChain = &DeployError{
		Kind:    KindPrecondition,
		Code:    "unknown_parent_chain",
		Message: "unsupported parent chain",
	}

	// ErrParentChainMismatch is returned when the RPC endpoint serves a different chain.
	ErrParentChainMismatch = &DeployError{
		Kind:    KindPrecondition,
		Code:    "parent_chain_mismatch",
		Message: "RPC endpoint chain id does not match the configured parent chain",
	}

	// ErrTransactionReverted is returned when a confirmed receipt has a failed status.
	ErrTransactionReverted = &DeployError{
		Kind:    KindReverted,
		Code:    "transaction_reverted",
		Message: "transaction reverted",
	}

	// ErrNotRollupCreation is returned when a receipt holds no RollupCreated event.
	ErrNotRollupCreation = &DeployError{
		Kind:    KindMalformedData,
		Code:    "not_rollup_creation",
		Message: "receipt does not contain a RollupCreated event",
	}

	// ErrInvalidChainConfig is returned when an embedded chain config cannot be decoded.
	ErrInvalidChainConfig = &DeployError{
		Kind:    KindMalformedData,
		Code:    "invalid_chain_config",
		Message: "invalid chain config",
	}

	// ErrInvalidTransaction is returned when call data is not a createRollup call.
	ErrInvalidTransaction = &DeployError{
		Kind:    KindMalformedData,
		Code:    "invalid_transaction",
		Message: "transaction is not a createRollup call",
	}
)

// RPC wraps a parent chain client error for the given stage.
func RPC(stage string, err error) error {
	if err == nil {
		return nil
	}
	var de *DeployError
	if stderrors.As(err, &de) {
		return err
	}
	return ErrRPC.WithStage(stage).Wrap(err)
}

// KindOf reports the kind of the first DeployError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DeployError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
