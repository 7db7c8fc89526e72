// Package orbittest provides an in-memory parent chain for tests.
package orbittest

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
)

// Backend is a parent chain that mines every transaction immediately.
// createRollup calls emit a RollupCreated event, approve calls update allowances.
type Backend struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	BaseFee      *big.Int
	TipCap       *big.Int
	GasEstimate  uint64
	// BlockNumber is the block of the next mined receipt.
	BlockNumber uint64
	// LegacyEvents emits the v2 RollupCreated layout with validatorUtils.
	LegacyEvents bool
	// RevertNext marks the next mined transaction as failed.
	RevertNext bool

	// Errors injects a failure for a method name, e.g. "EstimateGas".
	Errors map[string]error

	allowances map[common.Address]map[[2]common.Address]*big.Int
	nonces     map[common.Address]uint64
	txs        map[common.Hash]*types.Transaction
	receipts   map[common.Hash]*types.Receipt
	sent       []*types.Transaction
	deployed   int
}

// NewBackend returns a backend for the given parent chain id.
func NewBackend(chainID uint64) *Backend {
	return &Backend{
		ChainIDValue: new(big.Int).SetUint64(chainID),
		BaseFee:      big.NewInt(100_000_000),
		TipCap:       big.NewInt(1_000_000),
		GasEstimate:  5_000_000,
		BlockNumber:  1000,
		Errors:       make(map[string]error),
		allowances:   make(map[common.Address]map[[2]common.Address]*big.Int),
		nonces:       make(map[common.Address]uint64),
		txs:          make(map[common.Hash]*types.Transaction),
		receipts:     make(map[common.Hash]*types.Receipt),
	}
}

var _ orbit.Client = (*Backend)(nil)

// SetAllowance sets the ERC-20 allowance of owner to spender on token.
func (b *Backend) SetAllowance(token, owner, spender common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setAllowance(token, owner, spender, amount)
}

// Allowance returns the recorded allowance.
func (b *Backend) Allowance(token, owner, spender common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowance(token, owner, spender)
}

// Sent returns the broadcast transactions in order.
func (b *Backend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

// ExpectedContracts returns the addresses the n-th createRollup (from 1) deploys.
func ExpectedContracts(n int, nativeToken common.Address, legacy bool) *orbit.CoreContracts {
	addr := func(i int64) common.Address {
		return common.BigToAddress(big.NewInt(int64(n)<<16 + i))
	}
	c := &orbit.CoreContracts{
		Rollup:                 addr(1),
		NativeToken:            nativeToken,
		Inbox:                  addr(2),
		Outbox:                 addr(3),
		RollupEventInbox:       addr(4),
		ChallengeManager:       addr(5),
		AdminProxy:             addr(6),
		SequencerInbox:         addr(7),
		Bridge:                 addr(8),
		UpgradeExecutor:        addr(9),
		ValidatorWalletCreator: addr(11),
	}
	if legacy {
		c.ValidatorUtils = addr(10)
	}
	return c
}

// RollupCreatedLog builds the RollupCreated event for c.
func RollupCreatedLog(c *orbit.CoreContracts, legacy bool) *types.Log {
	words := []common.Address{
		c.Inbox, c.Outbox, c.RollupEventInbox, c.ChallengeManager, c.AdminProxy,
		c.SequencerInbox, c.Bridge, c.UpgradeExecutor,
	}
	topic := orbit.RollupCreatedV3Topic
	if legacy {
		words = append(words, c.ValidatorUtils)
		topic = orbit.RollupCreatedV2Topic
	}
	words = append(words, c.ValidatorWalletCreator)

	var data []byte
	for _, w := range words {
		data = append(data, common.LeftPadBytes(w.Bytes(), 32)...)
	}

	return &types.Log{
		Topics: []common.Hash{
			topic,
			common.BytesToHash(c.Rollup.Bytes()),
			common.BytesToHash(c.NativeToken.Bytes()),
		},
		Data: data,
	}
}

func (b *Backend) fail(method string) error {
	if b.Errors == nil {
		return nil
	}
	return b.Errors[method]
}

func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("ChainID"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(b.ChainIDValue), nil
}

func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("CallContract"); err != nil {
		return nil, err
	}
	if msg.To == nil {
		return nil, errors.New("call without target")
	}

	method, err := orbit.ERC20ABI.MethodById(msg.Data)
	if err != nil || method.Name != "allowance" {
		return nil, errors.New("execution reverted")
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	owner := args[0].(common.Address)
	spender := args[1].(common.Address)
	return method.Outputs.Pack(b.allowance(*msg.To, owner, spender))
}

func (b *Backend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("PendingNonceAt"); err != nil {
		return 0, err
	}
	return b.nonces[account], nil
}

func (b *Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("EstimateGas"); err != nil {
		return 0, err
	}
	return b.GasEstimate, nil
}

func (b *Backend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("SuggestGasTipCap"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(b.TipCap), nil
}

func (b *Backend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("HeaderByNumber"); err != nil {
		return nil, err
	}
	h := &types.Header{Number: new(big.Int).SetUint64(b.BlockNumber)}
	if b.BaseFee != nil {
		h.BaseFee = new(big.Int).Set(b.BaseFee)
	}
	return h, nil
}

func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("SendTransaction"); err != nil {
		return err
	}

	from, err := types.Sender(types.LatestSignerForChainID(b.ChainIDValue), tx)
	if err != nil {
		return err
	}
	b.nonces[from]++
	b.sent = append(b.sent, tx)
	b.txs[tx.Hash()] = tx

	receipt := &types.Receipt{
		Type:        tx.Type(),
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(b.BlockNumber),
		GasUsed:     tx.Gas(),
	}
	b.receipts[tx.Hash()] = receipt

	if b.RevertNext {
		b.RevertNext = false
		receipt.Status = types.ReceiptStatusFailed
		return nil
	}

	b.execute(from, tx, receipt)
	return nil
}

func (b *Backend) execute(from common.Address, tx *types.Transaction, receipt *types.Receipt) {
	if tx.To() == nil || len(tx.Data()) < 4 {
		return
	}

	if bytes.Equal(tx.Data()[:4], orbit.RollupCreatorABI.Methods["createRollup"].ID) {
		params, err := orbit.DecodeCreateRollup(tx.Data())
		if err != nil {
			receipt.Status = types.ReceiptStatusFailed
			return
		}
		b.deployed++
		c := ExpectedContracts(b.deployed, params.NativeToken, b.LegacyEvents)
		log := RollupCreatedLog(c, b.LegacyEvents)
		log.Address = *tx.To()
		log.TxHash = tx.Hash()
		receipt.Logs = append(receipt.Logs, log)
		return
	}

	if method, err := orbit.ERC20ABI.MethodById(tx.Data()); err == nil && method.Name == "approve" {
		args, err := method.Inputs.Unpack(tx.Data()[4:])
		if err != nil {
			receipt.Status = types.ReceiptStatusFailed
			return
		}
		b.setAllowance(*tx.To(), from, args[0].(common.Address), args[1].(*big.Int))
	}
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("TransactionReceipt"); err != nil {
		return nil, err
	}
	r, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (b *Backend) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("TransactionByHash"); err != nil {
		return nil, false, err
	}
	tx, ok := b.txs[txHash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return tx, false, nil
}

func (b *Backend) allowance(token, owner, spender common.Address) *big.Int {
	if a, ok := b.allowances[token][[2]common.Address{owner, spender}]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (b *Backend) setAllowance(token, owner, spender common.Address, amount *big.Int) {
	if b.allowances[token] == nil {
		b.allowances[token] = make(map[[2]common.Address]*big.Int)
	}
	b.allowances[token][[2]common.Address{owner, spender}] = new(big.Int).Set(amount)
}
