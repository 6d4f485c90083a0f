package transfer

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Hook runs before a transfer executes. Returning an error aborts the
// transfer. Tests use hooks to inject failures and reentrant calls.
type Hook func(identity common.Address, amount *big.Int) error

// Book is an in-memory custody ledger for one asset. It backs the daemon,
// the simulator, and the tests.
type Book struct {
	symbol string

	mu       sync.Mutex
	balances map[common.Address]*big.Int
	pool     *big.Int

	pullHook Hook
	pushHook Hook
}

// NewBook returns an empty custody book for the named asset.
func NewBook(symbol string) *Book {
	return &Book{
		symbol:   symbol,
		balances: make(map[common.Address]*big.Int),
		pool:     big.NewInt(0),
	}
}

// Fund credits the identity's custody balance outside of pool accounting.
func (b *Book) Fund(identity common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	balance, ok := b.balances[identity]
	if !ok {
		balance = big.NewInt(0)
		b.balances[identity] = balance
	}
	balance.Add(balance, amount)
}

// BalanceOf returns a copy of the identity's custody balance.
func (b *Book) BalanceOf(identity common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if balance, ok := b.balances[identity]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// SetPullHook installs a hook invoked before every PullFrom.
func (b *Book) SetPullHook(hook Hook) {
	b.pullHook = hook
}

// SetPushHook installs a hook invoked before every PushTo.
func (b *Book) SetPushHook(hook Hook) {
	b.pushHook = hook
}

// PullFrom moves amount from the identity to pool custody.
func (b *Book) PullFrom(identity common.Address, amount *big.Int) error {
	if hook := b.pullHook; hook != nil {
		if err := hook(identity, amount); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%s pull: invalid amount", b.symbol)
	}
	balance, ok := b.balances[identity]
	if !ok || balance.Cmp(amount) < 0 {
		return fmt.Errorf("%s pull: insufficient funds for %s", b.symbol, identity.Hex())
	}
	balance.Sub(balance, amount)
	b.pool.Add(b.pool, amount)
	return nil
}

// PushTo moves amount from pool custody to the identity.
func (b *Book) PushTo(identity common.Address, amount *big.Int) error {
	if hook := b.pushHook; hook != nil {
		if err := hook(identity, amount); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%s push: invalid amount", b.symbol)
	}
	if b.pool.Cmp(amount) < 0 {
		return fmt.Errorf("%s push: insufficient pool custody", b.symbol)
	}
	b.pool.Sub(b.pool, amount)
	balance, ok := b.balances[identity]
	if !ok {
		balance = big.NewInt(0)
		b.balances[identity] = balance
	}
	balance.Add(balance, amount)
	return nil
}

// PoolCustodyBalance returns a copy of the pool's custody balance.
func (b *Book) PoolCustodyBalance() *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(big.Int).Set(b.pool)
}
