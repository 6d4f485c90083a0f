package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger errors. Every mutation is checked and fails with one of these
// instead of wrapping or going negative.
var (
	ErrOverflow            = errors.New("arithmetic overflow")
	ErrUnderflow           = errors.New("arithmetic underflow")
	ErrInsufficientReserve = errors.New("insufficient reserve")
	ErrInsufficientShares  = errors.New("insufficient shares")
)

// maxValue caps every balance at 2^256-1 so the accounting stays within
// the range of the on-ledger asset representation.
var maxValue = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Ledger is the exclusive owner of the pool's two reserve balances, the
// total-share counter, and per-holder share balances. Callers never mutate
// these directly; all changes go through the checked operations below.
type Ledger struct {
	reserveBase  *big.Int
	reserveQuote *big.Int
	totalShares  *big.Int
	shares       map[common.Address]*big.Int
}

// New returns an empty ledger: zero reserves, zero shares.
func New() *Ledger {
	return &Ledger{
		reserveBase:  big.NewInt(0),
		reserveQuote: big.NewInt(0),
		totalShares:  big.NewInt(0),
		shares:       make(map[common.Address]*big.Int),
	}
}

// CreditBase increases the base reserve by amount.
func (l *Ledger) CreditBase(amount *big.Int) error {
	return credit(l.reserveBase, amount)
}

// CreditQuote increases the quote reserve by amount.
func (l *Ledger) CreditQuote(amount *big.Int) error {
	return credit(l.reserveQuote, amount)
}

// DebitBase decreases the base reserve by amount.
func (l *Ledger) DebitBase(amount *big.Int) error {
	return debit(l.reserveBase, amount)
}

// DebitQuote decreases the quote reserve by amount.
func (l *Ledger) DebitQuote(amount *big.Int) error {
	return debit(l.reserveQuote, amount)
}

// MintShares increases totalShares and the holder's balance by amount.
// The holder's account is created lazily on first mint.
func (l *Ledger) MintShares(holder common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	next := new(big.Int).Add(l.totalShares, amount)
	if next.Cmp(maxValue) > 0 {
		return ErrOverflow
	}
	balance, ok := l.shares[holder]
	if !ok {
		balance = big.NewInt(0)
		l.shares[holder] = balance
	}
	balance.Add(balance, amount)
	l.totalShares.Set(next)
	return nil
}

// BurnShares decreases totalShares and the holder's balance by amount.
// Accounts are never removed; a fully burned holder settles at zero.
func (l *Ledger) BurnShares(holder common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	balance, ok := l.shares[holder]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientShares
	}
	if l.totalShares.Cmp(amount) < 0 {
		return ErrUnderflow
	}
	balance.Sub(balance, amount)
	l.totalShares.Sub(l.totalShares, amount)
	return nil
}

// ReserveBase returns a copy of the base reserve.
func (l *Ledger) ReserveBase() *big.Int {
	return new(big.Int).Set(l.reserveBase)
}

// ReserveQuote returns a copy of the quote reserve.
func (l *Ledger) ReserveQuote() *big.Int {
	return new(big.Int).Set(l.reserveQuote)
}

// TotalShares returns a copy of the total-share counter.
func (l *Ledger) TotalShares() *big.Int {
	return new(big.Int).Set(l.totalShares)
}

// SharesOf returns a copy of the holder's share balance, zero if none.
func (l *Ledger) SharesOf(holder common.Address) *big.Int {
	if balance, ok := l.shares[holder]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// SharesSum returns the sum over all share accounts. It exists so callers
// can verify the conservation invariant sum(shares) == totalShares.
func (l *Ledger) SharesSum() *big.Int {
	sum := big.NewInt(0)
	for _, balance := range l.shares {
		sum.Add(sum, balance)
	}
	return sum
}

// Snapshot captures the full ledger state so a failing operation can roll
// back to exactly the pre-call state.
type Snapshot struct {
	reserveBase  *big.Int
	reserveQuote *big.Int
	totalShares  *big.Int
	shares       map[common.Address]*big.Int
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() *Snapshot {
	shares := make(map[common.Address]*big.Int, len(l.shares))
	for holder, balance := range l.shares {
		shares[holder] = new(big.Int).Set(balance)
	}
	return &Snapshot{
		reserveBase:  new(big.Int).Set(l.reserveBase),
		reserveQuote: new(big.Int).Set(l.reserveQuote),
		totalShares:  new(big.Int).Set(l.totalShares),
		shares:       shares,
	}
}

// Restore replaces the ledger state with the snapshot contents.
func (l *Ledger) Restore(s *Snapshot) {
	l.reserveBase.Set(s.reserveBase)
	l.reserveQuote.Set(s.reserveQuote)
	l.totalShares.Set(s.totalShares)
	l.shares = make(map[common.Address]*big.Int, len(s.shares))
	for holder, balance := range s.shares {
		l.shares[holder] = new(big.Int).Set(balance)
	}
}

func credit(reserve, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	next := new(big.Int).Add(reserve, amount)
	if next.Cmp(maxValue) > 0 {
		return ErrOverflow
	}
	reserve.Set(next)
	return nil
}

func debit(reserve, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if reserve.Cmp(amount) < 0 {
		return ErrInsufficientReserve
	}
	reserve.Sub(reserve, amount)
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrUnderflow
	}
	return nil
}
