package transfer

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var holder = common.HexToAddress("0x3333333333333333333333333333333333333333")

func TestPullPush(t *testing.T) {
	b := NewBook("base")
	b.Fund(holder, big.NewInt(100))

	if err := b.PullFrom(holder, big.NewInt(60)); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got := b.PoolCustodyBalance(); got.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("pool custody = %s, want 60", got)
	}
	if got := b.BalanceOf(holder); got.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("holder balance = %s, want 40", got)
	}

	if err := b.PushTo(holder, big.NewInt(60)); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := b.PoolCustodyBalance(); got.Sign() != 0 {
		t.Fatalf("pool custody = %s, want 0", got)
	}
}

func TestPullInsufficientFunds(t *testing.T) {
	b := NewBook("quote")
	b.Fund(holder, big.NewInt(5))
	if err := b.PullFrom(holder, big.NewInt(6)); err == nil {
		t.Fatalf("expected pull failure")
	}
	if got := b.BalanceOf(holder); got.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("holder balance changed on failed pull: %s", got)
	}
}

func TestPushBeyondCustody(t *testing.T) {
	b := NewBook("base")
	if err := b.PushTo(holder, big.NewInt(1)); err == nil {
		t.Fatalf("expected push failure")
	}
}

func TestHooksAbortTransfer(t *testing.T) {
	b := NewBook("base")
	b.Fund(holder, big.NewInt(10))

	boom := errors.New("boom")
	b.SetPullHook(func(common.Address, *big.Int) error { return boom })

	if err := b.PullFrom(holder, big.NewInt(1)); !errors.Is(err, boom) {
		t.Fatalf("pull = %v, want hook error", err)
	}
	if got := b.BalanceOf(holder); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("balance changed despite aborted pull: %s", got)
	}
}
