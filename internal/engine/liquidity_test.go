package engine

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
)

func TestFirstDeposit(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)

	res := f.mustAdd(t, alice, 10, 100)

	// The first depositor's declared quote amount becomes the initial
	// quote reserve directly; shares minted equal the base amount.
	if res.SharesMinted.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("shares minted = %s, want 10", res.SharesMinted)
	}
	if res.QuoteIn.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("quote pulled = %s, want 100", res.QuoteIn)
	}

	reserveBase, reserveQuote := f.engine.Reserves()
	if reserveBase.Cmp(big.NewInt(10)) != 0 || reserveQuote.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("reserves = (%s, %s), want (10, 100)", reserveBase, reserveQuote)
	}
	if got := f.base.BalanceOf(alice); got.Cmp(big.NewInt(990)) != 0 {
		t.Fatalf("alice base balance = %s, want 990", got)
	}
	if got := f.quote.BalanceOf(alice); got.Cmp(big.NewInt(900)) != 0 {
		t.Fatalf("alice quote balance = %s, want 900", got)
	}
	f.mustInvariants(t)
}

func TestProportionalDeposit(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.fund(t, bob, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	res := f.mustAdd(t, bob, 20, 250)

	// Exactly the proportional requirement is pulled, not quoteMax.
	if res.QuoteIn.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("quote pulled = %s, want 200", res.QuoteIn)
	}
	if res.SharesMinted.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("shares minted = %s, want 20", res.SharesMinted)
	}
	if got := f.quote.BalanceOf(bob); got.Cmp(big.NewInt(800)) != 0 {
		t.Fatalf("bob quote balance = %s, want 800", got)
	}
	if got := f.engine.TotalShares(); got.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("total shares = %s, want 30", got)
	}
	f.mustInvariants(t)
}

func TestDepositQuoteBoundTooLow(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.fund(t, bob, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	_, err := f.engine.AddLiquidity(bob, big.NewInt(20), big.NewInt(99))
	if !errors.Is(err, ErrInsufficientQuoteAmount) {
		t.Fatalf("add = %v, want ErrInsufficientQuoteAmount", err)
	}
	if got := f.engine.TotalShares(); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("total shares changed: %s", got)
	}
	f.mustInvariants(t)
}

func TestDepositValidation(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)

	cases := []struct {
		name     string
		provider common.Address
		baseIn   *big.Int
		quoteMax *big.Int
		want     error
	}{
		{"zero base", alice, big.NewInt(0), big.NewInt(10), ErrInsufficientBaseAmount},
		{"nil base", alice, nil, big.NewInt(10), ErrInsufficientBaseAmount},
		{"zero quote", alice, big.NewInt(10), big.NewInt(0), ErrInsufficientQuoteAmount},
		{"zero identity", common.Address{}, big.NewInt(10), big.NewInt(10), ErrZeroIdentity},
	}
	for _, tc := range cases {
		if _, err := f.engine.AddLiquidity(tc.provider, tc.baseIn, tc.quoteMax); !errors.Is(err, tc.want) {
			t.Fatalf("%s: add = %v, want %v", tc.name, err, tc.want)
		}
	}
	f.mustInvariants(t)
}

func TestDepositZeroSharesRejected(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	// A swap grows the base reserve past totalShares, so a one-unit
	// deposit floors to zero shares.
	if _, err := f.engine.SwapBaseForQuote(alice, big.NewInt(10)); err != nil {
		t.Fatalf("swap: %v", err)
	}

	_, err := f.engine.AddLiquidity(alice, big.NewInt(1), big.NewInt(1000))
	if !errors.Is(err, ErrInsufficientSharesMinted) {
		t.Fatalf("add = %v, want ErrInsufficientSharesMinted", err)
	}
	f.mustInvariants(t)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)

	res := f.mustAdd(t, alice, 10, 100)
	out, err := f.engine.RemoveLiquidity(alice, res.SharesMinted)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	// No loss or gain from a round trip with no intervening swaps.
	if out.BaseOut.Cmp(big.NewInt(10)) != 0 || out.QuoteOut.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("round trip returned (%s, %s), want (10, 100)", out.BaseOut, out.QuoteOut)
	}
	if got := f.base.BalanceOf(alice); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("alice base balance = %s, want 1000", got)
	}
	if got := f.quote.BalanceOf(alice); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("alice quote balance = %s, want 1000", got)
	}
	if got := f.engine.TotalShares(); got.Sign() != 0 {
		t.Fatalf("total shares = %s, want 0", got)
	}
	f.mustInvariants(t)
}

func TestProportionalWithdrawal(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	out, err := f.engine.RemoveLiquidity(alice, big.NewInt(5))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if out.BaseOut.Cmp(big.NewInt(5)) != 0 || out.QuoteOut.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("half withdrawal returned (%s, %s), want (5, 50)", out.BaseOut, out.QuoteOut)
	}
	if got := f.engine.SharesOf(alice); got.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("remaining shares = %s, want 5", got)
	}
	f.mustInvariants(t)
}

func TestWithdrawalValidation(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(0)); !errors.Is(err, ErrInsufficientSharesAmount) {
		t.Fatalf("remove zero = %v, want ErrInsufficientSharesAmount", err)
	}
	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(11)); !errors.Is(err, ledger.ErrInsufficientShares) {
		t.Fatalf("remove beyond balance = %v, want ErrInsufficientShares", err)
	}
	if _, err := f.engine.RemoveLiquidity(bob, big.NewInt(1)); !errors.Is(err, ledger.ErrInsufficientShares) {
		t.Fatalf("remove by non-holder = %v, want ErrInsufficientShares", err)
	}
	f.mustInvariants(t)
}

func TestMemoOverwrittenWholesale(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)

	memo := f.engine.PendingMemo(alice)
	if memo.SharesMinted.Sign() != 0 || memo.BaseReturned.Sign() != 0 || memo.QuoteReturned.Sign() != 0 {
		t.Fatalf("fresh memo not zero: %+v", memo)
	}

	f.mustAdd(t, alice, 10, 100)
	memo = f.engine.PendingMemo(alice)
	if memo.SharesMinted.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("memo shares = %s, want 10", memo.SharesMinted)
	}
	if memo.BaseReturned.Sign() != 0 || memo.QuoteReturned.Sign() != 0 {
		t.Fatalf("memo returned amounts not zeroed: %+v", memo)
	}

	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(5)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	memo = f.engine.PendingMemo(alice)
	if memo.SharesMinted.Sign() != 0 {
		t.Fatalf("memo shares not zeroed after remove: %s", memo.SharesMinted)
	}
	if memo.BaseReturned.Cmp(big.NewInt(5)) != 0 || memo.QuoteReturned.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("memo returned = (%s, %s), want (5, 50)", memo.BaseReturned, memo.QuoteReturned)
	}

	// The memo is per identity; bob's slot is untouched.
	if other := f.engine.PendingMemo(bob); other.SharesMinted.Sign() != 0 {
		t.Fatalf("bob memo = %+v, want zeros", other)
	}
}

func TestDepositTransferFailureRolledBack(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 50) // not enough quote for the deposit

	_, err := f.engine.AddLiquidity(alice, big.NewInt(10), big.NewInt(100))
	if !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("add = %v, want ErrTransferFailed", err)
	}

	// The attached base must be refunded and no state recorded.
	if got := f.base.BalanceOf(alice); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("alice base balance = %s, want 1000", got)
	}
	if got := f.engine.TotalShares(); got.Sign() != 0 {
		t.Fatalf("total shares = %s, want 0", got)
	}
	if memo := f.engine.PendingMemo(alice); memo.SharesMinted.Sign() != 0 {
		t.Fatalf("memo written on failed call: %+v", memo)
	}
	f.mustInvariants(t)
}

func TestPausedDepositUntouched(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	if err := f.engine.Pause(pauser); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := f.engine.AddLiquidity(alice, big.NewInt(10), big.NewInt(100)); !errors.Is(err, guard.ErrPoolPaused) {
		t.Fatalf("add = %v, want ErrPoolPaused", err)
	}
	if got := f.base.BalanceOf(alice); got.Cmp(big.NewInt(990)) != 0 {
		t.Fatalf("alice base balance = %s, want 990", got)
	}
	f.mustInvariants(t)
}
