package engine

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
	"poolEngine/internal/storage"
	"poolEngine/internal/transfer"
)

var (
	alice  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	admin  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	pauser = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type fixture struct {
	engine *Engine
	base   *transfer.Book
	quote  *transfer.Book
	perms  *guard.StaticPermissions
	sink   *storage.MemorySink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	perms := guard.NewStaticPermissions()
	perms.Grant(admin, guard.RoleAdmin)
	perms.Grant(pauser, guard.RolePauser)

	base := transfer.NewBook("base")
	quote := transfer.NewBook("quote")
	sink := storage.NewMemorySink()
	eng := New(guard.New(perms), ledger.New(), base, quote, sink, zap.NewNop())

	return &fixture{engine: eng, base: base, quote: quote, perms: perms, sink: sink}
}

func (f *fixture) fund(t *testing.T, identity common.Address, baseAmt, quoteAmt int64) {
	t.Helper()
	f.base.Fund(identity, big.NewInt(baseAmt))
	f.quote.Fund(identity, big.NewInt(quoteAmt))
}

func (f *fixture) mustAdd(t *testing.T, provider common.Address, baseIn, quoteMax int64) AddLiquidityResult {
	t.Helper()
	res, err := f.engine.AddLiquidity(provider, big.NewInt(baseIn), big.NewInt(quoteMax))
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	return res
}

func (f *fixture) mustInvariants(t *testing.T) {
	t.Helper()
	if err := f.engine.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestPauseGating(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	if err := f.engine.Pause(pauser); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !f.engine.IsPaused() {
		t.Fatalf("engine should report paused")
	}

	if _, err := f.engine.AddLiquidity(alice, big.NewInt(1), big.NewInt(10)); !errors.Is(err, guard.ErrPoolPaused) {
		t.Fatalf("add while paused = %v, want ErrPoolPaused", err)
	}
	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(1)); !errors.Is(err, guard.ErrPoolPaused) {
		t.Fatalf("remove while paused = %v, want ErrPoolPaused", err)
	}
	if _, err := f.engine.SwapBaseForQuote(alice, big.NewInt(1)); !errors.Is(err, guard.ErrPoolPaused) {
		t.Fatalf("swap base while paused = %v, want ErrPoolPaused", err)
	}
	if _, err := f.engine.SwapQuoteForBase(alice, big.NewInt(1)); !errors.Is(err, guard.ErrPoolPaused) {
		t.Fatalf("swap quote while paused = %v, want ErrPoolPaused", err)
	}

	// No state may change behind a paused gate.
	reserveBase, reserveQuote := f.engine.Reserves()
	if reserveBase.Cmp(big.NewInt(10)) != 0 || reserveQuote.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("reserves changed while paused: (%s, %s)", reserveBase, reserveQuote)
	}
	f.mustInvariants(t)

	if err := f.engine.Unpause(pauser); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := f.engine.SwapBaseForQuote(alice, big.NewInt(5)); err != nil {
		t.Fatalf("swap after unpause: %v", err)
	}
}

func TestPauseRequiresPauserRole(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.Pause(alice); !errors.Is(err, guard.ErrUnauthorized) {
		t.Fatalf("pause by non-pauser = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.Unpause(alice); !errors.Is(err, guard.ErrUnauthorized) {
		t.Fatalf("unpause by non-pauser = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.Pause(common.Address{}); !errors.Is(err, ErrZeroIdentity) {
		t.Fatalf("pause by zero identity = %v, want ErrZeroIdentity", err)
	}
}

func TestRoleAdministration(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.GrantRole(alice, bob, guard.RolePauser); !errors.Is(err, guard.ErrUnauthorized) {
		t.Fatalf("grant by non-admin = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.GrantRole(admin, common.Address{}, guard.RolePauser); !errors.Is(err, ErrZeroIdentity) {
		t.Fatalf("grant to zero identity = %v, want ErrZeroIdentity", err)
	}

	if err := f.engine.GrantRole(admin, bob, guard.RolePauser); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := f.engine.Pause(bob); err != nil {
		t.Fatalf("pause by granted pauser: %v", err)
	}
	if err := f.engine.Unpause(bob); err != nil {
		t.Fatalf("unpause: %v", err)
	}

	if err := f.engine.RevokeRole(admin, bob, guard.RolePauser); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := f.engine.Pause(bob); !errors.Is(err, guard.ErrUnauthorized) {
		t.Fatalf("pause after revoke = %v, want ErrUnauthorized", err)
	}
}

func TestReentrantCallFails(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 100, 100)

	// Re-enter from inside the base push of a withdrawal. The inner call
	// must fail with ErrReentrancyDetected; the outer one proceeds.
	var innerErr error
	f.base.SetPushHook(func(common.Address, *big.Int) error {
		_, innerErr = f.engine.SwapBaseForQuote(alice, big.NewInt(10))
		return nil
	})

	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(50)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !errors.Is(innerErr, ErrReentrancyDetected) {
		t.Fatalf("inner call = %v, want ErrReentrancyDetected", innerErr)
	}

	f.base.SetPushHook(nil)
	f.mustInvariants(t)
}

func TestReentrantAbortLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 100, 100)

	sharesBefore := f.engine.SharesOf(alice)
	baseBefore, quoteBefore := f.engine.Reserves()

	// The callback both re-enters and propagates the failure, aborting
	// the outer operation.
	f.base.SetPushHook(func(common.Address, *big.Int) error {
		_, err := f.engine.RemoveLiquidity(alice, big.NewInt(1))
		return err
	})

	_, err := f.engine.RemoveLiquidity(alice, big.NewInt(50))
	if !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("outer remove = %v, want ErrTransferFailed", err)
	}

	f.base.SetPushHook(nil)

	if got := f.engine.SharesOf(alice); got.Cmp(sharesBefore) != 0 {
		t.Fatalf("shares changed: %s != %s", got, sharesBefore)
	}
	baseAfter, quoteAfter := f.engine.Reserves()
	if baseAfter.Cmp(baseBefore) != 0 || quoteAfter.Cmp(quoteBefore) != 0 {
		t.Fatalf("reserves changed: (%s, %s) != (%s, %s)", baseAfter, quoteAfter, baseBefore, quoteBefore)
	}
	f.mustInvariants(t)
}

func TestEventsJournaled(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)

	f.mustAdd(t, alice, 10, 100)
	if _, err := f.engine.SwapBaseForQuote(alice, big.NewInt(5)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if _, err := f.engine.RemoveLiquidity(alice, big.NewInt(10)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	events := f.sink.Events()
	if len(events) != 3 {
		t.Fatalf("journaled %d events, want 3", len(events))
	}
	wantNames := []string{"liquidity_added", "base_to_quote_swap", "liquidity_removed"}
	for i, event := range events {
		if event.EventName != wantNames[i] {
			t.Fatalf("event %d = %s, want %s", i, event.EventName, wantNames[i])
		}
		if event.Seq != uint64(i+1) {
			t.Fatalf("event %d seq = %d, want %d", i, event.Seq, i+1)
		}
		if event.Actor != alice.Hex() {
			t.Fatalf("event %d actor = %s", i, event.Actor)
		}
	}
}

func TestQuerySurface(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1000, 1000)
	f.mustAdd(t, alice, 10, 100)

	if got := f.engine.TotalShares(); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("total shares = %s, want 10", got)
	}
	if got := f.engine.SharesOf(alice); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("shares of alice = %s, want 10", got)
	}
	if got := f.engine.SharesOf(bob); got.Sign() != 0 {
		t.Fatalf("shares of bob = %s, want 0", got)
	}
	if got := f.engine.TotalBaseCustody(); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("base custody = %s, want 10", got)
	}
	if got := f.engine.TotalQuoteCustody(); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("quote custody = %s, want 100", got)
	}
}
