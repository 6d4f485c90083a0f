package engine

import (
	"encoding/json"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
	"poolEngine/internal/model"
	"poolEngine/internal/storage"
	"poolEngine/internal/transfer"
)

// Swap fee: 1%, retained in the pool. The fee is never routed out; it
// permanently enlarges reserves in favor of remaining liquidity providers.
const (
	feeNumerator   = 100
	feeDenominator = 10000
)

// Engine implements the pool's mutating operations and query surface over
// an injected guard, ledger, and the two asset-transfer collaborators.
//
// Every entry point runs as a single critical section: the engine acquires
// its lock with TryLock, so a re-entrant call from inside a transfer
// callback (or a second concurrent mutating call) fails immediately with
// ErrReentrancyDetected instead of interleaving or waiting.
type Engine struct {
	guard  *guard.Guard
	ledger *ledger.Ledger
	base   transfer.Asset
	quote  transfer.Asset
	sink   storage.EventSink
	logger *zap.Logger

	mu    sync.Mutex
	memos map[common.Address]Memo
	seq   uint64
}

// New builds an Engine with its dependencies.
func New(g *guard.Guard, l *ledger.Ledger, base, quote transfer.Asset, sink storage.EventSink, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = storage.NopSink{}
	}
	return &Engine{
		guard:  g,
		ledger: l,
		base:   base,
		quote:  quote,
		sink:   sink,
		logger: logger,
		memos:  make(map[common.Address]Memo),
	}
}

// enter acquires the operation lock for a mutating entry point. It never
// blocks: a held lock means an operation is already executing and the new
// call must fail.
func (e *Engine) enter() error {
	if !e.mu.TryLock() {
		return ErrReentrancyDetected
	}
	return nil
}

func (e *Engine) exit() {
	e.mu.Unlock()
}

// checkActive fails fast when the pool is paused or the identity is zero.
func (e *Engine) checkActive(identity common.Address) error {
	if e.guard.IsPaused() {
		return guard.ErrPoolPaused
	}
	if identity == (common.Address{}) {
		return ErrZeroIdentity
	}
	return nil
}

// Pause moves the pool to Paused. Requires the pauser role.
func (e *Engine) Pause(actor common.Address) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if actor == (common.Address{}) {
		return ErrZeroIdentity
	}
	if !e.guard.CheckPermission(actor, guard.RolePauser) {
		return guard.ErrUnauthorized
	}
	if err := e.guard.Pause(); err != nil {
		return err
	}
	e.logger.Info("pool paused", zap.String("actor", actor.Hex()))
	return nil
}

// Unpause moves the pool back to Active. Requires the pauser role.
func (e *Engine) Unpause(actor common.Address) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if actor == (common.Address{}) {
		return ErrZeroIdentity
	}
	if !e.guard.CheckPermission(actor, guard.RolePauser) {
		return guard.ErrUnauthorized
	}
	if err := e.guard.Unpause(); err != nil {
		return err
	}
	e.logger.Info("pool unpaused", zap.String("actor", actor.Hex()))
	return nil
}

// GrantRole assigns a role. Requires the admin role; mutates only the
// permission collaborator, never pool accounting.
func (e *Engine) GrantRole(actor, identity common.Address, role guard.Role) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if actor == (common.Address{}) || identity == (common.Address{}) {
		return ErrZeroIdentity
	}
	if !e.guard.CheckPermission(actor, guard.RoleAdmin) {
		return guard.ErrUnauthorized
	}
	e.guard.Grant(identity, role)
	e.logger.Info("role granted", zap.String("actor", actor.Hex()), zap.String("identity", identity.Hex()), zap.String("role", string(role)))
	return nil
}

// RevokeRole removes a role. Requires the admin role.
func (e *Engine) RevokeRole(actor, identity common.Address, role guard.Role) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if actor == (common.Address{}) || identity == (common.Address{}) {
		return ErrZeroIdentity
	}
	if !e.guard.CheckPermission(actor, guard.RoleAdmin) {
		return guard.ErrUnauthorized
	}
	e.guard.Revoke(identity, role)
	e.logger.Info("role revoked", zap.String("actor", actor.Hex()), zap.String("identity", identity.Hex()), zap.String("role", string(role)))
	return nil
}

// Reserves returns copies of the accounted base and quote reserves.
func (e *Engine) Reserves() (*big.Int, *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.ReserveBase(), e.ledger.ReserveQuote()
}

// TotalShares returns a copy of the total-share counter.
func (e *Engine) TotalShares() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalShares()
}

// SharesOf returns a copy of the identity's share balance.
func (e *Engine) SharesOf(identity common.Address) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SharesOf(identity)
}

// TotalBaseCustody returns the base asset custody attributed to the pool.
func (e *Engine) TotalBaseCustody() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.PoolCustodyBalance()
}

// TotalQuoteCustody returns the quote asset custody attributed to the pool.
func (e *Engine) TotalQuoteCustody() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote.PoolCustodyBalance()
}

// IsPaused reports the administrative state.
func (e *Engine) IsPaused() bool {
	return e.guard.IsPaused()
}

// emit journals a domain event and logs it. Settlement has already
// happened when emit runs, so a journal failure is logged rather than
// unwinding the operation.
func (e *Engine) emit(name string, actor common.Address, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("marshal event", zap.Error(err), zap.String("event", name))
		return
	}

	e.seq++
	now := time.Now().UTC()
	record := model.EventRecord{
		Seq:       e.seq,
		EventName: name,
		Actor:     actor.Hex(),
		Timestamp: uint64(now.Unix()),
		EmittedAt: now.Format(time.RFC3339Nano),
		Payload:   data,
	}

	if err := e.sink.PutEventBatch([]model.EventRecord{record}); err != nil {
		e.logger.Warn("journal event", zap.Error(err), zap.String("event", name), zap.Uint64("seq", record.Seq))
	}
	e.logger.Info(name, zap.Uint64("seq", record.Seq), zap.String("actor", actor.Hex()))
}

// compensate reverses an already executed transfer after a later step
// failed. A compensation failure cannot be recovered from; it is logged
// and the original failure is still what the caller sees.
func (e *Engine) compensate(asset transfer.Asset, push bool, identity common.Address, amount *big.Int) {
	var err error
	if push {
		err = asset.PushTo(identity, amount)
	} else {
		err = asset.PullFrom(identity, amount)
	}
	if err != nil {
		e.logger.Error("transfer compensation failed",
			zap.Error(err),
			zap.String("identity", identity.Hex()),
			zap.String("amount", amount.String()),
		)
	}
}
