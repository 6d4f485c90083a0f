package sim

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolEngine/internal/engine"
	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
	"poolEngine/internal/storage"
	"poolEngine/internal/transfer"
)

// RunConfig holds runtime settings for a simulation.
type RunConfig struct {
	Seed     int64
	Steps    int
	Actors   int
	MaxBase  int64
	MaxQuote int64
}

// Runner drives a pool through a seeded random sequence of operations,
// verifying accounting invariants after every step.
type Runner struct {
	cfg    RunConfig
	eng    *engine.Engine
	base   *transfer.Book
	quote  *transfer.Book
	sink   storage.EventSink
	logger *zap.Logger
	rng    *rand.Rand
	actors []common.Address
}

// Report summarizes a completed simulation.
type Report struct {
	Steps       int
	Applied     int
	Rejected    int
	FinalBase   *big.Int
	FinalQuote  *big.Int
	FinalShares *big.Int
}

func NewRunner(cfg RunConfig, sink storage.EventSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Steps <= 0 {
		cfg.Steps = 1000
	}
	if cfg.Actors <= 0 {
		cfg.Actors = 4
	}
	if cfg.MaxBase <= 0 {
		cfg.MaxBase = 1_000
	}
	if cfg.MaxQuote <= 0 {
		cfg.MaxQuote = 10_000
	}
	if sink == nil {
		sink = storage.NopSink{}
	}

	base := transfer.NewBook("BASE")
	quote := transfer.NewBook("QUOTE")
	eng := engine.New(guard.New(guard.NewStaticPermissions()), ledger.New(), base, quote, sink, logger)

	rng := rand.New(rand.NewSource(cfg.Seed))
	actors := make([]common.Address, cfg.Actors)
	for i := range actors {
		actors[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}

	return &Runner{
		cfg:    cfg,
		eng:    eng,
		base:   base,
		quote:  quote,
		sink:   sink,
		logger: logger,
		rng:    rng,
		actors: actors,
	}
}

// Run executes the simulation loop.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	for _, actor := range r.actors {
		r.base.Fund(actor, big.NewInt(r.cfg.MaxBase*int64(r.cfg.Steps)))
		r.quote.Fund(actor, big.NewInt(r.cfg.MaxQuote*int64(r.cfg.Steps)))
	}

	report := &Report{Steps: r.cfg.Steps}

	for step := 0; step < r.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		actor := r.actors[r.rng.Intn(len(r.actors))]
		opErr := r.step(actor)
		if opErr == nil {
			report.Applied++
		} else if isExpectedRejection(opErr) {
			report.Rejected++
		} else {
			return nil, fmt.Errorf("step %d: %w", step, opErr)
		}

		if err := r.eng.CheckInvariants(); err != nil {
			return nil, fmt.Errorf("invariant violated at step %d: %w", step, err)
		}
	}

	report.FinalBase, report.FinalQuote = r.eng.Reserves()
	report.FinalShares = r.eng.TotalShares()

	r.logger.Info("simulation complete",
		zap.Int("steps", report.Steps),
		zap.Int("applied", report.Applied),
		zap.Int("rejected", report.Rejected),
		zap.String("reserve_base", report.FinalBase.String()),
		zap.String("reserve_quote", report.FinalQuote.String()),
		zap.String("total_shares", report.FinalShares.String()),
	)

	return report, nil
}

func (r *Runner) step(actor common.Address) error {
	switch r.rng.Intn(4) {
	case 0:
		baseIn := big.NewInt(1 + r.rng.Int63n(r.cfg.MaxBase))
		quoteMax := big.NewInt(1 + r.rng.Int63n(r.cfg.MaxQuote))
		_, err := r.eng.AddLiquidity(actor, baseIn, quoteMax)
		return err
	case 1:
		held := r.eng.SharesOf(actor)
		if held.Sign() == 0 {
			return engine.ErrInsufficientSharesAmount
		}
		sharesIn := new(big.Int).Rsh(held, uint(r.rng.Intn(3)))
		if sharesIn.Sign() == 0 {
			sharesIn = big.NewInt(1)
		}
		_, err := r.eng.RemoveLiquidity(actor, sharesIn)
		return err
	case 2:
		baseIn := big.NewInt(1 + r.rng.Int63n(r.cfg.MaxBase))
		_, err := r.eng.SwapBaseForQuote(actor, baseIn)
		return err
	default:
		quoteIn := big.NewInt(1 + r.rng.Int63n(r.cfg.MaxQuote))
		_, err := r.eng.SwapQuoteForBase(actor, quoteIn)
		return err
	}
}

// isExpectedRejection reports whether an operation error is a normal
// validation outcome rather than an accounting failure.
func isExpectedRejection(err error) bool {
	return errors.Is(err, engine.ErrInsufficientBaseAmount) ||
		errors.Is(err, engine.ErrInsufficientQuoteAmount) ||
		errors.Is(err, engine.ErrInsufficientSharesAmount) ||
		errors.Is(err, engine.ErrInsufficientSharesMinted) ||
		errors.Is(err, engine.ErrInvalidOutputAmount) ||
		errors.Is(err, engine.ErrTransferFailed) ||
		errors.Is(err, ledger.ErrInsufficientShares)
}
