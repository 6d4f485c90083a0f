package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"poolEngine/internal/ledger"
	"poolEngine/internal/model"
)

// AddLiquidityResult reports the settled amounts of a deposit.
type AddLiquidityResult struct {
	// QuoteIn is the quote amount actually pulled from the provider:
	// quoteMax on the first deposit, the proportional requirement after.
	QuoteIn      *big.Int
	SharesMinted *big.Int
}

// RemoveLiquidityResult reports the settled amounts of a withdrawal.
type RemoveLiquidityResult struct {
	BaseOut  *big.Int
	QuoteOut *big.Int
}

// AddLiquidity deposits baseIn base asset plus quote asset into the pool
// and mints pool shares to the provider. quoteMax is the upper bound on
// quote the provider is willing to supply.
//
// On the first deposit the declared quote amount becomes the initial quote
// reserve directly and sharesMinted equals baseIn; the initial price is
// whatever ratio the first depositor chooses. Afterwards the quote
// requirement and share mint are proportional to the pre-trade reserves,
// floor division throughout.
func (e *Engine) AddLiquidity(provider common.Address, baseIn, quoteMax *big.Int) (AddLiquidityResult, error) {
	if err := e.enter(); err != nil {
		return AddLiquidityResult{}, err
	}
	defer e.exit()

	if err := e.checkActive(provider); err != nil {
		return AddLiquidityResult{}, err
	}
	if baseIn == nil || baseIn.Sign() <= 0 {
		return AddLiquidityResult{}, ErrInsufficientBaseAmount
	}
	if quoteMax == nil || quoteMax.Sign() <= 0 {
		return AddLiquidityResult{}, ErrInsufficientQuoteAmount
	}

	// Pre-trade reserves: baseIn arrives with the call and is excluded
	// until the deposit settles.
	reserveBase := e.ledger.ReserveBase()
	reserveQuote := e.ledger.ReserveQuote()
	totalShares := e.ledger.TotalShares()

	var quoteIn, sharesMinted *big.Int
	if reserveBase.Sign() == 0 && reserveQuote.Sign() == 0 {
		quoteIn = new(big.Int).Set(quoteMax)
		sharesMinted = new(big.Int).Set(baseIn)
	} else {
		quoteIn = new(big.Int).Mul(baseIn, reserveQuote)
		quoteIn.Div(quoteIn, reserveBase)
		if quoteMax.Cmp(quoteIn) < 0 {
			return AddLiquidityResult{}, ErrInsufficientQuoteAmount
		}
		sharesMinted = new(big.Int).Mul(totalShares, baseIn)
		sharesMinted.Div(sharesMinted, reserveBase)
		if sharesMinted.Sign() == 0 {
			return AddLiquidityResult{}, ErrInsufficientSharesMinted
		}
	}

	snap := e.ledger.Snapshot()

	if err := e.base.PullFrom(provider, baseIn); err != nil {
		return AddLiquidityResult{}, fmt.Errorf("%w: pull base: %v", ErrTransferFailed, err)
	}
	if err := e.quote.PullFrom(provider, quoteIn); err != nil {
		e.compensate(e.base, true, provider, baseIn)
		return AddLiquidityResult{}, fmt.Errorf("%w: pull quote: %v", ErrTransferFailed, err)
	}

	if err := e.settleDeposit(provider, baseIn, quoteIn, sharesMinted); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, true, provider, baseIn)
		e.compensate(e.quote, true, provider, quoteIn)
		return AddLiquidityResult{}, err
	}

	e.setMemo(provider, Memo{
		SharesMinted:  new(big.Int).Set(sharesMinted),
		BaseReturned:  big.NewInt(0),
		QuoteReturned: big.NewInt(0),
	})

	e.emit(model.EventLiquidityAdded, provider, model.LiquidityAddedEvent{
		Provider:     provider.Hex(),
		BaseIn:       baseIn.String(),
		QuoteIn:      quoteIn.String(),
		SharesMinted: sharesMinted.String(),
	})

	return AddLiquidityResult{QuoteIn: quoteIn, SharesMinted: sharesMinted}, nil
}

func (e *Engine) settleDeposit(provider common.Address, baseIn, quoteIn, sharesMinted *big.Int) error {
	if err := e.ledger.CreditBase(baseIn); err != nil {
		return err
	}
	if err := e.ledger.CreditQuote(quoteIn); err != nil {
		return err
	}
	return e.ledger.MintShares(provider, sharesMinted)
}

// RemoveLiquidity burns sharesIn of the provider's pool shares and returns
// the proportional slice of each reserve.
//
// Shares are burned before either transfer runs, so a re-entrant call from
// inside a transfer callback observes an already-reduced share balance.
// That ordering is safety-relevant; do not move the burn.
func (e *Engine) RemoveLiquidity(provider common.Address, sharesIn *big.Int) (RemoveLiquidityResult, error) {
	if err := e.enter(); err != nil {
		return RemoveLiquidityResult{}, err
	}
	defer e.exit()

	if err := e.checkActive(provider); err != nil {
		return RemoveLiquidityResult{}, err
	}
	if sharesIn == nil || sharesIn.Sign() <= 0 {
		return RemoveLiquidityResult{}, ErrInsufficientSharesAmount
	}
	if e.ledger.SharesOf(provider).Cmp(sharesIn) < 0 {
		return RemoveLiquidityResult{}, ledger.ErrInsufficientShares
	}

	totalShares := e.ledger.TotalShares()
	baseOut := new(big.Int).Mul(e.ledger.ReserveBase(), sharesIn)
	baseOut.Div(baseOut, totalShares)
	quoteOut := new(big.Int).Mul(e.ledger.ReserveQuote(), sharesIn)
	quoteOut.Div(quoteOut, totalShares)

	snap := e.ledger.Snapshot()

	if err := e.ledger.BurnShares(provider, sharesIn); err != nil {
		return RemoveLiquidityResult{}, err
	}

	if err := e.ledger.DebitBase(baseOut); err != nil {
		e.ledger.Restore(snap)
		return RemoveLiquidityResult{}, err
	}
	if err := e.base.PushTo(provider, baseOut); err != nil {
		e.ledger.Restore(snap)
		return RemoveLiquidityResult{}, fmt.Errorf("%w: push base: %v", ErrTransferFailed, err)
	}

	if err := e.ledger.DebitQuote(quoteOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, false, provider, baseOut)
		return RemoveLiquidityResult{}, err
	}
	if err := e.quote.PushTo(provider, quoteOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, false, provider, baseOut)
		return RemoveLiquidityResult{}, fmt.Errorf("%w: push quote: %v", ErrTransferFailed, err)
	}

	e.setMemo(provider, Memo{
		SharesMinted:  big.NewInt(0),
		BaseReturned:  new(big.Int).Set(baseOut),
		QuoteReturned: new(big.Int).Set(quoteOut),
	})

	e.emit(model.EventLiquidityRemoved, provider, model.LiquidityRemovedEvent{
		Provider:     provider.Hex(),
		BaseOut:      baseOut.String(),
		QuoteOut:     quoteOut.String(),
		SharesBurned: sharesIn.String(),
	})

	return RemoveLiquidityResult{BaseOut: baseOut, QuoteOut: quoteOut}, nil
}
