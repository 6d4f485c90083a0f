package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"poolEngine/internal/model"
)

// swapOutput prices amountIn against the given reserves:
//
//	out = floor( amountIn*(1-fee) * reserveOut / (reserveIn + amountIn*(1-fee)) )
//
// Both sides are scaled by feeDenominator so the fee adjustment stays exact
// and the only floor is the final division.
func swapOutput(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(feeDenominator-feeNumerator))
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(feeDenominator))
	denominator.Add(denominator, amountInWithFee)
	out := new(big.Int).Mul(amountInWithFee, reserveOut)
	return out.Div(out, denominator)
}

// SwapBaseForQuote trades baseIn base asset for quote asset at the
// fee-adjusted constant-product price and returns the quote amount sent to
// the trader.
//
// The base input arrives with the call envelope, so pricing uses the
// pre-trade base reserve: pool custody minus baseIn, which is exactly the
// accounted reserve before this deposit is credited.
func (e *Engine) SwapBaseForQuote(trader common.Address, baseIn *big.Int) (*big.Int, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	if err := e.checkActive(trader); err != nil {
		return nil, err
	}
	if baseIn == nil || baseIn.Sign() <= 0 {
		return nil, ErrInsufficientBaseAmount
	}

	reserveBase := e.ledger.ReserveBase()
	reserveQuote := e.ledger.ReserveQuote()

	if err := e.base.PullFrom(trader, baseIn); err != nil {
		return nil, fmt.Errorf("%w: pull base: %v", ErrTransferFailed, err)
	}

	quoteOut := swapOutput(baseIn, reserveBase, reserveQuote)

	// Zero output rejects degenerate trades; full drain is disallowed.
	if quoteOut.Sign() == 0 || quoteOut.Cmp(reserveQuote) >= 0 {
		e.compensate(e.base, true, trader, baseIn)
		return nil, ErrInvalidOutputAmount
	}

	snap := e.ledger.Snapshot()
	if err := e.ledger.CreditBase(baseIn); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, true, trader, baseIn)
		return nil, err
	}
	if err := e.ledger.DebitQuote(quoteOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, true, trader, baseIn)
		return nil, err
	}

	if err := e.quote.PushTo(trader, quoteOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.base, true, trader, baseIn)
		return nil, fmt.Errorf("%w: push quote: %v", ErrTransferFailed, err)
	}

	e.emit(model.EventBaseToQuoteSwap, trader, model.BaseToQuoteSwapEvent{
		Trader:   trader.Hex(),
		BaseIn:   baseIn.String(),
		QuoteOut: quoteOut.String(),
	})

	return quoteOut, nil
}

// SwapQuoteForBase trades quoteIn quote asset for base asset and returns
// the base amount sent to the trader.
//
// Unlike the base direction, the quote input is pulled explicitly before
// the reserves are read, so the quote reserve seen by the formula already
// includes quoteIn. Both directions share the constant-product-with-fee
// shape; the differing reserve-snapshot timing changes the effective rate
// and is part of the contract.
func (e *Engine) SwapQuoteForBase(trader common.Address, quoteIn *big.Int) (*big.Int, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	if err := e.checkActive(trader); err != nil {
		return nil, err
	}
	if quoteIn == nil || quoteIn.Sign() <= 0 {
		return nil, ErrInsufficientQuoteAmount
	}

	if err := e.quote.PullFrom(trader, quoteIn); err != nil {
		return nil, fmt.Errorf("%w: pull quote: %v", ErrTransferFailed, err)
	}

	snap := e.ledger.Snapshot()
	if err := e.ledger.CreditQuote(quoteIn); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.quote, true, trader, quoteIn)
		return nil, err
	}

	reserveBase := e.ledger.ReserveBase()
	reserveQuote := e.ledger.ReserveQuote()

	baseOut := swapOutput(quoteIn, reserveQuote, reserveBase)

	if baseOut.Sign() == 0 || baseOut.Cmp(reserveBase) >= 0 {
		e.ledger.Restore(snap)
		e.compensate(e.quote, true, trader, quoteIn)
		return nil, ErrInvalidOutputAmount
	}

	if err := e.ledger.DebitBase(baseOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.quote, true, trader, quoteIn)
		return nil, err
	}

	if err := e.base.PushTo(trader, baseOut); err != nil {
		e.ledger.Restore(snap)
		e.compensate(e.quote, true, trader, quoteIn)
		return nil, fmt.Errorf("%w: push base: %v", ErrTransferFailed, err)
	}

	e.emit(model.EventQuoteToBaseSwap, trader, model.QuoteToBaseSwapEvent{
		Trader:  trader.Hex(),
		QuoteIn: quoteIn.String(),
		BaseOut: baseOut.String(),
	})

	return baseOut, nil
}
