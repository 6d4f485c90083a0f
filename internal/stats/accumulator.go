package stats

import (
	"encoding/json"
	"fmt"
	"math/big"

	"poolEngine/internal/model"
)

const (
	feeNumerator   = 100
	feeDenominator = 10000
)

// Accumulator holds aggregate values for one journal window.
type Accumulator struct {
	WindowStart  uint64
	WindowEnd    uint64
	SwapCount    uint64
	AddCount     uint64
	RemoveCount  uint64
	VolumeBase   *big.Int
	VolumeQuote  *big.Int
	FeeBase      *big.Int
	FeeQuote     *big.Int
	SharesMinted *big.Int
	SharesBurned *big.Int
	LastSeq      uint64
	LastTS       uint64
}

func NewAccumulator(record model.EventRecord, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		VolumeBase:   big.NewInt(0),
		VolumeQuote:  big.NewInt(0),
		FeeBase:      big.NewInt(0),
		FeeQuote:     big.NewInt(0),
		SharesMinted: big.NewInt(0),
		SharesBurned: big.NewInt(0),
		LastSeq:      record.Seq,
		LastTS:       record.Timestamp,
	}
}

func (a *Accumulator) AddEvent(record model.EventRecord) error {
	if record.Timestamp >= a.LastTS {
		a.LastTS = record.Timestamp
		a.LastSeq = record.Seq
	}

	switch record.EventName {
	case model.EventBaseToQuoteSwap:
		var swap model.BaseToQuoteSwapEvent
		if err := json.Unmarshal(record.Payload, &swap); err != nil {
			return fmt.Errorf("decode base swap: %w", err)
		}
		return a.applyBaseSwap(swap)
	case model.EventQuoteToBaseSwap:
		var swap model.QuoteToBaseSwapEvent
		if err := json.Unmarshal(record.Payload, &swap); err != nil {
			return fmt.Errorf("decode quote swap: %w", err)
		}
		return a.applyQuoteSwap(swap)
	case model.EventLiquidityAdded:
		var add model.LiquidityAddedEvent
		if err := json.Unmarshal(record.Payload, &add); err != nil {
			return fmt.Errorf("decode add: %w", err)
		}
		return a.applyAdd(add)
	case model.EventLiquidityRemoved:
		var remove model.LiquidityRemovedEvent
		if err := json.Unmarshal(record.Payload, &remove); err != nil {
			return fmt.Errorf("decode remove: %w", err)
		}
		return a.applyRemove(remove)
	default:
		return nil
	}
}

func (a *Accumulator) applyBaseSwap(swap model.BaseToQuoteSwapEvent) error {
	baseIn, err := parseBigInt(swap.BaseIn)
	if err != nil {
		return err
	}
	quoteOut, err := parseBigInt(swap.QuoteOut)
	if err != nil {
		return err
	}

	a.VolumeBase.Add(a.VolumeBase, baseIn)
	a.VolumeQuote.Add(a.VolumeQuote, quoteOut)
	a.FeeBase.Add(a.FeeBase, feeFromAmount(baseIn))
	a.SwapCount++
	return nil
}

func (a *Accumulator) applyQuoteSwap(swap model.QuoteToBaseSwapEvent) error {
	quoteIn, err := parseBigInt(swap.QuoteIn)
	if err != nil {
		return err
	}
	baseOut, err := parseBigInt(swap.BaseOut)
	if err != nil {
		return err
	}

	a.VolumeQuote.Add(a.VolumeQuote, quoteIn)
	a.VolumeBase.Add(a.VolumeBase, baseOut)
	a.FeeQuote.Add(a.FeeQuote, feeFromAmount(quoteIn))
	a.SwapCount++
	return nil
}

func (a *Accumulator) applyAdd(add model.LiquidityAddedEvent) error {
	minted, err := parseBigInt(add.SharesMinted)
	if err != nil {
		return err
	}
	a.SharesMinted.Add(a.SharesMinted, minted)
	a.AddCount++
	return nil
}

func (a *Accumulator) applyRemove(remove model.LiquidityRemovedEvent) error {
	burned, err := parseBigInt(remove.SharesBurned)
	if err != nil {
		return err
	}
	a.SharesBurned.Add(a.SharesBurned, burned)
	a.RemoveCount++
	return nil
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

// feeFromAmount returns the portion of an input amount retained by the pool.
func feeFromAmount(amountIn *big.Int) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(amountIn, big.NewInt(feeNumerator))
	fee.Div(fee, big.NewInt(feeDenominator))
	return fee
}
