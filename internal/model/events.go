package model

// Event names as they appear in journal records.
const (
	EventLiquidityAdded   = "liquidity_added"
	EventLiquidityRemoved = "liquidity_removed"
	EventBaseToQuoteSwap  = "base_to_quote_swap"
	EventQuoteToBaseSwap  = "quote_to_base_swap"
)

// LiquidityAddedEvent is the payload emitted after a successful deposit.
// Amounts are decimal strings.
type LiquidityAddedEvent struct {
	Provider     string `json:"provider"`
	BaseIn       string `json:"base_in"`
	QuoteIn      string `json:"quote_in"`
	SharesMinted string `json:"shares_minted"`
}

// LiquidityRemovedEvent is the payload emitted after a successful withdrawal.
type LiquidityRemovedEvent struct {
	Provider     string `json:"provider"`
	BaseOut      string `json:"base_out"`
	QuoteOut     string `json:"quote_out"`
	SharesBurned string `json:"shares_burned"`
}

// BaseToQuoteSwapEvent is the payload emitted after a base-in swap.
type BaseToQuoteSwapEvent struct {
	Trader   string `json:"trader"`
	BaseIn   string `json:"base_in"`
	QuoteOut string `json:"quote_out"`
}

// QuoteToBaseSwapEvent is the payload emitted after a quote-in swap.
type QuoteToBaseSwapEvent struct {
	Trader  string `json:"trader"`
	QuoteIn string `json:"quote_in"`
	BaseOut string `json:"base_out"`
}
