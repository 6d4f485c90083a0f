package engine

import "errors"

// Engine errors. Guard and ledger failures (pause, authorization, checked
// arithmetic) are surfaced verbatim from their own packages; these cover
// the engine's own preconditions and collaborator failures.
var (
	ErrInsufficientBaseAmount   = errors.New("insufficient base amount")
	ErrInsufficientQuoteAmount  = errors.New("insufficient quote amount")
	ErrInsufficientSharesAmount = errors.New("insufficient shares amount")
	ErrInsufficientSharesMinted = errors.New("insufficient shares minted")
	ErrInvalidOutputAmount      = errors.New("invalid output amount")
	ErrTransferFailed           = errors.New("transfer failed")
	ErrReentrancyDetected       = errors.New("reentrancy detected")
	ErrZeroIdentity             = errors.New("zero identity")
)
