package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Memo is the per-identity record of that identity's most recent liquidity
// operation. A single overwritten slot, not a history: every add or remove
// replaces it wholesale.
type Memo struct {
	SharesMinted  *big.Int
	BaseReturned  *big.Int
	QuoteReturned *big.Int
}

func zeroMemo() Memo {
	return Memo{
		SharesMinted:  big.NewInt(0),
		BaseReturned:  big.NewInt(0),
		QuoteReturned: big.NewInt(0),
	}
}

func (m Memo) clone() Memo {
	return Memo{
		SharesMinted:  new(big.Int).Set(m.SharesMinted),
		BaseReturned:  new(big.Int).Set(m.BaseReturned),
		QuoteReturned: new(big.Int).Set(m.QuoteReturned),
	}
}

// PendingMemo returns the identity's latest memo, zeros if the identity has
// never completed a liquidity operation.
func (e *Engine) PendingMemo(identity common.Address) Memo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if memo, ok := e.memos[identity]; ok {
		return memo.clone()
	}
	return zeroMemo()
}

// setMemo overwrites the identity's slot. Caller holds the operation lock.
func (e *Engine) setMemo(identity common.Address, memo Memo) {
	e.memos[identity] = memo
}
