package engine

import "fmt"

// CheckInvariants verifies the accounting invariants that must hold between
// operations: share conservation, reserve non-negativity, the empty-pool
// equivalence, and custody/accounting agreement. The simulator runs it
// after every step; tests run it after each scenario.
func (e *Engine) CheckInvariants() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	totalShares := e.ledger.TotalShares()
	if sum := e.ledger.SharesSum(); sum.Cmp(totalShares) != 0 {
		return fmt.Errorf("share conservation violated: sum %s != total %s", sum, totalShares)
	}

	reserveBase := e.ledger.ReserveBase()
	reserveQuote := e.ledger.ReserveQuote()
	if reserveBase.Sign() < 0 || reserveQuote.Sign() < 0 {
		return fmt.Errorf("negative reserve: base %s quote %s", reserveBase, reserveQuote)
	}

	emptyShares := totalShares.Sign() == 0
	emptyReserves := reserveBase.Sign() == 0 && reserveQuote.Sign() == 0
	if emptyShares != emptyReserves {
		return fmt.Errorf("empty-pool invariant violated: totalShares %s, reserves (%s, %s)", totalShares, reserveBase, reserveQuote)
	}

	if custody := e.base.PoolCustodyBalance(); custody.Cmp(reserveBase) != 0 {
		return fmt.Errorf("base custody %s != accounted reserve %s", custody, reserveBase)
	}
	if custody := e.quote.PoolCustodyBalance(); custody.Cmp(reserveQuote) != 0 {
		return fmt.Errorf("quote custody %s != accounted reserve %s", custody, reserveQuote)
	}

	return nil
}
