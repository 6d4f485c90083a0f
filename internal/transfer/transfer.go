package transfer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Asset is the custody collaborator for a single fungible asset. The pool
// engine computes amounts; actual asset movement is owned by the
// implementation behind this interface.
type Asset interface {
	// PullFrom moves amount from the identity's custody into pool custody.
	PullFrom(identity common.Address, amount *big.Int) error
	// PushTo moves amount from pool custody to the identity.
	PushTo(identity common.Address, amount *big.Int) error
	// PoolCustodyBalance returns the custodial balance attributable to the pool.
	PoolCustodyBalance() *big.Int
}
