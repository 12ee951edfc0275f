package app

import (
	"sync/atomic"

	"gauntlet/domain/core"
)

// Budget is the one mutable resource shared across tournaments: a global
// cost counter. Spending is a compare-and-swap loop so two tournaments can
// never both escalate on a budget that was only exhausted once.
type Budget struct {
	remaining atomic.Int64
	enabled   bool
}

// NewBudget creates a budget with the given total units. A zero or negative
// total disables enforcement.
func NewBudget(total int64) *Budget {
	b := &Budget{enabled: total > 0}
	b.remaining.Store(total)
	return b
}

// Spend atomically deducts units; it fails with ErrBudgetExhausted exactly
// once per unit of shortfall, never twice for the same units.
func (b *Budget) Spend(units int64) error {
	if !b.enabled || units <= 0 {
		return nil
	}
	for {
		cur := b.remaining.Load()
		if cur < units {
			return core.ErrBudgetExhausted
		}
		if b.remaining.CompareAndSwap(cur, cur-units) {
			return nil
		}
	}
}

// Remaining returns the units left, or -1 when enforcement is disabled.
func (b *Budget) Remaining() int64 {
	if !b.enabled {
		return -1
	}
	return b.remaining.Load()
}
