package inventory

import (
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
)

// The ledger primitives are the only legal way to change a batch's stock.
// Sales, returns and adjustments all route through here so the non-negativity
// invariant is enforced in one place.

// Deduct removes qty units from a batch. Fails with ErrInvalidQuantity if the
// result would be negative; the batch is left untouched on failure.
func Deduct(b *entity.Batch, qty int) error {
	if qty < 0 || qty > b.Stock {
		return ErrInvalidQuantity
	}
	b.Stock -= qty
	return nil
}

// Add puts qty units back into a batch (goods receipt, restock).
func Add(b *entity.Batch, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	b.Stock += qty
	return nil
}

// AdjustClamped applies a manual +/- delta, flooring the result at zero. An
// over-large negative delta is clamped rather than rejected, matching the
// counter-side workflow of zeroing out a miscounted lot. Returns the delta
// actually applied.
func AdjustClamped(b *entity.Batch, delta int) int {
	newStock := b.Stock + delta
	if newStock < 0 {
		newStock = 0
	}
	applied := newStock - b.Stock
	b.Stock = newStock
	return applied
}
