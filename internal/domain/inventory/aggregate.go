package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
)

// Aggregation is always recomputed from the batch ledger on demand. Nothing
// in this file caches, so the numbers can never drift from the batches.

// TotalStock returns the medicine's stock summed over all batches.
func TotalStock(m *entity.Medicine) int {
	total := 0
	for _, b := range m.Batches {
		total += b.Stock
	}
	return total
}

// IsLowStock reports whether total stock is at or below the medicine's
// configured minimum threshold.
func IsLowStock(m *entity.Medicine) bool {
	return TotalStock(m) <= m.MinThreshold
}

// ExpiringWithin returns the batches whose expiry date is strictly after asOf
// and on or before asOf + windowDays.
func ExpiringWithin(m *entity.Medicine, windowDays int, asOf time.Time) []entity.Batch {
	deadline := asOf.AddDate(0, 0, windowDays)
	expiring := make([]entity.Batch, 0)
	for _, b := range m.Batches {
		if b.ExpiryDate.After(asOf) && !b.ExpiryDate.After(deadline) {
			expiring = append(expiring, b)
		}
	}
	return expiring
}

// Expired returns the batches whose expiry date is strictly before asOf.
func Expired(m *entity.Medicine, asOf time.Time) []entity.Batch {
	expired := make([]entity.Batch, 0)
	for _, b := range m.Batches {
		if b.ExpiryDate.Before(asOf) {
			expired = append(expired, b)
		}
	}
	return expired
}

// StockValue returns sale price times total stock for one medicine, in
// rupees. Decimal arithmetic keeps catalog-wide sums exact.
func StockValue(m *entity.Medicine) decimal.Decimal {
	price := decimal.NewFromInt(m.Price).Div(decimal.NewFromInt(100))
	return price.Mul(decimal.NewFromInt(int64(TotalStock(m))))
}
