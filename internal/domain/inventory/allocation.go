package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
)

// BatchDeduction is one step of a deduction plan: take Quantity units from
// the identified batch. PurchasePrice is carried for COGS snapshotting.
type BatchDeduction struct {
	BatchID       uuid.UUID
	BatchNumber   string
	Quantity      int
	PurchasePrice int64
}

// DeductionPlan is the full set of batch deductions that satisfy one
// requested sale quantity. The plan is computed over a read-only snapshot
// and applied only once it is known to fully cover the request.
type DeductionPlan struct {
	MedicineID uuid.UUID
	Deductions []BatchDeduction
}

// TotalQuantity returns the sum of all planned deductions.
func (p *DeductionPlan) TotalQuantity() int {
	total := 0
	for _, d := range p.Deductions {
		total += d.Quantity
	}
	return total
}

// PlanDeduction computes a strict FEFO deduction plan for qty units against
// the given batches. Batches are walked in ascending expiry order, ties broken
// by registration time then id so the plan is deterministic. Zero-stock
// batches are visited but contribute nothing. If the batches cannot cover qty
// in full the plan fails with ErrInsufficientStock and nothing is deducted;
// partial fulfillment is never planned.
func PlanDeduction(medicineID uuid.UUID, batches []entity.Batch, qty int) (*DeductionPlan, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	sorted := make([]entity.Batch, len(batches))
	copy(sorted, batches)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ExpiryDate.Equal(sorted[j].ExpiryDate) {
			return sorted[i].ExpiryDate.Before(sorted[j].ExpiryDate)
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	plan := &DeductionPlan{
		MedicineID: medicineID,
		Deductions: make([]BatchDeduction, 0, len(sorted)),
	}

	remaining := qty
	for _, batch := range sorted {
		if remaining == 0 {
			break
		}
		if batch.Stock <= 0 {
			continue
		}

		take := remaining
		if batch.Stock < take {
			take = batch.Stock
		}

		plan.Deductions = append(plan.Deductions, BatchDeduction{
			BatchID:       batch.ID,
			BatchNumber:   batch.BatchNumber,
			Quantity:      take,
			PurchasePrice: batch.PurchasePrice,
		})
		remaining -= take
	}

	if remaining > 0 {
		return nil, ErrInsufficientStock
	}
	return plan, nil
}

// Apply executes a plan against the live batch set via the ledger primitive.
// The caller must hold the medicine's lock so the snapshot the plan was
// computed over cannot have changed underneath it.
func (p *DeductionPlan) Apply(batches []entity.Batch) error {
	byID := make(map[uuid.UUID]*entity.Batch, len(batches))
	for i := range batches {
		byID[batches[i].ID] = &batches[i]
	}

	for _, d := range p.Deductions {
		batch, ok := byID[d.BatchID]
		if !ok {
			return ErrUnknownBatch
		}
		if err := Deduct(batch, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}
