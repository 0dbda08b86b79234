package inventory

import "errors"

// Sentinel errors for the inventory core. Services translate these into
// HTTP-facing apperror values at the application boundary.
var (
	// ErrInvalidQuantity is returned when a mutation would drive a batch
	// negative, or a return quantity exceeds the named batch's stock.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock is returned when a medicine's aggregate stock
	// across all batches cannot cover a requested sale quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTransactionAborted is returned when any cart line fails; the whole
	// sale is rejected and no batch is mutated.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrUnknownMedicine is returned when a referenced medicine id is not in
	// the catalog.
	ErrUnknownMedicine = errors.New("unknown medicine")

	// ErrUnknownBatch is returned when a referenced batch id does not belong
	// to the medicine.
	ErrUnknownBatch = errors.New("unknown batch")

	// ErrSafetyHold is returned when an advisory interaction hold is active
	// and the caller has not overridden it.
	ErrSafetyHold = errors.New("safety hold active")
)
