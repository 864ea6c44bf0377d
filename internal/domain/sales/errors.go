package sales

import "github.com/sellerops/backend/internal/domain/shared"

// Sales domain errors
var (
	// ErrDuplicateOrder is raised at confirm time when a row's
	// (platform, platformOrderId) natural key already exists in a live
	// batch. It is surfaced for manual resolution, never auto-merged.
	ErrDuplicateOrder = shared.NewDomainError("DUPLICATE_ORDER", "Order already imported by a live batch")

	// ErrBatchNotFound is returned when an import batch does not exist
	ErrBatchNotFound = shared.NewDomainError("BATCH_NOT_FOUND", "Import batch not found")

	// ErrRecordNotFound is returned when a sales record does not exist
	ErrRecordNotFound = shared.NewDomainError("RECORD_NOT_FOUND", "Sales record not found")
)
