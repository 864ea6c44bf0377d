package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/shared"
)

// BatchStatus is the lifecycle state of an import batch
type BatchStatus string

const (
	// BatchStatusPreviewed marks an in-memory batch that has been parsed
	// and matched but not yet persisted
	BatchStatusPreviewed BatchStatus = "PREVIEWED"
	// BatchStatusConfirmed marks a durable batch whose records are live
	BatchStatusConfirmed BatchStatus = "CONFIRMED"
	// BatchStatusRolledBack marks a batch whose records were deleted;
	// the batch row itself is kept as an audit trail
	BatchStatusRolledBack BatchStatus = "ROLLED_BACK"
)

// IsValid checks if the status is a known value
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPreviewed, BatchStatusConfirmed, BatchStatusRolledBack:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusPreviewed:
		return target == BatchStatusConfirmed
	case BatchStatusConfirmed:
		return target == BatchStatusRolledBack
	}
	return false
}

// ImportBatch is the unit of reversible persistence: every confirmed
// import creates exactly one batch owning all records it inserted.
type ImportBatch struct {
	shared.BaseEntity
	Platform       Platform
	SourceFileName string
	RowCount       int
	Status         BatchStatus
	CreatedBy      uuid.UUID
	ConfirmedAt    *time.Time
	RolledBackAt   *time.Time
}

// NewImportBatch creates a previewed (not yet durable) batch
func NewImportBatch(platform Platform, sourceFileName string, createdBy uuid.UUID) (*ImportBatch, error) {
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Batch creator cannot be empty")
	}
	return &ImportBatch{
		BaseEntity:     shared.NewBaseEntity(),
		Platform:       platform,
		SourceFileName: sourceFileName,
		Status:         BatchStatusPreviewed,
		CreatedBy:      createdBy,
	}, nil
}

// Confirm transitions the batch to CONFIRMED with the persisted row count
func (b *ImportBatch) Confirm(rowCount int) error {
	if !b.Status.CanTransitionTo(BatchStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Only a previewed batch can be confirmed")
	}
	now := time.Now()
	b.Status = BatchStatusConfirmed
	b.RowCount = rowCount
	b.ConfirmedAt = &now
	b.Touch()
	return nil
}

// Rollback transitions the batch to ROLLED_BACK. Rolling back an
// already rolled-back batch is a no-op so client retries are safe.
func (b *ImportBatch) Rollback() error {
	if b.Status == BatchStatusRolledBack {
		return nil
	}
	if !b.Status.CanTransitionTo(BatchStatusRolledBack) {
		return shared.NewDomainError("INVALID_STATE", "Only a confirmed batch can be rolled back")
	}
	now := time.Now()
	b.Status = BatchStatusRolledBack
	b.RolledBackAt = &now
	b.Touch()
	return nil
}

// IsLive reports whether the batch's records are visible to readers
func (b *ImportBatch) IsLive() bool {
	return b.Status == BatchStatusConfirmed
}
