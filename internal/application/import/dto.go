package importapp

import (
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/infrastructure/spreadsheet"
)

// PreviewRow is one parsed row annotated with its match outcome and
// whether the store already has a live record for its order ID
type PreviewRow struct {
	spreadsheet.CanonicalRow
	Match    catalog.MatchResult
	IsUpdate bool
}

// PreviewResult is what the client reviews before confirming
type PreviewResult struct {
	Platform       sales.Platform
	StoreID        uuid.UUID
	Rows           []PreviewRow
	TotalRows      int
	MatchedCount   int
	UnmatchedCount int
	UpdateCount    int
	SkippedCount   int
	Errors         []spreadsheet.RowError
}

// ConfirmCommand carries everything Confirm needs
type ConfirmCommand struct {
	FilePath       string
	SourceFileName string
	StoreID        uuid.UUID
	Policy         sales.CollisionPolicy
	Principal      identity.Principal
}

// ConfirmResult reports the persisted batch. On a rejected collision
// the Batch is nil and the Outcome still names the colliding orders.
type ConfirmResult struct {
	Batch   *sales.ImportBatch
	Outcome *sales.ConfirmOutcome
}

// RollbackResult reports what a rollback deleted
type RollbackResult struct {
	BatchID      uuid.UUID
	DeletedCount int64
	Status       sales.BatchStatus
}
