package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollisionPolicy decides what happens when a confirmed row's natural
// key (platform + platform order ID) already exists in a live batch.
type CollisionPolicy string

const (
	// CollisionReject aborts the whole batch on the first collision
	CollisionReject CollisionPolicy = "reject"
	// CollisionSkip flags colliding rows and persists the rest
	CollisionSkip CollisionPolicy = "skip"
)

// IsValid checks if the policy is a known value
func (p CollisionPolicy) IsValid() bool {
	return p == CollisionReject || p == CollisionSkip
}

// ConfirmOutcome reports what a confirm transaction did
type ConfirmOutcome struct {
	BatchID       uuid.UUID
	InsertedCount int
	Collisions    []string // platform order IDs that already existed in live batches
}

// RecordFilter carries the caller-supplied filters for listing sales
// records. Pagination and sorting are normalized by the query builder
// before the filter reaches the store.
type RecordFilter struct {
	CountryCode string
	Platform    string
	StoreID     string
	BatchID     string
	Search      string
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// BatchFilter carries the caller-supplied filters for listing batches
type BatchFilter struct {
	Platform    string
	CountryCode string
	CreatedBy   string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// SalesRecordRepository defines the interface for sales record persistence
type SalesRecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesRecord, error)

	// List returns records visible under the scope, with the matching
	// total before pagination
	List(ctx context.Context, filter RecordFilter, scope VisibilityScope) ([]SalesRecord, int64, error)

	// FindByStoreAndOrderIDs returns live records for a store whose
	// platform order IDs are in the given set (used by preview to flag
	// re-imports)
	FindByStoreAndOrderIDs(ctx context.Context, storeID uuid.UUID, orderIDs []string) ([]SalesRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *SalesRecord) error

	// Delete deletes a record
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByBatch counts records owned by a batch
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)

	// AggregateByPlatform sums visible records per platform and
	// currency, honoring the same filters and scope as List
	AggregateByPlatform(ctx context.Context, filter RecordFilter, scope VisibilityScope) ([]PlatformAggregate, error)
}

// PlatformAggregate is one platform+currency bucket of the stats
// summary. Revenue stays in the bucket's currency; conversion happens
// in the application layer.
type PlatformAggregate struct {
	Platform Platform
	Currency string
	Orders   int64
	Units    int64
	Revenue  decimal.Decimal
}

// ImportBatchRepository defines the interface for import batch
// persistence. Confirm and rollback are transactional: either the whole
// batch is applied or nothing is.
type ImportBatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportBatch, error)

	// List returns batches visible under the scope, newest first
	List(ctx context.Context, filter BatchFilter, scope VisibilityScope) ([]ImportBatch, int64, error)

	// ConfirmBatch persists the batch row and all its records in a
	// single transaction. The natural-key collision check against live
	// batches runs inside the same transaction; behavior on collision
	// is controlled by the policy.
	ConfirmBatch(ctx context.Context, batch *ImportBatch, records []*SalesRecord, policy CollisionPolicy) (*ConfirmOutcome, error)

	// RollbackBatch deletes every record owned by the batch and marks
	// the batch rolled back, atomically. Returns the number of deleted
	// records. Must be a no-op on an already rolled-back batch.
	RollbackBatch(ctx context.Context, batch *ImportBatch) (int64, error)

	// CountryCodeOf returns the country of the batch's store records,
	// used by the rollback permission rule. Empty when the batch has no
	// records left.
	CountryCodeOf(ctx context.Context, batchID uuid.UUID) (string, error)
}
