package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/infrastructure/persistence/datascope"
	"github.com/sellerops/backend/internal/infrastructure/persistence/models"
)

// GormImportBatchRepository implements sales.ImportBatchRepository
// using GORM. Confirm and rollback each run inside a single database
// transaction so readers never observe a partial batch.
type GormImportBatchRepository struct {
	db *gorm.DB
}

// NewGormImportBatchRepository creates a new GormImportBatchRepository
func NewGormImportBatchRepository(db *gorm.DB) *GormImportBatchRepository {
	return &GormImportBatchRepository{db: db}
}

// FindByID finds an import batch by its ID
func (r *GormImportBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.ImportBatch, error) {
	var model models.ImportBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sales.ErrBatchNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns batches visible under the scope, newest first unless
// the filter asks for another allow-listed sort. A non-admin sees
// their own batches plus batches whose records live in stores they
// supervise.
func (r *GormImportBatchRepository) List(ctx context.Context, filter sales.BatchFilter, scope sales.VisibilityScope) ([]sales.ImportBatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ImportBatchModel{})

	if !scope.IsAdmin {
		if scope.UserID == uuid.Nil && len(scope.SupervisedCountries) == 0 {
			query = query.Where("1 = 0")
		} else if len(scope.SupervisedCountries) == 0 {
			query = query.Where("created_by = ?", scope.UserID)
		} else {
			query = query.Where(
				"created_by = ? OR EXISTS (SELECT 1 FROM sales_records JOIN stores ON stores.id = sales_records.store_id WHERE sales_records.batch_id = import_batches.id AND stores.country_code IN ?)",
				scope.UserID, scope.SupervisedCountries)
		}
	}

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.CountryCode != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM sales_records JOIN stores ON stores.id = sales_records.store_id WHERE sales_records.batch_id = import_batches.id AND stores.country_code = ?)",
			filter.CountryCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, ImportBatchSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	page := datascope.NormalizePagination(filter.Page, filter.PageSize)
	var batchModels []models.ImportBatchModel
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(page.Offset).
		Limit(page.PageSize).
		Find(&batchModels).Error; err != nil {
		return nil, 0, err
	}

	batches := make([]sales.ImportBatch, len(batchModels))
	for i, model := range batchModels {
		batches[i] = *model.ToDomain()
	}
	return batches, total, nil
}

// ConfirmBatch persists the batch row and its records atomically. The
// natural-key collision check against live records runs inside the
// same transaction, so two concurrent confirms of the same file cannot
// both pass it.
func (r *GormImportBatchRepository) ConfirmBatch(ctx context.Context, batch *sales.ImportBatch, records []*sales.SalesRecord, policy sales.CollisionPolicy) (*sales.ConfirmOutcome, error) {
	if !policy.IsValid() {
		policy = sales.CollisionReject
	}

	outcome := &sales.ConfirmOutcome{BatchID: batch.ID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collisions, err := findLiveCollisions(tx, batch.Platform, records)
		if err != nil {
			return err
		}
		outcome.Collisions = collisions

		if len(collisions) > 0 && policy == sales.CollisionReject {
			return fmt.Errorf("%w: %d rows already imported", sales.ErrDuplicateOrder, len(collisions))
		}

		colliding := make(map[string]struct{}, len(collisions))
		for _, orderID := range collisions {
			colliding[orderID] = struct{}{}
		}

		insertable := make([]models.SalesRecordModel, 0, len(records))
		for _, record := range records {
			if _, skip := colliding[record.PlatformOrderID]; skip {
				continue
			}
			var model models.SalesRecordModel
			model.FromDomain(record)
			insertable = append(insertable, model)
		}

		if err := batch.Confirm(len(insertable)); err != nil {
			return err
		}
		var batchModel models.ImportBatchModel
		batchModel.FromDomain(batch)
		if err := tx.Create(&batchModel).Error; err != nil {
			return err
		}

		if len(insertable) > 0 {
			if err := tx.CreateInBatches(insertable, 500).Error; err != nil {
				return err
			}
		}

		outcome.InsertedCount = len(insertable)
		return nil
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// findLiveCollisions returns the platform order IDs in the record set
// that already exist for the platform. Rolled-back batches leave no
// records behind, so every hit is a live duplicate.
func findLiveCollisions(tx *gorm.DB, platform sales.Platform, records []*sales.SalesRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	orderIDs := make([]string, 0, len(records))
	for _, record := range records {
		orderIDs = append(orderIDs, record.PlatformOrderID)
	}

	var existing []string
	if err := tx.Model(&models.SalesRecordModel{}).
		Where("platform = ? AND platform_order_id IN ?", platform, orderIDs).
		Pluck("platform_order_id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// RollbackBatch deletes every record owned by the batch and marks the
// batch rolled back, atomically. Rolling back an already rolled-back
// batch deletes nothing and succeeds, so client retries are safe.
func (r *GormImportBatchRepository) RollbackBatch(ctx context.Context, batch *sales.ImportBatch) (int64, error) {
	if batch.Status == sales.BatchStatusRolledBack {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := batch.Rollback(); err != nil {
			return err
		}

		result := tx.Delete(&models.SalesRecordModel{}, "batch_id = ?", batch.ID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		var batchModel models.ImportBatchModel
		batchModel.FromDomain(batch)
		return tx.Save(&batchModel).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CountryCodeOf returns the country of the batch's records' stores,
// empty when the batch has no records left
func (r *GormImportBatchRepository) CountryCodeOf(ctx context.Context, batchID uuid.UUID) (string, error) {
	var countryCode string
	err := r.db.WithContext(ctx).
		Model(&models.SalesRecordModel{}).
		Select("stores.country_code").
		Joins("JOIN stores ON stores.id = sales_records.store_id").
		Where("sales_records.batch_id = ?", batchID).
		Limit(1).
		Scan(&countryCode).Error
	if err != nil {
		return "", err
	}
	return countryCode, nil
}
