package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
	"github.com/sellerops/backend/internal/infrastructure/persistence/datascope"
	"github.com/sellerops/backend/internal/infrastructure/persistence/models"
)

// GormSalesRecordRepository implements sales.SalesRecordRepository using GORM
type GormSalesRecordRepository struct {
	db *gorm.DB
}

// NewGormSalesRecordRepository creates a new GormSalesRecordRepository
func NewGormSalesRecordRepository(db *gorm.DB) *GormSalesRecordRepository {
	return &GormSalesRecordRepository{db: db}
}

// FindByID finds a sales record by its ID
func (r *GormSalesRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesRecord, error) {
	var model models.SalesRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sales.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns records visible under the scope with the total count
// before pagination. The stores join supplies country_code for both
// the visibility clause and the explicit country filter.
func (r *GormSalesRecordRepository) List(ctx context.Context, filter sales.RecordFilter, scope sales.VisibilityScope) ([]sales.SalesRecord, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.SalesRecordModel{}).
		Joins("JOIN stores ON stores.id = sales_records.store_id").
		Scopes(datascope.SalesScope(scope), datascope.SalesFilter(filter))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := datascope.NormalizePagination(filter.Page, filter.PageSize)
	var recordModels []models.SalesRecordModel
	if err := base.
		Order(datascope.BuildSalesOrder(filter.SortBy, filter.SortOrder)).
		Offset(page.Offset).
		Limit(page.PageSize).
		Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]sales.SalesRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, total, nil
}

// FindByStoreAndOrderIDs returns live records for a store whose
// platform order IDs are in the given set. Records owned by
// rolled-back batches are excluded; they no longer exist.
func (r *GormSalesRecordRepository) FindByStoreAndOrderIDs(ctx context.Context, storeID uuid.UUID, orderIDs []string) ([]sales.SalesRecord, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var recordModels []models.SalesRecordModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND platform_order_id IN ?", storeID, orderIDs).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]sales.SalesRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a sales record
func (r *GormSalesRecordRepository) Save(ctx context.Context, record *sales.SalesRecord) error {
	var model models.SalesRecordModel
	model.FromDomain(record)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete deletes a sales record
func (r *GormSalesRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SalesRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AggregateByPlatform sums visible records into platform+currency
// buckets under the same joins, scope and filters as List
func (r *GormSalesRecordRepository) AggregateByPlatform(ctx context.Context, filter sales.RecordFilter, scope sales.VisibilityScope) ([]sales.PlatformAggregate, error) {
	var buckets []sales.PlatformAggregate
	err := r.db.WithContext(ctx).
		Model(&models.SalesRecordModel{}).
		Joins("JOIN stores ON stores.id = sales_records.store_id").
		Scopes(datascope.SalesScope(scope), datascope.SalesFilter(filter)).
		Select("sales_records.platform, sales_records.currency, COUNT(*) AS orders, COALESCE(SUM(sales_records.sales_volume), 0) AS units, COALESCE(SUM(sales_records.revenue), 0) AS revenue").
		Group("sales_records.platform, sales_records.currency").
		Order("sales_records.platform").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// CountByBatch counts records owned by a batch
func (r *GormSalesRecordRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalesRecordModel{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}
