package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
	"github.com/sellerops/backend/internal/infrastructure/persistence/models"
)

// GormListingRepository implements catalog.ListingRepository using
// GORM. Every matcher lookup joins stores so it stays scoped to one
// platform; a Shopee title must never claim a TikTok Shop row.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StoreListing, error) {
	var model models.StoreListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformAndTitle finds a listing on the platform whose store
// title matches exactly
func (r *GormListingRepository) FindByPlatformAndTitle(ctx context.Context, platform sales.Platform, title string) (*catalog.StoreListing, error) {
	var model models.StoreListingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = store_listings.store_id").
		Where("stores.platform = ? AND store_listings.store_title = ?", platform, title).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformAndProductCode finds a listing by its platform-side
// product code
func (r *GormListingRepository) FindByPlatformAndProductCode(ctx context.Context, platform sales.Platform, code string) (*catalog.StoreListing, error) {
	var model models.StoreListingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = store_listings.store_id").
		Where("stores.platform = ? AND store_listings.product_code = ?", platform, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformAndInternalSKU finds a listing whose underlying
// product carries the given internal SKU
func (r *GormListingRepository) FindByPlatformAndInternalSKU(ctx context.Context, platform sales.Platform, sku string) (*catalog.StoreListing, error) {
	var model models.StoreListingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = store_listings.store_id").
		Joins("JOIN products ON products.id = store_listings.product_id").
		Where("stores.platform = ? AND products.sku = ?", platform, sku).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, listing *catalog.StoreListing) error {
	var model models.StoreListingModel
	model.FromDomain(listing)
	return r.db.WithContext(ctx).Save(&model).Error
}
