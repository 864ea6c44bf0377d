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

// GormListingMappingRepository implements catalog.ListingMappingRepository using GORM
type GormListingMappingRepository struct {
	db *gorm.DB
}

// NewGormListingMappingRepository creates a new GormListingMappingRepository
func NewGormListingMappingRepository(db *gorm.DB) *GormListingMappingRepository {
	return &GormListingMappingRepository{db: db}
}

// FindByPlatformAndExternal finds an override matching either the
// exact external title or the exact external SKU on the platform.
// Empty title/sku inputs never match the override's empty columns.
func (r *GormListingMappingRepository) FindByPlatformAndExternal(ctx context.Context, platform sales.Platform, title, sku string) (*catalog.ListingMapping, error) {
	if title == "" && sku == "" {
		return nil, shared.ErrNotFound
	}

	query := r.db.WithContext(ctx).Where("platform = ?", platform)
	switch {
	case title != "" && sku != "":
		query = query.Where("external_title = ? OR external_sku = ?", title, sku)
	case title != "":
		query = query.Where("external_title = ?", title)
	default:
		query = query.Where("external_sku = ?", sku)
	}

	var model models.ListingMappingModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a mapping
func (r *GormListingMappingRepository) Save(ctx context.Context, mapping *catalog.ListingMapping) error {
	var model models.ListingMappingModel
	model.FromDomain(mapping)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete deletes a mapping
func (r *GormListingMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ListingMappingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
