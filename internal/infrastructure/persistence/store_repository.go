package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/shared"
	"github.com/sellerops/backend/internal/infrastructure/persistence/models"
)

// GormStoreRepository implements catalog.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByCountries returns stores in the given countries, all stores
// when countryCodes is nil
func (r *GormStoreRepository) FindAllByCountries(ctx context.Context, countryCodes []string) ([]catalog.Store, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreModel{})
	if countryCodes != nil {
		query = query.Where("country_code IN ?", countryCodes)
	}

	var storeModels []models.StoreModel
	if err := query.Order("name ASC").Find(&storeModels).Error; err != nil {
		return nil, err
	}

	stores := make([]catalog.Store, len(storeModels))
	for i, model := range storeModels {
		stores[i] = *model.ToDomain()
	}
	return stores, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *catalog.Store) error {
	var model models.StoreModel
	model.FromDomain(store)
	return r.db.WithContext(ctx).Save(&model).Error
}
