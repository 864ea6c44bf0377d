package catalog

import (
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/shared"
)

// StoreListing is one product link published by a store: the store's
// display title plus the platform-side product code, pointing at an
// internal product.
type StoreListing struct {
	shared.BaseEntity
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	StoreTitle  string
	ProductCode string
	URL         string
}

// NewStoreListing creates a new store listing
func NewStoreListing(storeID, productID uuid.UUID, storeTitle, productCode string) (*StoreListing, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if storeTitle == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Store title cannot be empty")
	}
	return &StoreListing{
		BaseEntity:  shared.NewBaseEntity(),
		StoreID:     storeID,
		ProductID:   productID,
		StoreTitle:  storeTitle,
		ProductCode: productCode,
	}, nil
}
