package catalog

import (
	"github.com/sellerops/backend/internal/domain/shared"
)

// Product is a sellable item identified by the company's internal SKU.
// Store listings reference a product; the internal SKU is the last
// resort of the listing match cascade.
type Product struct {
	shared.BaseEntity
	SKU  string
	Name string
}

// NewProduct creates a new product
func NewProduct(sku, name string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
	}, nil
}
