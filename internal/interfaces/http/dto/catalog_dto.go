package dto

import (
	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/shared"
)

// ProductListRequest carries the filters for listing catalog products
type ProductListRequest struct {
	ListRequest
}

// ToFilter converts the request into a shared repository filter
func (r ProductListRequest) ToFilter() shared.Filter {
	return shared.Filter{
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
		Search:   r.Search,
	}
}

// ProductResponse is one product in catalog responses
type ProductResponse struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductResponse maps a domain product to the wire format
func NewProductResponse(product catalog.Product) ProductResponse {
	return ProductResponse{
		ID:   product.ID.String(),
		SKU:  product.SKU,
		Name: product.Name,
	}
}
