package catalog

import (
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
)

// Store is a seller storefront on one platform in one country.
type Store struct {
	shared.BaseEntity
	Name        string
	Platform    sales.Platform
	CountryCode string
}

// NewStore creates a new store
func NewStore(name string, platform sales.Platform, countryCode string) (*Store, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform")
	}
	if countryCode == "" {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country code cannot be empty")
	}
	return &Store{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Platform:    platform,
		CountryCode: countryCode,
	}, nil
}
