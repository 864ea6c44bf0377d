package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
)

// ProductRepository defines the read side of the internal product
// catalog. Products are reference data maintained by migrations and
// back-office imports, so the API only ever reads them.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
}

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// FindAllByCountries returns stores in the given countries, all
	// stores when countryCodes is nil
	FindAllByCountries(ctx context.Context, countryCodes []string) ([]Store, error)
	Save(ctx context.Context, store *Store) error
}

// ListingRepository defines the read-side lookups the matcher needs
// plus basic listing persistence. All matcher lookups are scoped to a
// platform: cross-platform collisions must never match.
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StoreListing, error)
	// FindByPlatformAndTitle finds a listing whose store is on the
	// platform and whose title matches exactly (case-sensitive)
	FindByPlatformAndTitle(ctx context.Context, platform sales.Platform, title string) (*StoreListing, error)
	// FindByPlatformAndProductCode finds a listing by its platform-side
	// product code
	FindByPlatformAndProductCode(ctx context.Context, platform sales.Platform, code string) (*StoreListing, error)
	// FindByPlatformAndInternalSKU finds a listing whose underlying
	// product carries the given internal SKU
	FindByPlatformAndInternalSKU(ctx context.Context, platform sales.Platform, sku string) (*StoreListing, error)
	Save(ctx context.Context, listing *StoreListing) error
}

// ListingMappingRepository defines the interface for manual overrides
type ListingMappingRepository interface {
	// FindByPlatformAndExternal finds an override matching either the
	// exact external title or the exact external SKU on the platform
	FindByPlatformAndExternal(ctx context.Context, platform sales.Platform, title, sku string) (*ListingMapping, error)
	Save(ctx context.Context, mapping *ListingMapping) error
	Delete(ctx context.Context, id uuid.UUID) error
}
