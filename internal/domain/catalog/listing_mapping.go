package catalog

import (
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
)

// ListingMapping is a curated manual override: when a spreadsheet row's
// raw title or SKU keeps mismatching, an operator pins it to a listing.
// Overrides always win over heuristic matches.
type ListingMapping struct {
	shared.BaseEntity
	Platform      sales.Platform
	ExternalTitle string
	ExternalSKU   string
	ListingID     uuid.UUID
	CreatedBy     uuid.UUID
}

// NewListingMapping creates a manual override for a listing
func NewListingMapping(platform sales.Platform, externalTitle, externalSKU string, listingID, createdBy uuid.UUID) (*ListingMapping, error) {
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform")
	}
	if externalTitle == "" && externalSKU == "" {
		return nil, shared.NewDomainError("INVALID_MAPPING", "Mapping needs an external title or SKU")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}
	return &ListingMapping{
		BaseEntity:    shared.NewBaseEntity(),
		Platform:      platform,
		ExternalTitle: externalTitle,
		ExternalSKU:   externalSKU,
		ListingID:     listingID,
		CreatedBy:     createdBy,
	}, nil
}
