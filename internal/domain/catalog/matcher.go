package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
)

// MatchType names the cascade stage that produced a match
type MatchType string

const (
	// MatchTypeMapping is a curated manual override hit
	MatchTypeMapping MatchType = "MAPPING"
	// MatchTypeTitle is an exact store-title hit
	MatchTypeTitle MatchType = "TITLE"
	// MatchTypeSKU is a platform product-code hit
	MatchTypeSKU MatchType = "SKU"
	// MatchTypeInternalSKU is a hit on the product's internal SKU
	MatchTypeInternalSKU MatchType = "INTERNAL_SKU"
	// MatchTypeNone means no stage matched; the row stays unmatched and
	// is reconciled manually later
	MatchTypeNone MatchType = ""
)

// MatchResult links a spreadsheet row to a store listing. A nil
// ListingID with MatchTypeNone is a valid outcome, not an error.
type MatchResult struct {
	ListingID *uuid.UUID `json:"listingId"`
	ProductID *uuid.UUID `json:"productId,omitempty"`
	MatchType MatchType  `json:"matchType"`
}

// Matched reports whether a listing was found
func (r MatchResult) Matched() bool {
	return r.ListingID != nil
}

// matchStrategy is one stage of the cascade. A (nil, nil) return means
// "no hit, try the next stage".
type matchStrategy func(ctx context.Context, platform sales.Platform, title, sku string) (*MatchResult, error)

// Matcher resolves a row's (platform, title, sku) to a store listing
// using an ordered cascade: manual override, exact title, platform
// product code, internal product SKU. Title outranks SKU because
// sellers reuse one SKU across multiple links of the same product,
// which makes the title the more reliable signal.
type Matcher struct {
	listings   ListingRepository
	mappings   ListingMappingRepository
	strategies []matchStrategy
}

// NewMatcher creates a listing matcher over the catalog repositories
func NewMatcher(listings ListingRepository, mappings ListingMappingRepository) *Matcher {
	m := &Matcher{
		listings: listings,
		mappings: mappings,
	}
	m.strategies = []matchStrategy{
		m.matchByMapping,
		m.matchByTitle,
		m.matchByProductCode,
		m.matchByInternalSKU,
	}
	return m
}

// Match runs the cascade and returns on the first hit. Lookups are
// read-only and platform-scoped.
func (m *Matcher) Match(ctx context.Context, platform sales.Platform, title, sku string) (MatchResult, error) {
	for _, strategy := range m.strategies {
		result, err := strategy(ctx, platform, title, sku)
		if err != nil {
			return MatchResult{}, err
		}
		if result != nil {
			return *result, nil
		}
	}
	return MatchResult{MatchType: MatchTypeNone}, nil
}

func (m *Matcher) matchByMapping(ctx context.Context, platform sales.Platform, title, sku string) (*MatchResult, error) {
	if title == "" && sku == "" {
		return nil, nil
	}
	mapping, err := m.mappings.FindByPlatformAndExternal(ctx, platform, title, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m.resolve(ctx, mapping.ListingID, MatchTypeMapping)
}

func (m *Matcher) matchByTitle(ctx context.Context, platform sales.Platform, title, _ string) (*MatchResult, error) {
	if title == "" {
		return nil, nil
	}
	listing, err := m.listings.FindByPlatformAndTitle(ctx, platform, title)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resultFor(listing, MatchTypeTitle), nil
}

func (m *Matcher) matchByProductCode(ctx context.Context, platform sales.Platform, _, sku string) (*MatchResult, error) {
	if sku == "" {
		return nil, nil
	}
	listing, err := m.listings.FindByPlatformAndProductCode(ctx, platform, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resultFor(listing, MatchTypeSKU), nil
}

func (m *Matcher) matchByInternalSKU(ctx context.Context, platform sales.Platform, _, sku string) (*MatchResult, error) {
	if sku == "" {
		return nil, nil
	}
	listing, err := m.listings.FindByPlatformAndInternalSKU(ctx, platform, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resultFor(listing, MatchTypeInternalSKU), nil
}

// resolve loads the listing behind a mapping so the result carries the
// product reference too. A dangling mapping falls through the cascade.
func (m *Matcher) resolve(ctx context.Context, listingID uuid.UUID, matchType MatchType) (*MatchResult, error) {
	listing, err := m.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resultFor(listing, matchType), nil
}

func resultFor(listing *StoreListing, matchType MatchType) *MatchResult {
	listingID := listing.ID
	productID := listing.ProductID
	return &MatchResult{
		ListingID: &listingID,
		ProductID: &productID,
		MatchType: matchType,
	}
}
