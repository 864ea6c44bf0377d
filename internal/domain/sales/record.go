package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerops/backend/internal/domain/shared"
)

// SalesRecord is one normalized order row as persisted by a confirmed
// import batch. RawTitle and RawSKU are kept only as an audit trail of
// what the matcher saw; the authoritative link is ListingID.
type SalesRecord struct {
	shared.BaseEntity
	RecordDate      time.Time
	Platform        Platform
	PlatformOrderID string
	OrderStatus     OrderStatus
	CancelReason    string
	Revenue         decimal.Decimal
	SalesVolume     int
	Currency        string
	RawTitle        string
	RawSKU          string
	Notes           string
	StoreID         uuid.UUID
	ProductID       *uuid.UUID
	ListingID       *uuid.UUID
	BatchID         uuid.UUID
	EnteredBy       uuid.UUID
}

// NewSalesRecord creates a sales record owned by an import batch
func NewSalesRecord(batchID, storeID, enteredBy uuid.UUID, platform Platform, platformOrderID string, recordDate time.Time, revenue decimal.Decimal, salesVolume int) (*SalesRecord, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if platformOrderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Platform order ID cannot be empty")
	}
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown platform")
	}
	if revenue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REVENUE", "Revenue cannot be negative")
	}
	if salesVolume < 0 {
		return nil, shared.NewDomainError("INVALID_VOLUME", "Sales volume cannot be negative")
	}
	if recordDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Record date cannot be empty")
	}

	return &SalesRecord{
		BaseEntity:      shared.NewBaseEntity(),
		RecordDate:      recordDate,
		Platform:        platform,
		PlatformOrderID: platformOrderID,
		OrderStatus:     StatusUnknown,
		Revenue:         revenue,
		SalesVolume:     salesVolume,
		StoreID:         storeID,
		BatchID:         batchID,
		EnteredBy:       enteredBy,
	}, nil
}

// SetStatus sets the canonical order status
func (r *SalesRecord) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	r.OrderStatus = status
	r.Touch()
	return nil
}

// SetCancelReason records the normalized cancellation reason
func (r *SalesRecord) SetCancelReason(reason string) {
	r.CancelReason = reason
	r.Touch()
}

// SetRawSource keeps the title and SKU exactly as seen in the source
// file for later reconciliation
func (r *SalesRecord) SetRawSource(title, sku string) {
	r.RawTitle = title
	r.RawSKU = sku
	r.Touch()
}

// SetCurrency sets the currency the revenue is denominated in
func (r *SalesRecord) SetCurrency(code string) {
	r.Currency = code
	r.Touch()
}

// AttachListing links the record to a matched store listing
func (r *SalesRecord) AttachListing(listingID, productID uuid.UUID) {
	r.ListingID = &listingID
	if productID != uuid.Nil {
		r.ProductID = &productID
	}
	r.Touch()
}

// IsMatched reports whether the record is linked to a listing
func (r *SalesRecord) IsMatched() bool {
	return r.ListingID != nil
}
