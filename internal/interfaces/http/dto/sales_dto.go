package dto

import (
	"time"

	appsales "github.com/sellerops/backend/internal/application/sales"
	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/sales"
)

// RecordListRequest carries the filters for listing sales records
type RecordListRequest struct {
	ListRequest
	Platform    string `form:"platform" binding:"omitempty,oneof=SHOPEE TIKTOK_SHOP"`
	CountryCode string `form:"country_code"`
	StoreID     string `form:"store_id" binding:"omitempty,uuid"`
	BatchID     string `form:"batch_id" binding:"omitempty,uuid"`
	StartDate   string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the request into a domain record filter
func (r RecordListRequest) ToFilter() sales.RecordFilter {
	filter := sales.RecordFilter{
		CountryCode: r.CountryCode,
		Platform:    r.Platform,
		StoreID:     r.StoreID,
		BatchID:     r.BatchID,
		Search:      r.Search,
		SortBy:      r.OrderBy,
		SortOrder:   r.OrderDir,
		Page:        r.Page,
		PageSize:    r.PageSize,
	}
	if t, err := time.Parse("2006-01-02", r.StartDate); err == nil && r.StartDate != "" {
		filter.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", r.EndDate); err == nil && r.EndDate != "" {
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}
	return filter
}

// RecordResponse is one sales record in list responses. CanManage
// reflects whether the caller may edit or delete the row.
type RecordResponse struct {
	ID              string  `json:"id"`
	RecordDate      string  `json:"record_date"`
	Platform        string  `json:"platform"`
	PlatformOrderID string  `json:"platform_order_id"`
	Status          string  `json:"status"`
	CancelReason    string  `json:"cancel_reason,omitempty"`
	Revenue         string  `json:"revenue"`
	SalesVolume     int     `json:"sales_volume"`
	Currency        string  `json:"currency"`
	RawTitle        string  `json:"raw_title,omitempty"`
	RawSKU          string  `json:"raw_sku,omitempty"`
	StoreID         string  `json:"store_id"`
	ProductID       *string `json:"product_id,omitempty"`
	ListingID       *string `json:"listing_id,omitempty"`
	BatchID         string  `json:"batch_id"`
	EnteredBy       string  `json:"entered_by"`
	CanManage       bool    `json:"can_manage"`
}

// NewRecordResponse maps an application record view to the wire format
func NewRecordResponse(view appsales.RecordView) RecordResponse {
	resp := RecordResponse{
		ID:              view.ID.String(),
		RecordDate:      view.RecordDate.Format("2006-01-02"),
		Platform:        string(view.Platform),
		PlatformOrderID: view.PlatformOrderID,
		Status:          string(view.OrderStatus),
		CancelReason:    view.CancelReason,
		Revenue:         view.Revenue.String(),
		SalesVolume:     view.SalesVolume,
		Currency:        view.Currency,
		RawTitle:        view.RawTitle,
		RawSKU:          view.RawSKU,
		StoreID:         view.StoreID.String(),
		BatchID:         view.BatchID.String(),
		EnteredBy:       view.EnteredBy.String(),
		CanManage:       view.CanManage,
	}
	if view.ProductID != nil {
		id := view.ProductID.String()
		resp.ProductID = &id
	}
	if view.ListingID != nil {
		id := view.ListingID.String()
		resp.ListingID = &id
	}
	return resp
}

// PlatformStatsResponse is the per-platform slice of the stats summary
type PlatformStatsResponse struct {
	Platform   string `json:"platform"`
	Orders     int64  `json:"orders"`
	Units      int64  `json:"units"`
	RevenueCNY string `json:"revenue_cny"`
}

// StatsResponse is the sales dashboard header
type StatsResponse struct {
	TotalOrders     int64                   `json:"total_orders"`
	TotalUnits      int64                   `json:"total_units"`
	TotalRevenueCNY string                  `json:"total_revenue_cny"`
	Platforms       []PlatformStatsResponse `json:"platforms"`
}

// NewStatsResponse maps a stats summary to the wire format
func NewStatsResponse(summary *appsales.StatsSummary) StatsResponse {
	platforms := make([]PlatformStatsResponse, 0, len(summary.Platforms))
	for _, p := range summary.Platforms {
		platforms = append(platforms, PlatformStatsResponse{
			Platform:   string(p.Platform),
			Orders:     p.Orders,
			Units:      p.Units,
			RevenueCNY: p.RevenueCNY.StringFixed(2),
		})
	}
	return StatsResponse{
		TotalOrders:     summary.TotalOrders,
		TotalUnits:      summary.TotalUnits,
		TotalRevenueCNY: summary.TotalRevenueCNY.StringFixed(2),
		Platforms:       platforms,
	}
}

// StoreResponse is one store in list responses
type StoreResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	CountryCode string `json:"country_code"`
}

// NewStoreResponse maps a domain store to the wire format
func NewStoreResponse(store catalog.Store) StoreResponse {
	return StoreResponse{
		ID:          store.ID.String(),
		Name:        store.Name,
		Platform:    string(store.Platform),
		CountryCode: store.CountryCode,
	}
}
