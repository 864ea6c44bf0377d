package sales

import (
	"github.com/shopspring/decimal"

	"github.com/sellerops/backend/internal/domain/sales"
)

// RecordView is one listed record plus whether the caller may edit or
// delete it
type RecordView struct {
	sales.SalesRecord
	CanManage bool
}

// RecordPage is one page of records with the total before pagination
type RecordPage struct {
	Rows  []RecordView
	Total int64
}

// PlatformStats is the per-platform slice of the stats summary,
// revenue already converted to CNY
type PlatformStats struct {
	Platform   sales.Platform
	Orders     int64
	Units      int64
	RevenueCNY decimal.Decimal
}

// StatsSummary is the sales dashboard header: grand totals plus a
// per-platform breakdown
type StatsSummary struct {
	TotalOrders     int64
	TotalUnits      int64
	TotalRevenueCNY decimal.Decimal
	Platforms       []*PlatformStats
}
