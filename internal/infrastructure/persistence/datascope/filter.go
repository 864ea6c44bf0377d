// Package datascope provides row-level visibility filtering for GORM
// queries over sales data.
//
// Visibility follows the principal's grants: admins see every row, a
// supervisor sees rows from stores in their supervised countries, and
// everyone sees rows they entered themselves. An explicit country
// filter in a request narrows the result but never widens it past the
// principal's grants.
//
// Usage:
//
//	db = datascope.ApplySalesScope(db, scope)
//	db = datascope.ApplySalesFilter(db, filter)
//	db = db.Order(datascope.BuildSalesOrder(filter.SortBy, filter.SortOrder))
package datascope

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/sales"
)

const (
	// DefaultPageSize is used when the caller does not specify one
	DefaultPageSize = 20
	// MaxPageSize caps a single page of results
	MaxPageSize = 200
)

// Pagination is a normalized page request.
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

// NormalizePagination clamps page >= 1 and pageSize into [1, MaxPageSize],
// defaulting invalid input to the nearest legal bound.
func NormalizePagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// ApplySalesScope narrows a sales_records query to the rows the
// principal may see. The query must already join the stores table
// (records carry country only through their store).
//
// Admins receive no narrowing. Non-admins see rows they entered plus
// rows from stores in their supervised countries. A principal with no
// identity gets an empty result rather than an unfiltered one.
func ApplySalesScope(db *gorm.DB, scope sales.VisibilityScope) *gorm.DB {
	if scope.IsAdmin {
		return db
	}
	if scope.UserID == uuid.Nil && len(scope.SupervisedCountries) == 0 {
		return db.Where("1 = 0")
	}
	if len(scope.SupervisedCountries) == 0 {
		return db.Where("sales_records.entered_by = ?", scope.UserID)
	}
	if scope.UserID == uuid.Nil {
		return db.Where("stores.country_code IN ?", scope.SupervisedCountries)
	}
	return db.Where("sales_records.entered_by = ? OR stores.country_code IN ?",
		scope.UserID, scope.SupervisedCountries)
}

// ApplySalesFilter applies the request's explicit filters. The country
// filter narrows within whatever ApplySalesScope already allows; it is
// never replaced by the principal's grants.
func ApplySalesFilter(db *gorm.DB, filter sales.RecordFilter) *gorm.DB {
	if filter.CountryCode != "" {
		db = db.Where("stores.country_code = ?", filter.CountryCode)
	}
	if filter.Platform != "" {
		db = db.Where("sales_records.platform = ?", filter.Platform)
	}
	if filter.StoreID != "" {
		db = db.Where("sales_records.store_id = ?", filter.StoreID)
	}
	if filter.BatchID != "" {
		db = db.Where("sales_records.batch_id = ?", filter.BatchID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("sales_records.platform_order_id ILIKE ? OR sales_records.raw_title ILIKE ?", pattern, pattern)
	}
	if filter.StartDate != nil {
		db = db.Where("sales_records.record_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("sales_records.record_date <= ?", *filter.EndDate)
	}
	return db
}

// salesSortColumns is the allow-list of sortable sales_records columns
var salesSortColumns = map[string]bool{
	"record_date":  true,
	"sales_volume": true,
	"revenue":      true,
	"created_at":   true,
	"order_status": true,
	"platform":     true,
}

// BuildSalesOrder returns an ORDER BY clause for the requested sort.
// An unlisted sort field falls back to record_date, preserving the
// requested direction.
func BuildSalesOrder(sortBy, sortOrder string) string {
	column := strings.TrimSpace(sortBy)
	if !salesSortColumns[column] {
		column = "record_date"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "ASC") {
		direction = "ASC"
	}
	return "sales_records." + column + " " + direction
}

// ScopeFunc is a GORM scope function type
type ScopeFunc func(*gorm.DB) *gorm.DB

// SalesScope returns a GORM scope applying the principal's visibility
func SalesScope(scope sales.VisibilityScope) ScopeFunc {
	return func(db *gorm.DB) *gorm.DB {
		return ApplySalesScope(db, scope)
	}
}

// SalesFilter returns a GORM scope applying the request's filters
func SalesFilter(filter sales.RecordFilter) ScopeFunc {
	return func(db *gorm.DB) *gorm.DB {
		return ApplySalesFilter(db, filter)
	}
}
