package datascope

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/sales"
)

// newDryRunDB builds a GORM session that renders SQL without executing it
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DryRun:                 true,
	})
	require.NoError(t, err)
	return gormDB
}

func renderSQL(db *gorm.DB) string {
	stmt := db.Table("sales_records").Select("*").Find(&[]map[string]any{}).Statement
	return stmt.SQL.String()
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     Pagination
	}{
		{"valid input", 2, 50, Pagination{Page: 2, PageSize: 50, Offset: 50}},
		{"zero page clamps to 1", 0, 50, Pagination{Page: 1, PageSize: 50, Offset: 0}},
		{"negative page clamps to 1", -3, 50, Pagination{Page: 1, PageSize: 50, Offset: 0}},
		{"zero page size defaults", 1, 0, Pagination{Page: 1, PageSize: DefaultPageSize, Offset: 0}},
		{"negative page size defaults", 1, -10, Pagination{Page: 1, PageSize: DefaultPageSize, Offset: 0}},
		{"oversized page size clamps to max", 1, 5000, Pagination{Page: 1, PageSize: MaxPageSize, Offset: 0}},
		{"offset uses clamped page size", 3, 300, Pagination{Page: 3, PageSize: MaxPageSize, Offset: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePagination(tt.page, tt.pageSize))
		})
	}
}

func TestBuildSalesOrder(t *testing.T) {
	assert.Equal(t, "sales_records.record_date DESC", BuildSalesOrder("", ""))
	assert.Equal(t, "sales_records.revenue ASC", BuildSalesOrder("revenue", "asc"))
	assert.Equal(t, "sales_records.sales_volume DESC", BuildSalesOrder("sales_volume", "desc"))
	// Unlisted field falls back to record_date but keeps the direction
	assert.Equal(t, "sales_records.record_date ASC", BuildSalesOrder("password; DROP TABLE users", "ASC"))
	assert.Equal(t, "sales_records.record_date DESC", BuildSalesOrder("nonexistent", "bogus"))
}

func TestApplySalesScope(t *testing.T) {
	userID := uuid.New()

	t.Run("admin gets no narrowing", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := renderSQL(ApplySalesScope(db, sales.VisibilityScope{IsAdmin: true}))
		assert.NotContains(t, sql, "WHERE")
	})

	t.Run("anonymous non-admin gets empty result", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := renderSQL(ApplySalesScope(db, sales.VisibilityScope{}))
		assert.Contains(t, sql, "1 = 0")
	})

	t.Run("operator without supervised countries sees own rows only", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := renderSQL(ApplySalesScope(db, sales.VisibilityScope{UserID: userID}))
		assert.Contains(t, sql, "sales_records.entered_by")
		assert.NotContains(t, sql, "country_code")
	})

	t.Run("supervisor sees own rows plus supervised countries", func(t *testing.T) {
		db := newDryRunDB(t)
		scope := sales.VisibilityScope{UserID: userID, SupervisedCountries: []string{"ID", "VN"}}
		sql := renderSQL(ApplySalesScope(db, scope))
		assert.Contains(t, sql, "sales_records.entered_by")
		assert.Contains(t, sql, "stores.country_code IN")
	})
}

func TestApplySalesFilter(t *testing.T) {
	t.Run("explicit country filter narrows, never replaced by grants", func(t *testing.T) {
		db := newDryRunDB(t)
		scope := sales.VisibilityScope{UserID: uuid.New(), SupervisedCountries: []string{"ID"}}
		db = ApplySalesScope(db, scope)
		db = ApplySalesFilter(db, sales.RecordFilter{CountryCode: "TH"})
		sql := renderSQL(db)
		// Both the authorization clause and the requested country survive
		assert.Contains(t, sql, "stores.country_code IN")
		assert.Contains(t, sql, "stores.country_code =")
	})

	t.Run("empty filter adds nothing", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := renderSQL(ApplySalesFilter(db, sales.RecordFilter{}))
		assert.NotContains(t, sql, "WHERE")
	})

	t.Run("all filters render", func(t *testing.T) {
		db := newDryRunDB(t)
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		filter := sales.RecordFilter{
			CountryCode: "ID",
			Platform:    "SHOPEE",
			StoreID:     uuid.NewString(),
			BatchID:     uuid.NewString(),
			Search:      "kaos",
			StartDate:   &start,
			EndDate:     &end,
		}
		sql := renderSQL(ApplySalesFilter(db, filter))
		assert.Contains(t, sql, "sales_records.platform")
		assert.Contains(t, sql, "sales_records.store_id")
		assert.Contains(t, sql, "sales_records.batch_id")
		assert.Contains(t, sql, "ILIKE")
		assert.Contains(t, sql, "sales_records.record_date >=")
		assert.Contains(t, sql, "sales_records.record_date <=")
	})
}
