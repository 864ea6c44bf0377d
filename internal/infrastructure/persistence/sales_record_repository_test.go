package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
)

func newMockSalesRecordRepository(t *testing.T) (*GormSalesRecordRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSalesRecordRepository(gormDB), mock, mockDB
}

func TestGormSalesRecordRepository_FindByID(t *testing.T) {
	t.Run("finds existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "platform", "platform_order_id", "revenue", "sales_volume", "order_status", "record_date"}).
			AddRow(recordID, "SHOPEE", "220101ABCDEF", "150000", 2, "Completed", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

		mock.ExpectQuery(`SELECT \* FROM "sales_records" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(recordID, 1).
			WillReturnRows(rows)

		record, err := repo.FindByID(context.Background(), recordID)
		require.NoError(t, err)
		assert.Equal(t, "220101ABCDEF", record.PlatformOrderID)
		assert.True(t, record.Revenue.Equal(decimal.NewFromInt(150000)))
		assert.Equal(t, 2, record.SalesVolume)
	})

	t.Run("returns ErrRecordNotFound for missing record", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sales_records" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(recordID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), recordID)
		assert.ErrorIs(t, err, sales.ErrRecordNotFound)
	})
}

func TestGormSalesRecordRepository_List(t *testing.T) {
	t.Run("counts before paginating and joins stores", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sales_records" JOIN stores ON stores\.id = sales_records\.store_id`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(35))
		mock.ExpectQuery(`SELECT .* FROM "sales_records" JOIN stores ON stores\.id = sales_records\.store_id.*ORDER BY sales_records\.record_date DESC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "platform_order_id"}).
				AddRow(uuid.New(), "ORD-1").
				AddRow(uuid.New(), "ORD-2"))

		records, total, err := repo.List(context.Background(),
			sales.RecordFilter{Page: 1, PageSize: 20},
			sales.VisibilityScope{IsAdmin: true})
		require.NoError(t, err)
		assert.Equal(t, int64(35), total)
		assert.Len(t, records, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous scope matches nothing", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sales_records" JOIN stores ON stores\.id = sales_records\.store_id WHERE 1 = 0`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .* FROM "sales_records" JOIN stores .*1 = 0.*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		records, total, err := repo.List(context.Background(),
			sales.RecordFilter{}, sales.VisibilityScope{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, records)
	})
}

func TestGormSalesRecordRepository_FindByStoreAndOrderIDs(t *testing.T) {
	t.Run("empty input issues no query", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		records, err := repo.FindByStoreAndOrderIDs(context.Background(), uuid.New(), nil)
		require.NoError(t, err)
		assert.Nil(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns matching records", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sales_records" WHERE store_id = \$1 AND platform_order_id IN \(\$2,\$3\)`).
			WithArgs(storeID, "ORD-1", "ORD-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "platform_order_id"}).
				AddRow(uuid.New(), "ORD-2"))

		records, err := repo.FindByStoreAndOrderIDs(context.Background(), storeID, []string{"ORD-1", "ORD-2"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "ORD-2", records[0].PlatformOrderID)
	})
}

func TestGormSalesRecordRepository_Delete(t *testing.T) {
	t.Run("deletes existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		mock.ExpectExec(`DELETE FROM "sales_records" WHERE id = \$1`).
			WithArgs(recordID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), recordID))
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		mock.ExpectExec(`DELETE FROM "sales_records" WHERE id = \$1`).
			WithArgs(recordID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), recordID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSalesRecordRepository_CountByBatch(t *testing.T) {
	repo, mock, mockDB := newMockSalesRecordRepository(t)
	defer mockDB.Close()

	batchID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "sales_records" WHERE batch_id = \$1`).
		WithArgs(batchID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountByBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
