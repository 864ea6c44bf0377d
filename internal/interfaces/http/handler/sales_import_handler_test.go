package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	importapp "github.com/sellerops/backend/internal/application/import"
	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/infrastructure/config"
	"github.com/sellerops/backend/internal/interfaces/http/middleware"
)

type mockBatchRepo struct{ mock.Mock }

func (m *mockBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.ImportBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.ImportBatch), args.Error(1)
}

func (m *mockBatchRepo) List(ctx context.Context, filter sales.BatchFilter, scope sales.VisibilityScope) ([]sales.ImportBatch, int64, error) {
	args := m.Called(ctx, filter, scope)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]sales.ImportBatch), args.Get(1).(int64), args.Error(2)
}

func (m *mockBatchRepo) ConfirmBatch(ctx context.Context, batch *sales.ImportBatch, records []*sales.SalesRecord, policy sales.CollisionPolicy) (*sales.ConfirmOutcome, error) {
	args := m.Called(ctx, batch, records, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.ConfirmOutcome), args.Error(1)
}

func (m *mockBatchRepo) RollbackBatch(ctx context.Context, batch *sales.ImportBatch) (int64, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBatchRepo) CountryCodeOf(ctx context.Context, batchID uuid.UUID) (string, error) {
	args := m.Called(ctx, batchID)
	return args.String(0), args.Error(1)
}

type mockRecordRepo struct{ mock.Mock }

func (m *mockRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesRecord), args.Error(1)
}

func (m *mockRecordRepo) List(ctx context.Context, filter sales.RecordFilter, scope sales.VisibilityScope) ([]sales.SalesRecord, int64, error) {
	args := m.Called(ctx, filter, scope)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]sales.SalesRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockRecordRepo) FindByStoreAndOrderIDs(ctx context.Context, storeID uuid.UUID, orderIDs []string) ([]sales.SalesRecord, error) {
	args := m.Called(ctx, storeID, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.SalesRecord), args.Error(1)
}

func (m *mockRecordRepo) Save(ctx context.Context, record *sales.SalesRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRecordRepo) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepo) AggregateByPlatform(ctx context.Context, filter sales.RecordFilter, scope sales.VisibilityScope) ([]sales.PlatformAggregate, error) {
	args := m.Called(ctx, filter, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.PlatformAggregate), args.Error(1)
}

type mockStoreRepo struct{ mock.Mock }

func (m *mockStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

func (m *mockStoreRepo) FindAllByCountries(ctx context.Context, countryCodes []string) ([]catalog.Store, error) {
	args := m.Called(ctx, countryCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Store), args.Error(1)
}

func (m *mockStoreRepo) Save(ctx context.Context, store *catalog.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

type mockMatcher struct{ mock.Mock }

func (m *mockMatcher) Match(ctx context.Context, platform sales.Platform, title, sku string) (catalog.MatchResult, error) {
	args := m.Called(ctx, platform, title, sku)
	return args.Get(0).(catalog.MatchResult), args.Error(1)
}

type importHandlerFixture struct {
	handler    *SalesImportHandler
	batchRepo  *mockBatchRepo
	recordRepo *mockRecordRepo
	storeRepo  *mockStoreRepo
	matcher    *mockMatcher
}

func newImportFixture(t *testing.T) *importHandlerFixture {
	t.Helper()
	fix := &importHandlerFixture{
		batchRepo:  new(mockBatchRepo),
		recordRepo: new(mockRecordRepo),
		storeRepo:  new(mockStoreRepo),
		matcher:    new(mockMatcher),
	}
	service := importapp.NewSalesImportService(fix.batchRepo, fix.recordRepo, fix.storeRepo, fix.matcher, nil)
	fix.handler = NewSalesImportHandler(service, config.UploadConfig{
		Dir:         t.TempDir(),
		MaxFileSize: 10 << 20,
	}, nil)
	return fix
}

func importTestRouter(fix *importHandlerFixture, principal identity.Principal) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, principal)
	})
	router.POST("/imports/preview", fix.handler.Preview)
	router.POST("/imports/confirm", fix.handler.Confirm)
	router.POST("/batches/:id/rollback", fix.handler.Rollback)
	router.GET("/batches", fix.handler.ListBatches)
	return router
}

// shopeeWorkbook builds an in-memory xlsx in Shopee's export layout
func shopeeWorkbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []any{
		"No. Pesanan", "Status Pesanan", "Alasan Pembatalan", "Nama Produk",
		"Nomor Referensi SKU", "SKU Induk", "Jumlah", "Harga Setelah Diskon",
		"Total Harga Produk", "Waktu Pesanan Dibuat",
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// uploadRequest builds a multipart request with an optional file part
func uploadRequest(t *testing.T, url string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "orders.xlsx")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func operatorPrincipal() identity.Principal {
	return identity.Principal{
		UserID:            uuid.New(),
		Username:          "ops.jakarta",
		Role:              identity.RoleOperation,
		OperatedCountries: []string{"ID"},
	}
}

func TestSalesImportHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the annotated preview", func(t *testing.T) {
		fix := newImportFixture(t)
		store, err := catalog.NewStore("Shopee Jakarta", sales.PlatformShopee, "ID")
		require.NoError(t, err)

		fix.storeRepo.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		fix.recordRepo.On("FindByStoreAndOrderIDs", mock.Anything, store.ID, []string{"ORD-1"}).
			Return([]sales.SalesRecord{}, nil)
		listingID, productID := uuid.New(), uuid.New()
		fix.matcher.On("Match", mock.Anything, sales.PlatformShopee, "Gaming Mouse", "GM-01").
			Return(catalog.MatchResult{ListingID: &listingID, ProductID: &productID, MatchType: catalog.MatchTypeTitle}, nil)

		file := shopeeWorkbook(t,
			[]any{"ORD-1", "Selesai", "", "Gaming Mouse", "GM-01", "", 2, "150000", "300000", "2025-03-01 10:00:00"},
		)
		req := uploadRequest(t, "/imports/preview", file, map[string]string{"store_id": store.ID.String()})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Platform     string `json:"platform"`
				TotalRows    int    `json:"total_rows"`
				MatchedCount int    `json:"matched_count"`
				Rows         []struct {
					PlatformOrderID string `json:"platform_order_id"`
					Matched         bool   `json:"matched"`
					MatchType       string `json:"match_type"`
					IsUpdate        bool   `json:"is_update"`
				} `json:"rows"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "SHOPEE", resp.Data.Platform)
		assert.Equal(t, 1, resp.Data.TotalRows)
		assert.Equal(t, 1, resp.Data.MatchedCount)
		require.Len(t, resp.Data.Rows, 1)
		assert.Equal(t, "ORD-1", resp.Data.Rows[0].PlatformOrderID)
		assert.True(t, resp.Data.Rows[0].Matched)
		assert.Equal(t, "TITLE", resp.Data.Rows[0].MatchType)
		assert.False(t, resp.Data.Rows[0].IsUpdate)
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		fix := newImportFixture(t)
		req := uploadRequest(t, "/imports/preview", nil, map[string]string{"store_id": uuid.NewString()})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a missing store_id", func(t *testing.T) {
		fix := newImportFixture(t)
		req := uploadRequest(t, "/imports/preview", shopeeWorkbook(t), nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps a platform mismatch onto 422", func(t *testing.T) {
		fix := newImportFixture(t)
		store, err := catalog.NewStore("TikTok Hanoi", sales.PlatformTikTokShop, "VN")
		require.NoError(t, err)
		fix.storeRepo.On("FindByID", mock.Anything, store.ID).Return(store, nil)

		file := shopeeWorkbook(t,
			[]any{"ORD-1", "Selesai", "", "Gaming Mouse", "GM-01", "", 1, "150000", "150000", "2025-03-01 10:00:00"},
		)
		req := uploadRequest(t, "/imports/preview", file, map[string]string{"store_id": store.ID.String()})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_PLATFORM_MISMATCH")
	})
}

func TestSalesImportHandlerConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("persists the batch and returns 201", func(t *testing.T) {
		fix := newImportFixture(t)
		store, err := catalog.NewStore("Shopee Jakarta", sales.PlatformShopee, "ID")
		require.NoError(t, err)

		fix.storeRepo.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		fix.matcher.On("Match", mock.Anything, sales.PlatformShopee, mock.Anything, mock.Anything).
			Return(catalog.MatchResult{MatchType: catalog.MatchTypeNone}, nil)
		fix.batchRepo.On("ConfirmBatch", mock.Anything, mock.Anything, mock.Anything, sales.CollisionReject).
			Run(func(args mock.Arguments) {
				batch := args.Get(1).(*sales.ImportBatch)
				require.NoError(t, batch.Confirm(1))
			}).
			Return(&sales.ConfirmOutcome{InsertedCount: 1}, nil)

		file := shopeeWorkbook(t,
			[]any{"ORD-1", "Selesai", "", "Gaming Mouse", "GM-01", "", 2, "150000", "300000", "2025-03-01 10:00:00"},
		)
		req := uploadRequest(t, "/imports/confirm", file, map[string]string{"store_id": store.ID.String()})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "CONFIRMED")
	})

	t.Run("maps a collision under reject onto 409", func(t *testing.T) {
		fix := newImportFixture(t)
		store, err := catalog.NewStore("Shopee Jakarta", sales.PlatformShopee, "ID")
		require.NoError(t, err)

		fix.storeRepo.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		fix.matcher.On("Match", mock.Anything, sales.PlatformShopee, mock.Anything, mock.Anything).
			Return(catalog.MatchResult{MatchType: catalog.MatchTypeNone}, nil)
		fix.batchRepo.On("ConfirmBatch", mock.Anything, mock.Anything, mock.Anything, sales.CollisionReject).
			Return(&sales.ConfirmOutcome{Collisions: []string{"ORD-1"}}, sales.ErrDuplicateOrder)

		file := shopeeWorkbook(t,
			[]any{"ORD-1", "Selesai", "", "Gaming Mouse", "GM-01", "", 2, "150000", "300000", "2025-03-01 10:00:00"},
		)
		req := uploadRequest(t, "/imports/confirm", file, map[string]string{"store_id": store.ID.String()})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_DUPLICATE_ORDER")
		assert.Contains(t, w.Body.String(), "ORD-1")
	})

	t.Run("rejects an unknown collision policy", func(t *testing.T) {
		fix := newImportFixture(t)
		req := uploadRequest(t, "/imports/confirm", shopeeWorkbook(t), map[string]string{
			"store_id":         uuid.NewString(),
			"collision_policy": "merge",
		})
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalesImportHandlerRollback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newConfirmedBatch := func(t *testing.T, createdBy uuid.UUID) *sales.ImportBatch {
		t.Helper()
		batch, err := sales.NewImportBatch(sales.PlatformShopee, "orders.xlsx", createdBy)
		require.NoError(t, err)
		require.NoError(t, batch.Confirm(3))
		return batch
	}

	t.Run("rolls back the creator's own batch", func(t *testing.T) {
		fix := newImportFixture(t)
		principal := operatorPrincipal()
		batch := newConfirmedBatch(t, principal.UserID)

		fix.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		fix.batchRepo.On("RollbackBatch", mock.Anything, batch).Return(int64(3), nil)

		req := httptest.NewRequest("POST", "/batches/"+batch.ID.String()+"/rollback", nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, principal).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"deleted_count":3`)
	})

	t.Run("denies an unrelated operator", func(t *testing.T) {
		fix := newImportFixture(t)
		batch := newConfirmedBatch(t, uuid.New())

		fix.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		fix.batchRepo.On("CountryCodeOf", mock.Anything, batch.ID).Return("VN", nil)

		req := httptest.NewRequest("POST", "/batches/"+batch.ID.String()+"/rollback", nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		fix.batchRepo.AssertNotCalled(t, "RollbackBatch", mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed batch id", func(t *testing.T) {
		fix := newImportFixture(t)
		req := httptest.NewRequest("POST", "/batches/not-a-uuid/rollback", nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalesImportHandlerListBatches(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the visible batches with pagination meta", func(t *testing.T) {
		fix := newImportFixture(t)
		principal := operatorPrincipal()
		batch, err := sales.NewImportBatch(sales.PlatformShopee, "orders.xlsx", principal.UserID)
		require.NoError(t, err)
		require.NoError(t, batch.Confirm(2))

		fix.batchRepo.On("List", mock.Anything,
			sales.BatchFilter{Platform: "SHOPEE", SortBy: "row_count", SortOrder: "asc", Page: 1, PageSize: 20},
			sales.ScopeFromPrincipal(principal),
		).Return([]sales.ImportBatch{*batch}, int64(1), nil)

		req := httptest.NewRequest("GET", "/batches?platform=SHOPEE&order_by=row_count&order_dir=asc", nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, principal).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Success bool `json:"success"`
			Data    []struct {
				ID       string `json:"id"`
				Platform string `json:"platform"`
				Status   string `json:"status"`
				RowCount int    `json:"row_count"`
			} `json:"data"`
			Meta struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, batch.ID.String(), resp.Data[0].ID)
		assert.Equal(t, "CONFIRMED", resp.Data[0].Status)
		assert.Equal(t, 2, resp.Data[0].RowCount)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("rejects an unknown platform filter", func(t *testing.T) {
		fix := newImportFixture(t)
		req := httptest.NewRequest("GET", "/batches?platform=LAZADA", nil)
		w := httptest.NewRecorder()
		importTestRouter(fix, operatorPrincipal()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
