package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/shared"
)

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func catalogTestRouter(products *mockProductRepo) *gin.Engine {
	router := gin.New()
	h := NewCatalogHandler(products)
	router.GET("/catalog/products", h.ListProducts)
	router.GET("/catalog/products/:id", h.GetProduct)
	return router
}

func newTestProduct(t *testing.T, sku, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, name)
	require.NoError(t, err)
	return product
}

func TestCatalogHandlerListProducts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns a page of products with the search term applied", func(t *testing.T) {
		products := new(mockProductRepo)
		mug := newTestProduct(t, "MUG-RED-01", "Red Ceramic Mug")
		products.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Search == "mug" && f.Page == 1 && f.PageSize == 20
		})).Return([]catalog.Product{*mug}, int64(1), nil)

		req := httptest.NewRequest("GET", "/catalog/products?search=mug", nil)
		w := httptest.NewRecorder()
		catalogTestRouter(products).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data []struct {
				SKU  string `json:"sku"`
				Name string `json:"name"`
			} `json:"data"`
			Meta struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "MUG-RED-01", resp.Data[0].SKU)
		assert.Equal(t, "Red Ceramic Mug", resp.Data[0].Name)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("rejects a page size over the cap", func(t *testing.T) {
		products := new(mockProductRepo)
		req := httptest.NewRequest("GET", "/catalog/products?page_size=500", nil)
		w := httptest.NewRecorder()
		catalogTestRouter(products).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		products.AssertNotCalled(t, "FindAll")
	})
}

func TestCatalogHandlerGetProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the product", func(t *testing.T) {
		products := new(mockProductRepo)
		mug := newTestProduct(t, "MUG-RED-01", "Red Ceramic Mug")
		products.On("FindByID", mock.Anything, mug.ID).Return(mug, nil)

		req := httptest.NewRequest("GET", "/catalog/products/"+mug.ID.String(), nil)
		w := httptest.NewRecorder()
		catalogTestRouter(products).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				ID  string `json:"id"`
				SKU string `json:"sku"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, mug.ID.String(), resp.Data.ID)
		assert.Equal(t, "MUG-RED-01", resp.Data.SKU)
	})

	t.Run("returns 404 for a missing product", func(t *testing.T) {
		products := new(mockProductRepo)
		products.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("GET", "/catalog/products/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		catalogTestRouter(products).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		products := new(mockProductRepo)
		req := httptest.NewRequest("GET", "/catalog/products/not-a-uuid", nil)
		w := httptest.NewRecorder()
		catalogTestRouter(products).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		products.AssertNotCalled(t, "FindByID")
	})
}
