package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/interfaces/http/dto"
)

// CatalogHandler serves the internal product catalog. Products are
// reference data: operators browse them when checking why a listing
// match landed where it did, so the surface is read-only.
type CatalogHandler struct {
	BaseHandler
	products catalog.ProductRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products catalog.ProductRepository) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ListProducts returns a page of products, filterable by a SKU or
// name search term.
//
// GET /api/v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	req := dto.ProductListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	products, total, err := h.products.FindAll(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		views = append(views, dto.NewProductResponse(product))
	}
	h.SuccessWithMeta(c, views, total, req.Page, req.PageSize)
}

// GetProduct returns a single product by ID.
//
// GET /api/v1/catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewProductResponse(*product))
}
