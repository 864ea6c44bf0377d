package handler

import (
	"github.com/gin-gonic/gin"

	appsales "github.com/sellerops/backend/internal/application/sales"
	"github.com/sellerops/backend/internal/interfaces/http/dto"
)

// SalesHandler serves the read side of the sales data: scoped record
// listings, the stats summary, and the caller's visible stores.
type SalesHandler struct {
	BaseHandler
	service *appsales.QueryService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *appsales.QueryService) *SalesHandler {
	return &SalesHandler{service: service}
}

// ListRecords returns the sales records visible to the caller. Every
// row carries a can_manage flag so the UI knows which rows the caller
// may edit.
//
// GET /api/v1/sales
func (h *SalesHandler) ListRecords(c *gin.Context) {
	req := dto.RecordListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	page, err := h.service.List(c.Request.Context(), req.ToFilter(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]dto.RecordResponse, 0, len(page.Rows))
	for _, row := range page.Rows {
		views = append(views, dto.NewRecordResponse(row))
	}
	h.SuccessWithMeta(c, views, page.Total, req.Page, req.PageSize)
}

// Stats returns order/unit/revenue totals for the caller's visible
// records, revenue converted to CNY with the cached rates.
//
// GET /api/v1/sales/stats
func (h *SalesHandler) Stats(c *gin.Context) {
	var req dto.RecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid filter parameters")
		return
	}

	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.service.Stats(c.Request.Context(), req.ToFilter(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewStatsResponse(summary))
}

// ListStores returns the stores the caller may import into: all of
// them for admins, otherwise the stores of the caller's operated
// countries.
//
// GET /api/v1/stores
func (h *SalesHandler) ListStores(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stores, err := h.service.ListStores(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]dto.StoreResponse, 0, len(stores))
	for _, store := range stores {
		views = append(views, dto.NewStoreResponse(store))
	}
	h.Success(c, views)
}
