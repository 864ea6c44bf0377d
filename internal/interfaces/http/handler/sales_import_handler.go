package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	importapp "github.com/sellerops/backend/internal/application/import"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
	"github.com/sellerops/backend/internal/infrastructure/config"
	"github.com/sellerops/backend/internal/infrastructure/spreadsheet"
	"github.com/sellerops/backend/internal/interfaces/http/dto"
)

// SalesImportHandler handles the spreadsheet import flow: preview an
// uploaded export, confirm it into a batch, roll a batch back, and
// list batches.
type SalesImportHandler struct {
	BaseHandler
	service *importapp.SalesImportService
	upload  config.UploadConfig
	logger  *zap.Logger
}

// NewSalesImportHandler creates a new SalesImportHandler
func NewSalesImportHandler(service *importapp.SalesImportService, upload config.UploadConfig, logger *zap.Logger) *SalesImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesImportHandler{service: service, upload: upload, logger: logger}
}

// stageUpload saves the "file" part of the multipart body into the
// upload directory under a random name and returns its path together
// with the original file name. The caller's application service owns
// deleting the staged file.
func (h *SalesImportHandler) stageUpload(c *gin.Context) (path, originalName string, ok bool) {
	file, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return "", "", false
	}
	if h.upload.MaxFileSize > 0 && file.Size > h.upload.MaxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds the maximum upload size")
		return "", "", false
	}

	if err := os.MkdirAll(h.upload.Dir, 0o755); err != nil {
		h.logger.Error("failed to create upload directory", zap.String("dir", h.upload.Dir), zap.Error(err))
		h.InternalError(c, "Failed to store uploaded file")
		return "", "", false
	}
	path = filepath.Join(h.upload.Dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.logger.Error("failed to save uploaded file", zap.String("path", path), zap.Error(err))
		h.InternalError(c, "Failed to store uploaded file")
		return "", "", false
	}
	return path, file.Filename, true
}

// handleParseError maps file-level parse failures onto the error
// taxonomy; anything else falls through to the generic handler.
func (h *SalesImportHandler) handleParseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, spreadsheet.ErrUnrecognizedFormat):
		h.ErrorWithCode(c, dto.ErrCodeUnrecognizedFormat, err.Error())
	case errors.Is(err, spreadsheet.ErrEmptyFile), errors.Is(err, spreadsheet.ErrMissingHeader):
		h.BadRequest(c, err.Error())
	case errors.Is(err, spreadsheet.ErrTooManyRows):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, err.Error())
	default:
		h.HandleError(c, err)
	}
}

// Preview parses an uploaded platform export without persisting
// anything and reports how each row would land.
//
// POST /api/v1/imports/preview (multipart: file, store_id)
func (h *SalesImportHandler) Preview(c *gin.Context) {
	var req dto.ImportPreviewRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "store_id is required and must be a UUID")
		return
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "store_id must be a UUID")
		return
	}

	path, _, ok := h.stageUpload(c)
	if !ok {
		return
	}

	result, err := h.service.Preview(c.Request.Context(), path, storeID)
	if err != nil {
		h.handleParseError(c, err)
		return
	}
	h.Success(c, dto.NewImportPreviewResponse(result))
}

// Confirm re-parses an uploaded export and persists it as an import
// batch in one transaction. Collisions with live records follow the
// requested policy. Defaults to reject.
//
// POST /api/v1/imports/confirm (multipart: file, store_id, collision_policy)
func (h *SalesImportHandler) Confirm(c *gin.Context) {
	var req dto.ImportConfirmRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "store_id is required; collision_policy must be reject or skip")
		return
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "store_id must be a UUID")
		return
	}
	policy := sales.CollisionPolicy(req.CollisionPolicy)
	if policy == "" {
		policy = sales.CollisionReject
	}

	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	path, originalName, ok := h.stageUpload(c)
	if !ok {
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), importapp.ConfirmCommand{
		FilePath:       path,
		SourceFileName: originalName,
		StoreID:        storeID,
		Policy:         policy,
		Principal:      principal,
	})
	if err != nil {
		if errors.Is(err, sales.ErrDuplicateOrder) {
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeDuplicateOrder, err.Error(), getRequestID(c))
			if result != nil && result.Outcome != nil {
				resp.Data = gin.H{"collisions": result.Outcome.Collisions}
			}
			c.JSON(http.StatusConflict, resp)
			return
		}
		h.handleParseError(c, err)
		return
	}
	h.Created(c, dto.NewImportConfirmResponse(result))
}

// Rollback deletes everything a batch imported and marks it rolled
// back. The batch row stays behind as an audit trail.
//
// POST /api/v1/batches/:id/rollback
func (h *SalesImportHandler) Rollback(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "id must be a UUID")
		return
	}
	batchID := uuid.MustParse(req.ID)

	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.service.Rollback(c.Request.Context(), batchID, principal)
	if err != nil {
		if errors.Is(err, shared.ErrForbidden) {
			h.Forbidden(c, "You are not allowed to roll back this batch")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewBatchRollbackResponse(result))
}

// ListBatches returns the import batches visible to the caller,
// newest first.
//
// GET /api/v1/batches
func (h *SalesImportHandler) ListBatches(c *gin.Context) {
	req := dto.BatchListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	principal, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := sales.BatchFilter{
		Platform:    req.Platform,
		CountryCode: req.CountryCode,
		SortBy:      req.OrderBy,
		SortOrder:   req.OrderDir,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	batches, total, err := h.service.ListBatches(c.Request.Context(), filter, principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		views = append(views, dto.NewBatchResponse(&batches[i]))
	}
	h.SuccessWithMeta(c, views, total, req.Page, req.PageSize)
}
