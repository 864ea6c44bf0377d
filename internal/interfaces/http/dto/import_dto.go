package dto

import (
	"time"

	importapp "github.com/sellerops/backend/internal/application/import"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/infrastructure/spreadsheet"
)

// ImportPreviewRequest carries the form fields of a preview upload. The
// spreadsheet itself arrives as the "file" part of the multipart body.
type ImportPreviewRequest struct {
	StoreID string `form:"store_id" binding:"required,uuid"`
}

// ImportConfirmRequest carries the form fields of a confirm upload
type ImportConfirmRequest struct {
	StoreID         string `form:"store_id" binding:"required,uuid"`
	CollisionPolicy string `form:"collision_policy" binding:"omitempty,oneof=reject skip"`
}

// PreviewRowResponse is one parsed spreadsheet row with its match outcome
type PreviewRowResponse struct {
	LineNumber      int    `json:"line_number"`
	PlatformOrderID string `json:"platform_order_id"`
	OrderDate       string `json:"order_date"`
	Status          string `json:"status"`
	CancelReason    string `json:"cancel_reason,omitempty"`
	ProductTitle    string `json:"product_title"`
	SKU             string `json:"sku,omitempty"`
	Quantity        int    `json:"quantity"`
	Revenue         string `json:"revenue"`
	Matched         bool   `json:"matched"`
	MatchType       string `json:"match_type,omitempty"`
	ListingID       string `json:"listing_id,omitempty"`
	ProductID       string `json:"product_id,omitempty"`
	IsUpdate        bool   `json:"is_update"`
}

// ImportPreviewResponse summarizes a dry-run parse of an uploaded file
type ImportPreviewResponse struct {
	Platform       string                 `json:"platform"`
	StoreID        string                 `json:"store_id"`
	TotalRows      int                    `json:"total_rows"`
	MatchedCount   int                    `json:"matched_count"`
	UnmatchedCount int                    `json:"unmatched_count"`
	UpdateCount    int                    `json:"update_count"`
	SkippedCount   int                    `json:"skipped_count"`
	Rows           []PreviewRowResponse   `json:"rows"`
	Errors         []spreadsheet.RowError `json:"errors,omitempty"`
}

// NewImportPreviewResponse maps an application preview result to the wire format
func NewImportPreviewResponse(result *importapp.PreviewResult) ImportPreviewResponse {
	rows := make([]PreviewRowResponse, 0, len(result.Rows))
	for _, row := range result.Rows {
		view := PreviewRowResponse{
			LineNumber:      row.LineNumber,
			PlatformOrderID: row.PlatformOrderID,
			OrderDate:       row.OrderDate.Format(time.RFC3339),
			Status:          string(row.OrderStatus),
			CancelReason:    row.CancelReason,
			ProductTitle:    row.ProductTitle,
			SKU:             row.SKU,
			Quantity:        row.Quantity,
			Revenue:         row.Revenue.String(),
			Matched:         row.Match.Matched(),
			MatchType:       string(row.Match.MatchType),
			IsUpdate:        row.IsUpdate,
		}
		if row.Match.ListingID != nil {
			view.ListingID = row.Match.ListingID.String()
		}
		if row.Match.ProductID != nil {
			view.ProductID = row.Match.ProductID.String()
		}
		rows = append(rows, view)
	}
	return ImportPreviewResponse{
		Platform:       string(result.Platform),
		StoreID:        result.StoreID.String(),
		TotalRows:      result.TotalRows,
		MatchedCount:   result.MatchedCount,
		UnmatchedCount: result.UnmatchedCount,
		UpdateCount:    result.UpdateCount,
		SkippedCount:   result.SkippedCount,
		Rows:           rows,
		Errors:         result.Errors,
	}
}

// ImportConfirmResponse reports what a confirmed batch persisted
type ImportConfirmResponse struct {
	BatchID        string   `json:"batch_id"`
	Status         string   `json:"status"`
	Platform       string   `json:"platform"`
	SourceFileName string   `json:"source_file_name"`
	InsertedCount  int      `json:"inserted_count"`
	Collisions     []string `json:"collisions,omitempty"`
}

// NewImportConfirmResponse maps a confirm result to the wire format
func NewImportConfirmResponse(result *importapp.ConfirmResult) ImportConfirmResponse {
	resp := ImportConfirmResponse{
		BatchID:        result.Batch.ID.String(),
		Status:         string(result.Batch.Status),
		Platform:       string(result.Batch.Platform),
		SourceFileName: result.Batch.SourceFileName,
	}
	if result.Outcome != nil {
		resp.InsertedCount = result.Outcome.InsertedCount
		resp.Collisions = result.Outcome.Collisions
	}
	return resp
}

// BatchRollbackResponse reports the outcome of a batch rollback
type BatchRollbackResponse struct {
	BatchID      string `json:"batch_id"`
	DeletedCount int64  `json:"deleted_count"`
	Status       string `json:"status"`
}

// NewBatchRollbackResponse maps a rollback result to the wire format
func NewBatchRollbackResponse(result *importapp.RollbackResult) BatchRollbackResponse {
	return BatchRollbackResponse{
		BatchID:      result.BatchID.String(),
		DeletedCount: result.DeletedCount,
		Status:       string(result.Status),
	}
}

// BatchListRequest carries the filters for listing import batches
type BatchListRequest struct {
	ListRequest
	Platform    string `form:"platform" binding:"omitempty,oneof=SHOPEE TIKTOK_SHOP"`
	CountryCode string `form:"country_code"`
}

// BatchResponse is one import batch in list responses
type BatchResponse struct {
	ID             string `json:"id"`
	Platform       string `json:"platform"`
	Status         string `json:"status"`
	SourceFileName string `json:"source_file_name"`
	RowCount       int    `json:"row_count"`
	CreatedBy      string `json:"created_by"`
	TimestampResponse
}

// NewBatchResponse maps a domain batch to the wire format
func NewBatchResponse(batch *sales.ImportBatch) BatchResponse {
	return BatchResponse{
		ID:             batch.ID.String(),
		Platform:       string(batch.Platform),
		Status:         string(batch.Status),
		SourceFileName: batch.SourceFileName,
		RowCount:       batch.RowCount,
		CreatedBy:      batch.CreatedBy.String(),
		TimestampResponse: TimestampResponse{
			CreatedAt: batch.CreatedAt,
			UpdatedAt: batch.UpdatedAt,
		},
	}
}
