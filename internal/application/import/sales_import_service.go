package importapp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/domain/sales"
	"github.com/sellerops/backend/internal/domain/shared"
	"github.com/sellerops/backend/internal/infrastructure/exchange"
	"github.com/sellerops/backend/internal/infrastructure/spreadsheet"
)

// ErrPlatformMismatch is returned when the uploaded file belongs to a
// different platform than the selected store.
var ErrPlatformMismatch = shared.NewDomainError("PLATFORM_MISMATCH", "File platform does not match the selected store")

// ListingMatcher resolves a spreadsheet row to a store listing
type ListingMatcher interface {
	Match(ctx context.Context, platform sales.Platform, title, sku string) (catalog.MatchResult, error)
}

// SalesImportService drives the preview/confirm/rollback flow for
// platform spreadsheet imports. Preview never writes; confirm persists
// everything in one transaction via the batch repository.
type SalesImportService struct {
	batchRepo  sales.ImportBatchRepository
	recordRepo sales.SalesRecordRepository
	storeRepo  catalog.StoreRepository
	matcher    ListingMatcher
	logger     *zap.Logger
}

// NewSalesImportService creates a new SalesImportService
func NewSalesImportService(
	batchRepo sales.ImportBatchRepository,
	recordRepo sales.SalesRecordRepository,
	storeRepo catalog.StoreRepository,
	matcher ListingMatcher,
	logger *zap.Logger,
) *SalesImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesImportService{
		batchRepo:  batchRepo,
		recordRepo: recordRepo,
		storeRepo:  storeRepo,
		matcher:    matcher,
		logger:     logger,
	}
}

// Preview parses the uploaded file, matches every row against the
// catalog and flags rows whose order ID already exists for the store.
// Nothing is persisted and the temp file is removed before returning.
func (s *SalesImportService) Preview(ctx context.Context, filePath string, storeID uuid.UUID) (*PreviewResult, error) {
	defer func() {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove uploaded file", zap.String("path", filePath), zap.Error(err))
		}
	}()

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	platform, mapped, err := spreadsheet.Parse(filePath)
	if err != nil {
		return nil, err
	}
	if platform != store.Platform {
		return nil, fmt.Errorf("%w: file is %s, store is %s", ErrPlatformMismatch, platform, store.Platform)
	}

	existing, err := s.existingOrderIDs(ctx, storeID, mapped.Rows)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{
		Platform:     platform,
		StoreID:      storeID,
		Rows:         make([]PreviewRow, 0, len(mapped.Rows)),
		TotalRows:    len(mapped.Rows),
		SkippedCount: mapped.SkippedCount,
		Errors:       mapped.Errors,
	}
	for _, row := range mapped.Rows {
		match, err := s.matcher.Match(ctx, platform, row.ProductTitle, row.SKU)
		if err != nil {
			return nil, fmt.Errorf("failed to match row %d: %w", row.LineNumber, err)
		}
		if match.Matched() {
			result.MatchedCount++
		} else {
			result.UnmatchedCount++
		}
		_, isUpdate := existing[row.PlatformOrderID]
		if isUpdate {
			result.UpdateCount++
		}
		result.Rows = append(result.Rows, PreviewRow{
			CanonicalRow: row,
			Match:        match,
			IsUpdate:     isUpdate,
		})
	}

	s.logger.Info("import preview built",
		zap.String("platform", string(platform)),
		zap.String("store_id", storeID.String()),
		zap.Int("rows", result.TotalRows),
		zap.Int("matched", result.MatchedCount),
		zap.Int("skipped", result.SkippedCount))
	return result, nil
}

// existingOrderIDs returns the set of order IDs in the rows that the
// store already has live records for
func (s *SalesImportService) existingOrderIDs(ctx context.Context, storeID uuid.UUID, rows []spreadsheet.CanonicalRow) (map[string]struct{}, error) {
	orderIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.PlatformOrderID)
	}
	records, err := s.recordRepo.FindByStoreAndOrderIDs(ctx, storeID, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing orders: %w", err)
	}
	existing := make(map[string]struct{}, len(records))
	for _, record := range records {
		existing[record.PlatformOrderID] = struct{}{}
	}
	return existing, nil
}

// Confirm re-parses the file and persists the batch with all its
// records in a single transaction. The currency of every record is
// inferred from the store's country. Collisions against live records
// are handled per the command's policy.
func (s *SalesImportService) Confirm(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	defer func() {
		if err := os.Remove(cmd.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove uploaded file", zap.String("path", cmd.FilePath), zap.Error(err))
		}
	}()

	store, err := s.storeRepo.FindByID(ctx, cmd.StoreID)
	if err != nil {
		return nil, err
	}

	platform, mapped, err := spreadsheet.Parse(cmd.FilePath)
	if err != nil {
		return nil, err
	}
	if platform != store.Platform {
		return nil, fmt.Errorf("%w: file is %s, store is %s", ErrPlatformMismatch, platform, store.Platform)
	}

	batch, err := sales.NewImportBatch(platform, cmd.SourceFileName, cmd.Principal.UserID)
	if err != nil {
		return nil, err
	}

	currency := exchange.CurrencyForCountry(store.CountryCode)
	records := make([]*sales.SalesRecord, 0, len(mapped.Rows))
	for _, row := range mapped.Rows {
		record, err := s.buildRecord(ctx, batch, store, row, currency)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.LineNumber, err)
		}
		records = append(records, record)
	}

	outcome, err := s.batchRepo.ConfirmBatch(ctx, batch, records, cmd.Policy)
	if err != nil {
		if errors.Is(err, sales.ErrDuplicateOrder) {
			return &ConfirmResult{Outcome: outcome}, err
		}
		return nil, err
	}

	s.logger.Info("import batch confirmed",
		zap.String("batch_id", batch.ID.String()),
		zap.String("platform", string(platform)),
		zap.Int("inserted", outcome.InsertedCount),
		zap.Int("collisions", len(outcome.Collisions)))
	return &ConfirmResult{Batch: batch, Outcome: outcome}, nil
}

// buildRecord converts one canonical row into a domain record owned by
// the batch, matched against the catalog
func (s *SalesImportService) buildRecord(ctx context.Context, batch *sales.ImportBatch, store *catalog.Store, row spreadsheet.CanonicalRow, currency string) (*sales.SalesRecord, error) {
	record, err := sales.NewSalesRecord(
		batch.ID, store.ID, batch.CreatedBy,
		batch.Platform, row.PlatformOrderID,
		row.OrderDate, row.Revenue, row.Quantity,
	)
	if err != nil {
		return nil, err
	}
	if err := record.SetStatus(row.OrderStatus); err != nil {
		return nil, err
	}
	record.SetCancelReason(row.CancelReason)
	record.SetRawSource(row.ProductTitle, row.SKU)
	record.SetCurrency(currency)

	match, err := s.matcher.Match(ctx, batch.Platform, row.ProductTitle, row.SKU)
	if err != nil {
		return nil, err
	}
	if match.Matched() {
		productID := uuid.Nil
		if match.ProductID != nil {
			productID = *match.ProductID
		}
		record.AttachListing(*match.ListingID, productID)
	}
	return record, nil
}

// Rollback deletes every record the batch created and marks the batch
// rolled back. The batch row itself is kept as an audit trail. Rolling
// back an already rolled-back batch is a no-op.
func (s *SalesImportService) Rollback(ctx context.Context, batchID uuid.UUID, principal identity.Principal) (*RollbackResult, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if err := s.checkRollbackPermission(ctx, batch, principal); err != nil {
		return nil, err
	}

	deleted, err := s.batchRepo.RollbackBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("import batch rolled back",
		zap.String("batch_id", batch.ID.String()),
		zap.String("user_id", principal.UserID.String()),
		zap.Int64("deleted", deleted))
	return &RollbackResult{BatchID: batch.ID, DeletedCount: deleted, Status: batch.Status}, nil
}

// checkRollbackPermission allows admins, the batch creator, and
// managers supervising the batch's country
func (s *SalesImportService) checkRollbackPermission(ctx context.Context, batch *sales.ImportBatch, principal identity.Principal) error {
	if principal.IsAdmin() || batch.CreatedBy == principal.UserID {
		return nil
	}
	countryCode, err := s.batchRepo.CountryCodeOf(ctx, batch.ID)
	if err != nil {
		return err
	}
	if countryCode != "" && principal.Supervises(countryCode) {
		return nil
	}
	return shared.ErrForbidden
}

// ListBatches returns the batches visible to the principal, newest
// first, with the total count before pagination
func (s *SalesImportService) ListBatches(ctx context.Context, filter sales.BatchFilter, principal identity.Principal) ([]sales.ImportBatch, int64, error) {
	return s.batchRepo.List(ctx, filter, sales.ScopeFromPrincipal(principal))
}
