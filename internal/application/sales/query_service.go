package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/identity"
	"github.com/sellerops/backend/internal/domain/sales"
)

// RateSource converts foreign-currency amounts into CNY. Implemented
// by the exchange rate provider; conversion never fails, a missing
// rate falls back to a static table.
type RateSource interface {
	ToCNY(ctx context.Context, amount float64, currency string) float64
}

// QueryService answers read-only questions about sales records:
// scoped listing with per-row manage flags, platform stats in CNY,
// and the stores the caller may import into.
type QueryService struct {
	recordRepo sales.SalesRecordRepository
	storeRepo  catalog.StoreRepository
	rates      RateSource
	logger     *zap.Logger
}

// NewQueryService creates a new sales QueryService
func NewQueryService(
	recordRepo sales.SalesRecordRepository,
	storeRepo catalog.StoreRepository,
	rates RateSource,
	logger *zap.Logger,
) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		recordRepo: recordRepo,
		storeRepo:  storeRepo,
		rates:      rates,
		logger:     logger,
	}
}

// List returns the records visible to the principal. Every row
// carries a CanManage flag so the client can hide edit controls the
// caller is not allowed to use. A filter pointing outside the
// caller's scope simply yields fewer rows, never an error.
func (s *QueryService) List(ctx context.Context, filter sales.RecordFilter, principal identity.Principal) (*RecordPage, error) {
	scope := sales.ScopeFromPrincipal(principal)
	records, total, err := s.recordRepo.List(ctx, filter, scope)
	if err != nil {
		return nil, err
	}

	countries, err := s.storeCountries(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]RecordView, len(records))
	for i, record := range records {
		rows[i] = RecordView{
			SalesRecord: record,
			CanManage:   principal.CanManage(countries[record.StoreID], record.EnteredBy),
		}
	}
	return &RecordPage{Rows: rows, Total: total}, nil
}

// storeCountries maps store IDs to country codes for the manage check
func (s *QueryService) storeCountries(ctx context.Context) (map[uuid.UUID]string, error) {
	stores, err := s.storeRepo.FindAllByCountries(ctx, nil)
	if err != nil {
		return nil, err
	}
	countries := make(map[uuid.UUID]string, len(stores))
	for _, store := range stores {
		countries[store.ID] = store.CountryCode
	}
	return countries, nil
}

// Stats sums the visible records into per-platform totals and a
// grand total, converted to CNY with the cached exchange rates.
func (s *QueryService) Stats(ctx context.Context, filter sales.RecordFilter, principal identity.Principal) (*StatsSummary, error) {
	scope := sales.ScopeFromPrincipal(principal)
	buckets, err := s.recordRepo.AggregateByPlatform(ctx, filter, scope)
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{}
	byPlatform := make(map[sales.Platform]*PlatformStats)
	for _, bucket := range buckets {
		revenue, _ := bucket.Revenue.Float64()
		revenueCNY := s.rates.ToCNY(ctx, revenue, bucket.Currency)

		stats, ok := byPlatform[bucket.Platform]
		if !ok {
			stats = &PlatformStats{Platform: bucket.Platform}
			byPlatform[bucket.Platform] = stats
			summary.Platforms = append(summary.Platforms, stats)
		}
		stats.Orders += bucket.Orders
		stats.Units += bucket.Units
		stats.RevenueCNY = stats.RevenueCNY.Add(decimal.NewFromFloat(revenueCNY))

		summary.TotalOrders += bucket.Orders
		summary.TotalUnits += bucket.Units
		summary.TotalRevenueCNY = summary.TotalRevenueCNY.Add(decimal.NewFromFloat(revenueCNY))
	}
	return summary, nil
}

// ListStores returns the stores the principal may work with: all of
// them for admins, otherwise only stores in operated countries.
func (s *QueryService) ListStores(ctx context.Context, principal identity.Principal) ([]catalog.Store, error) {
	if principal.IsAdmin() {
		return s.storeRepo.FindAllByCountries(ctx, nil)
	}
	if len(principal.OperatedCountries) == 0 {
		return []catalog.Store{}, nil
	}
	return s.storeRepo.FindAllByCountries(ctx, principal.OperatedCountries)
}
