package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// cacheTTL is how long a fetched rate table stays fresh.
	cacheTTL = 4 * time.Hour
	// maxResponseSize limits the provider response body size
	maxResponseSize = 1 * 1024 * 1024
)

// fallbackRates is the static CNY-based rate table used when both the
// live provider and the cache are unavailable. Reporting degrades to
// approximate numbers instead of failing.
var fallbackRates = map[string]float64{
	"USD": 0.14,
	"IDR": 2300,
	"VND": 3500,
	"THB": 5,
	"MYR": 0.65,
	"PHP": 8,
	"SGD": 0.19,
	"CNY": 1,
}

// countryCurrencyMap maps an operating country to its local currency.
var countryCurrencyMap = map[string]string{
	"ID": "IDR",
	"VN": "VND",
	"TH": "THB",
	"MY": "MYR",
	"PH": "PHP",
	"SG": "SGD",
}

// CurrencyForCountry returns the local currency of a country code,
// defaulting to CNY for unknown countries.
func CurrencyForCountry(countryCode string) string {
	if c, ok := countryCurrencyMap[countryCode]; ok {
		return c
	}
	return "CNY"
}

// Config holds the rate provider settings.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("exchange: base URL is required")
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 5
	}
	return nil
}

// apiResponse is the provider's JSON shape.
type apiResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// RateProvider fetches and caches CNY-based exchange rates. The cache
// is process-wide shared state: reads of a still-valid table never
// block on a refresh, and a failed refresh never clears a previously
// good table.
type RateProvider struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time

	// now is replaceable in tests
	now func() time.Time
}

// NewRateProvider creates a rate provider with the given configuration.
func NewRateProvider(config *Config, logger *zap.Logger) (*RateProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

// GetRates returns the current CNY-based rate table. Resolution order:
// fresh cache, live fetch, stale cache, static fallback. It never
// fails; the worst case is the static table.
func (p *RateProvider) GetRates(ctx context.Context, forceRefresh bool) map[string]float64 {
	p.mu.RLock()
	cached, fetchedAt := p.rates, p.fetchedAt
	p.mu.RUnlock()

	if cached != nil && !forceRefresh && p.now().Sub(fetchedAt) < cacheTTL {
		return cached
	}

	fetched, err := p.fetch(ctx)
	if err == nil {
		p.mu.Lock()
		p.rates = fetched
		p.fetchedAt = p.now()
		p.mu.Unlock()
		return fetched
	}
	p.logger.Warn("exchange rate fetch failed, falling back",
		zap.Error(err),
		zap.Bool("have_cache", cached != nil))

	if cached != nil {
		return cached
	}
	return fallbackRates
}

// Rate returns the CNY->currency rate, 1 for CNY or unlisted
// currencies.
func (p *RateProvider) Rate(ctx context.Context, currency string) float64 {
	if currency == "" || currency == "CNY" {
		return 1
	}
	if r, ok := p.GetRates(ctx, false)[currency]; ok && r > 0 {
		return r
	}
	if r, ok := fallbackRates[currency]; ok {
		return r
	}
	return 1
}

// ToCNY converts an amount in the given currency back to CNY.
func (p *RateProvider) ToCNY(ctx context.Context, amount float64, currency string) float64 {
	rate := p.Rate(ctx, currency)
	if rate == 0 {
		return amount
	}
	return amount / rate
}

func (p *RateProvider) fetch(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/CNY", p.config.BaseURL, p.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Result != "success" || len(parsed.ConversionRates) == 0 {
		return nil, fmt.Errorf("rate provider returned result %q", parsed.Result)
	}
	return parsed.ConversionRates, nil
}
