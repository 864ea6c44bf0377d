package spreadsheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerops/backend/internal/domain/sales"
)

// CanonicalRow is one normalized order row, shaped the same no matter
// which platform exported it.
type CanonicalRow struct {
	LineNumber      int
	PlatformOrderID string
	OrderStatus     sales.OrderStatus
	RawStatus       string
	CancelReason    string
	ProductTitle    string
	SKU             string
	Quantity        int
	UnitPrice       decimal.Decimal
	Revenue         decimal.Decimal
	OrderDate       time.Time
}

// columnMap names a platform's export columns for each canonical
// field. FallbackSKU covers exports that fill the parent SKU column
// instead of the reference SKU.
type columnMap struct {
	OrderID      string
	Status       string
	CancelReason string
	Title        string
	SKU          string
	FallbackSKU  string
	Quantity     string
	UnitPrice    string
	Revenue      string
	OrderDate    string
}

type platformMapping struct {
	columns columnMap
	// statuses translates the platform's raw status strings into the
	// canonical enum. Unmapped raw statuses become StatusUnknown.
	statuses map[string]sales.OrderStatus
	// cancelReasons translates the platform's cancellation wording
	// into the operators' working language. Unmapped reasons pass
	// through verbatim.
	cancelReasons map[string]string
	// sentinelOrderIDs are literal values the platform writes into the
	// order-ID column of comment/legend rows. Such rows are dropped
	// silently, not counted as parse failures.
	sentinelOrderIDs []string
}

var shopeeMapping = platformMapping{
	columns: columnMap{
		OrderID:      "No. Pesanan",
		Status:       "Status Pesanan",
		CancelReason: "Alasan Pembatalan",
		Title:        "Nama Produk",
		SKU:          "Nomor Referensi SKU",
		FallbackSKU:  "SKU Induk",
		Quantity:     "Jumlah",
		UnitPrice:    "Harga Setelah Diskon",
		Revenue:      "Total Harga Produk",
		OrderDate:    "Waktu Pesanan Dibuat",
	},
	statuses: map[string]sales.OrderStatus{
		"Belum Bayar":    sales.StatusPending,
		"Perlu Dikirim":  sales.StatusReadyToShip,
		"Sedang Dikirim": sales.StatusShipped,
		"Telah Dikirim":  sales.StatusShipped,
		"Selesai":        sales.StatusCompleted,
		"Batal":          sales.StatusCancelled,
		"Dibatalkan":     sales.StatusCancelled,
		"Pengembalian":   sales.StatusReturned,
	},
	cancelReasons: map[string]string{
		"Perlu mengubah alamat pengiriman":       "需要修改收货地址",
		"Perlu mengubah pesanan yang ada":        "需要修改现有订单",
		"Perlu memasukkan/mengubah kode voucher": "需要输入/修改优惠码",
		"Tidak jadi beli":                        "不想买了",
		"Lainnya/berubah pikiran":                "其他/改变主意",
		"Pembayaran tidak dilakukan":             "未完成付款",
		"Penjual tidak mengirimkan pesanan":      "卖家未发货",
	},
}

var tiktokMapping = platformMapping{
	columns: columnMap{
		OrderID:      "Order ID",
		Status:       "Order Status",
		CancelReason: "Cancel Reason",
		Title:        "Product Name",
		SKU:          "Seller SKU",
		Quantity:     "Quantity",
		UnitPrice:    "SKU Unit Original Price",
		Revenue:      "SKU Subtotal After Discount",
		OrderDate:    "Order Created Time",
	},
	statuses: map[string]sales.OrderStatus{
		"Unpaid":              sales.StatusPending,
		"Awaiting Shipment":   sales.StatusReadyToShip,
		"Awaiting Collection": sales.StatusReadyToShip,
		"Shipped":             sales.StatusShipped,
		"In Transit":          sales.StatusShipped,
		"Delivered":           sales.StatusDelivered,
		"Completed":           sales.StatusCompleted,
		"Canceled":            sales.StatusCancelled,
		"Cancelled":           sales.StatusCancelled,
		"Returned":            sales.StatusReturned,
	},
	cancelReasons: map[string]string{
		"Buyer changed mind":              "买家改变主意",
		"Buyer ordered by mistake":        "买家下错单",
		"Price is too high":               "价格太高",
		"Found cheaper elsewhere":         "别处更便宜",
		"Need to change delivery address": "需要修改收货地址",
		"Need to modify order":            "需要修改订单",
		"Seller did not ship on time":     "卖家未按时发货",
		"Out of stock":                    "缺货",
	},
	// TikTok exports carry an explanation row directly under the
	// header with this literal text in the order-ID column.
	sentinelOrderIDs: []string{"Platform unique order ID."},
}

var platformMappings = map[sales.Platform]platformMapping{
	sales.PlatformShopee:     shopeeMapping,
	sales.PlatformTikTokShop: tiktokMapping,
}

// MapResult is the outcome of mapping a workbook's rows: the rows
// that parsed, plus a tally of the ones that did not. Row errors are
// reported for audit but never halt the batch.
type MapResult struct {
	Rows         []CanonicalRow
	SkippedCount int
	Errors       []RowError
}

// MapRows converts the workbook's raw rows into canonical order rows
// using the given platform's column and status tables.
func MapRows(wb *Workbook, platform sales.Platform) (*MapResult, error) {
	mapping, ok := platformMappings[platform]
	if !ok {
		return nil, ErrUnrecognizedFormat
	}

	result := &MapResult{Rows: make([]CanonicalRow, 0, len(wb.Rows))}
	for _, row := range wb.Rows {
		canonical, rowErr, drop := mapping.mapRow(row)
		if drop {
			continue
		}
		if rowErr != nil {
			result.SkippedCount++
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Rows = append(result.Rows, canonical)
	}
	return result, nil
}

// mapRow converts a single raw row. drop means the row is a
// structural/comment row and should vanish without being tallied.
func (m platformMapping) mapRow(row Row) (CanonicalRow, *RowError, bool) {
	orderID := row.Get(m.columns.OrderID)
	for _, sentinel := range m.sentinelOrderIDs {
		if orderID == sentinel {
			return CanonicalRow{}, nil, true
		}
	}
	if orderID == "" {
		return CanonicalRow{}, &RowError{
			Row:     row.LineNumber,
			Column:  m.columns.OrderID,
			Code:    ErrCodeMissingOrderID,
			Message: "row has no order ID",
		}, false
	}

	rawDate := row.Get(m.columns.OrderDate)
	orderDate, ok := ParseDate(rawDate)
	if !ok {
		return CanonicalRow{}, &RowError{
			Row:     row.LineNumber,
			Column:  m.columns.OrderDate,
			Code:    ErrCodeInvalidDate,
			Message: "order date is not parseable",
			Value:   rawDate,
		}, false
	}

	rawStatus := row.Get(m.columns.Status)
	status, ok := m.statuses[rawStatus]
	if !ok {
		status = sales.StatusUnknown
	}

	sku := row.Get(m.columns.SKU)
	if sku == "" && m.columns.FallbackSKU != "" {
		sku = row.Get(m.columns.FallbackSKU)
	}

	cancelReason := row.Get(m.columns.CancelReason)
	if translated, ok := m.cancelReasons[cancelReason]; ok {
		cancelReason = translated
	}

	revenue := ParseAmount(row.Get(m.columns.Revenue))
	if revenue < 0 {
		revenue = 0
	}

	return CanonicalRow{
		LineNumber:      row.LineNumber,
		PlatformOrderID: orderID,
		OrderStatus:     status,
		RawStatus:       rawStatus,
		CancelReason:    cancelReason,
		ProductTitle:    strings.TrimSpace(row.Get(m.columns.Title)),
		SKU:             sku,
		Quantity:        ParseQuantity(row.Get(m.columns.Quantity)),
		UnitPrice:       decimal.NewFromFloat(ParseAmount(row.Get(m.columns.UnitPrice))),
		Revenue:         decimal.NewFromFloat(revenue),
		OrderDate:       orderDate,
	}, nil, false
}

// Parse reads a workbook from disk, detects its platform and maps its
// rows. This is the single entry point import services call.
func Parse(path string) (sales.Platform, *MapResult, error) {
	wb, err := ReadWorkbook(path)
	if err != nil {
		return "", nil, err
	}
	platform, err := DetectPlatform(wb)
	if err != nil {
		return "", nil, err
	}
	result, err := MapRows(wb, platform)
	if err != nil {
		return "", nil, err
	}
	return platform, result, nil
}
