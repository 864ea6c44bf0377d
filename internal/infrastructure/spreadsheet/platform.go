package spreadsheet

import (
	"github.com/sellerops/backend/internal/domain/sales"
)

// platformSignature is the set of headers that identifies one
// platform's export format. Signatures are tried in order; the first
// whose headers are all present wins.
type platformSignature struct {
	platform sales.Platform
	headers  []string
}

var platformSignatures = []platformSignature{
	{sales.PlatformShopee, []string{"No. Pesanan", "Status Pesanan"}},
	{sales.PlatformTikTokShop, []string{"Order ID", "Order Status"}},
}

// DetectPlatform identifies which platform produced the workbook by
// its header row. Detection is all-or-nothing: an unrecognized header
// set fails the whole file.
func DetectPlatform(wb *Workbook) (sales.Platform, error) {
	for _, sig := range platformSignatures {
		if wb.HasHeaders(sig.headers...) {
			return sig.platform, nil
		}
	}
	return "", ErrUnrecognizedFormat
}
