package sales

// Platform identifies the e-commerce marketplace a record came from.
type Platform string

const (
	PlatformShopee     Platform = "SHOPEE"
	PlatformTikTokShop Platform = "TIKTOK_SHOP"
)

// IsValid checks if the platform is a known value
func (p Platform) IsValid() bool {
	switch p {
	case PlatformShopee, PlatformTikTokShop:
		return true
	}
	return false
}

// String returns the string representation of the platform
func (p Platform) String() string {
	return string(p)
}

// OrderStatus is the canonical order status, normalized from each
// platform's raw status strings. Raw statuses that cannot be mapped end
// up in StatusUnknown rather than being coerced to an existing status.
type OrderStatus string

const (
	StatusPending     OrderStatus = "PENDING"
	StatusReadyToShip OrderStatus = "READY_TO_SHIP"
	StatusShipped     OrderStatus = "SHIPPED"
	StatusDelivered   OrderStatus = "DELIVERED"
	StatusCompleted   OrderStatus = "COMPLETED"
	StatusCancelled   OrderStatus = "CANCELLED"
	StatusReturned    OrderStatus = "RETURNED"
	StatusUnknown     OrderStatus = "UNKNOWN"
)

// IsValid checks if the status is a canonical value
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusReadyToShip, StatusShipped, StatusDelivered,
		StatusCompleted, StatusCancelled, StatusReturned, StatusUnknown:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}
