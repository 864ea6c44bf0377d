package logistics

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationStrategy selects the numeric attribute a container cost is
// distributed by.
type AllocationStrategy string

const (
	AllocateByCBM      AllocationStrategy = "cbm"
	AllocateByWeight   AllocationStrategy = "weight"
	AllocateByQuantity AllocationStrategy = "quantity"
)

// AllocationItem is one shipment line participating in a cost split
type AllocationItem struct {
	ID       string
	TotalCBM decimal.Decimal
	TotalKg  decimal.Decimal
	Quantity decimal.Decimal
}

// CostShare is the portion of a total cost assigned to one item
type CostShare struct {
	ID    string
	Share decimal.Decimal
}

// denominator returns the item's attribute for the strategy, clamped to
// zero when negative so a bad cell cannot flip the split
func (i AllocationItem) denominator(strategy AllocationStrategy) decimal.Decimal {
	var v decimal.Decimal
	switch strategy {
	case AllocateByWeight:
		v = i.TotalKg
	case AllocateByQuantity:
		v = i.Quantity
	default:
		v = i.TotalCBM
	}
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// AllocateCostShare distributes totalCost across items proportionally
// to the strategy's attribute. When every denominator is zero the split
// degrades to equal shares. The last share absorbs the rounding
// remainder so the shares always sum to totalCost exactly.
func AllocateCostShare(items []AllocationItem, totalCost decimal.Decimal, strategy AllocationStrategy) []CostShare {
	if len(items) == 0 {
		return []CostShare{}
	}

	base := decimal.Zero
	denominators := make([]decimal.Decimal, len(items))
	for i, item := range items {
		denominators[i] = item.denominator(strategy)
		base = base.Add(denominators[i])
	}

	shares := make([]CostShare, len(items))
	if base.IsZero() || base.IsNegative() {
		// Equal split
		count := decimal.NewFromInt(int64(len(items)))
		each := totalCost.Div(count).Round(6)
		allocated := decimal.Zero
		for i, item := range items {
			share := each
			if i == len(items)-1 {
				share = totalCost.Sub(allocated)
			}
			shares[i] = CostShare{ID: item.ID, Share: share}
			allocated = allocated.Add(share)
		}
		return shares
	}

	allocated := decimal.Zero
	for i, item := range items {
		var share decimal.Decimal
		if i == len(items)-1 {
			share = totalCost.Sub(allocated)
		} else {
			share = totalCost.Mul(denominators[i]).Div(base).Round(6)
		}
		shares[i] = CostShare{ID: item.ID, Share: share}
		allocated = allocated.Add(share)
	}
	return shares
}

// ComputeLandedCost returns the per-unit landed cost: purchase unit
// price plus per-unit freight and duty shares. With a non-positive
// quantity the unit price is returned unchanged to guard the division.
func ComputeLandedCost(unitPrice, freightShare, dutyShare decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return unitPrice
	}
	qty := decimal.NewFromInt(int64(quantity))
	perUnitFreight := freightShare.Div(qty)
	perUnitDuty := dutyShare.Div(qty)
	return unitPrice.Add(perUnitFreight).Add(perUnitDuty)
}

// ShipmentDelay reports whether a shipment is past its ETA and by how
// many whole days
type ShipmentDelay struct {
	IsDelayed bool `json:"isDelayed"`
	DelayDays int  `json:"delayDays"`
}

// ComputeShipmentDelay computes the delay of a shipment. A shipment
// with no ETA, or one that already arrived, is never delayed. Delay is
// whole days past the ETA, floored at zero.
func ComputeShipmentDelay(eta, ata *time.Time, today time.Time) ShipmentDelay {
	if eta == nil || ata != nil {
		return ShipmentDelay{}
	}
	diff := today.Sub(*eta)
	if diff <= 0 {
		return ShipmentDelay{}
	}
	days := int(diff.Hours() / 24)
	return ShipmentDelay{IsDelayed: days > 0, DelayDays: days}
}
