package pricing

import "github.com/ostrenko/skyfare/internal/domain"

// Fare weights per passenger category, relative to the per-adult base price.
const (
	AdultWeight  = 1.0
	ChildWeight  = 0.75
	InfantWeight = 0.10
)

// ComputeTotal returns the charge for a party against a per-adult base price.
// Pure and deterministic; no rounding happens here so repeated recomputation
// is stable. Rounding to two decimals is a presentation concern.
func ComputeTotal(basePrice float64, adults, children, infants int, coupon *domain.Coupon) float64 {
	subtotal := Subtotal(basePrice, adults, children, infants)
	if coupon == nil {
		return subtotal
	}
	total := subtotal * (1 - coupon.Discount/100)
	if total < 0 {
		return 0
	}
	return total
}

// Subtotal is the undiscounted fare for the party.
func Subtotal(basePrice float64, adults, children, infants int) float64 {
	return basePrice*AdultWeight*float64(adults) +
		basePrice*ChildWeight*float64(children) +
		basePrice*InfantWeight*float64(infants)
}

// Quote expands ComputeTotal into the per-line breakdown rendered to the
// user. Always derived, never stored.
func Quote(basePrice float64, adults, children, infants int, coupon *domain.Coupon) domain.PriceBreakdown {
	subtotal := Subtotal(basePrice, adults, children, infants)
	total := ComputeTotal(basePrice, adults, children, infants, coupon)
	return domain.PriceBreakdown{
		BasePrice:      basePrice,
		Adults:         adults,
		Children:       children,
		Infants:        infants,
		Subtotal:       subtotal,
		Coupon:         coupon,
		DiscountAmount: subtotal - total,
		Total:          total,
	}
}
