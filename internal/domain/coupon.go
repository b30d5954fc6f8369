package domain

// Coupon is a fixed-catalog percentage discount. Codes are unique keys,
// matched case-insensitively; Discount is a percentage in [0,100] by
// construction of the catalog.
type Coupon struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
}

// PriceBreakdown is derived from an offer, the roster counts and the applied
// coupon. It is never stored, always recomputable.
type PriceBreakdown struct {
	BasePrice      float64 `json:"base_price"`
	Adults         int     `json:"adults"`
	Children       int     `json:"children"`
	Infants        int     `json:"infants"`
	Subtotal       float64 `json:"subtotal"`
	Coupon         *Coupon `json:"coupon,omitempty"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}
