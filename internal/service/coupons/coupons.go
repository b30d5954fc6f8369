package coupons

import (
	"strings"

	"github.com/ostrenko/skyfare/internal/domain"
)

// DefaultCatalog is the fixed set of promotional codes. Coupons are not user
// created; the catalog is the single source of truth for discounts.
func DefaultCatalog() []domain.Coupon {
	return []domain.Coupon{
		{Code: "FIRST10", Discount: 10, Description: "10% off your first booking"},
		{Code: "SUMMER25", Discount: 25, Description: "25% off summer flights"},
		{Code: "WELCOME15", Discount: 15, Description: "15% welcome discount"},
		{Code: "FLASH50", Discount: 50, Description: "50% flash sale discount"},
	}
}

// Resolve matches a user-entered code against the catalog, case-insensitively.
// Returns nil when the code is unknown; the caller surfaces "invalid code".
func Resolve(code string, catalog []domain.Coupon) *domain.Coupon {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil
	}
	for i := range catalog {
		if strings.EqualFold(catalog[i].Code, trimmed) {
			return &catalog[i]
		}
	}
	return nil
}
