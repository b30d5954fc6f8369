package booking

import "errors"

// Submission failures. The first three are precondition violations recovered
// locally at the API boundary; none is fatal to the process.
var (
	ErrIncompleteDetails = errors.New("passenger details are incomplete")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCoupon     = errors.New("invalid coupon code")
	ErrOfferUnavailable  = errors.New("flight offer is unavailable")
	ErrPersistenceFailed = errors.New("failed to save booking")
)
