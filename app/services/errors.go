// Package services holds the business rules between controllers and
// repositories: checkout and stock accounting, the order and payment
// status machines, cart merging, review aggregates.
package services

import "errors"

// Sentinel errors mapped to HTTP responses by the controllers.
var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")

	ErrDuplicateSKU = errors.New("sku already exists")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductInactive = errors.New("product not available")
	ErrBadQuantity     = errors.New("quantity must be at least 1")

	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")

	ErrPaymentInFlight = errors.New("order already has a payment in flight")
	ErrNotRefundable   = errors.New("payment is not refundable")

	ErrRatingRange     = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview = errors.New("product already reviewed")

	ErrAlreadyWishlisted = errors.New("product already on wishlist")
)
