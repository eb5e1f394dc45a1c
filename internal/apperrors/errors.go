package apperrors

import (
	"errors"
)

var (
	ErrCompanyAlreadyExists = errors.New("company already exists")
	ErrCompanyNotFound      = errors.New("company not found")

	// Login failures are never more specific than this, no matter
	// whether the login identifier or the password was wrong
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Permission check failures: expired token, bad signature, missing
	// company or role mismatch all collapse into this one
	ErrUnauthorized = errors.New("unauthorized")

	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")

	ErrEmailTokenNotFound = errors.New("email token not found or expired")
	ErrEmailDelivery      = errors.New("email delivery failed")

	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrKitNotFound      = errors.New("kit not found")
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponInactive   = errors.New("coupon is not active")

	ErrOrderNotFound = errors.New("order not found")
	ErrOrderEmpty    = errors.New("order has no items")
)
