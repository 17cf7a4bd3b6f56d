package utils

import "errors"

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrUnknownPlan         = errors.New("unknown plan identifier")
	ErrNoBillingAccount    = errors.New("tenant has no billing account yet")
	ErrInvalidCustomerID   = errors.New("stored provider customer id is malformed")
	ErrRateLimited         = errors.New("rate limited")
	ErrProviderTransient   = errors.New("provider temporarily unavailable")
	ErrProviderRejected    = errors.New("provider rejected the request")
	ErrSignatureInvalid    = errors.New("webhook signature verification failed")
	ErrStaleEvent          = errors.New("event superseded by newer state")
	ErrConcurrentUpdate    = errors.New("billing record changed concurrently")
	ErrValidation          = errors.New("invalid request")
	ErrDatabaseError       = errors.New("database error")
	ErrTenantAlreadyExists = errors.New("owner already has a tenant")
)
