package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")

	// Payment pipeline errors
	ErrAlreadyProcessed   = errors.New("payment reference already processed")
	ErrPaymentNotVerified = errors.New("payment could not be verified with provider")
	ErrMissingOrderID     = errors.New("payment metadata is missing order_id")
	ErrLockContended      = errors.New("reference is locked by another processor")

	// Entitlement / download errors
	ErrPurchaseRequired    = errors.New("purchase required")
	ErrQuotaExhausted      = errors.New("download limit reached")
	ErrEntitlementExpired  = errors.New("entitlement has expired, renewal required")
	ErrTokenExpired        = errors.New("download token has expired")
	ErrSubscriptionNeeded  = errors.New("active subscription of sufficient tier required")
	ErrProductUnpublished  = errors.New("product is not published")
	ErrFileIndexOutOfRange = errors.New("file index out of range")

	// Caller identity errors
	ErrUnauthorized = errors.New("missing or invalid credentials")
	ErrForbidden    = errors.New("insufficient permissions")
)
