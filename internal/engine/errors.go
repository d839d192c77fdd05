package engine

import "errors"

// Validation and precondition failures. Each is detected before any mutation,
// so a caller seeing one of these can assume zero writes happened. Anything
// not in this list is a store failure and propagates unchanged.
var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrAccountNotFound   = errors.New("account not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPartnerNotFound   = errors.New("partner not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrIllegalTransition = errors.New("status cannot be changed to Pending after assigning to a partner")
	ErrScopeViolation    = errors.New("record does not belong to this MCP")
)
