package service

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP statuses with
// errors.Is; anything else is treated as a storage failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state for this transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrAccountRejected    = errors.New("account registration was rejected")
	ErrAccountLocked      = errors.New("account temporarily locked after repeated failures")
	ErrUpstream           = errors.New("upstream assistant service failed")
)
