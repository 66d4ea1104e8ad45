package domain

import "errors"

// Sentinel errors shared across services and handlers. Handlers map
// ErrNotFound to 404 and ErrInvalidParameter to 400. ErrInsufficientData
// never reaches a caller: the affected category or pattern is skipped.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
)
