package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP statuses; everything else is treated as an internal failure.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrItemNotInOrder    = errors.New("order item does not belong to this order")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidOrderItem  = errors.New("invalid order item")
	ErrMissingDataField  = errors.New("invalid import format: missing 'data' field")
	ErrBackupUnsupported = errors.New("database backup requires the sqlite driver")
)
