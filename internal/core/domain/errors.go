package domain

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrInvalidStatus     = errors.New("invalid shipment status")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrDuplicateShipment = errors.New("shipment already exists")

	// ErrConflict is returned by the store when the shipment changed since it was loaded.
	ErrConflict = errors.New("shipment was modified concurrently")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminalStatus    = errors.New("shipment is in a terminal status")
	ErrStaleUpdate       = errors.New("update is older than the shipment state")
)

// IsRejection reports whether err means the update itself was refused. Such
// updates fail the same way on every retry.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidCoordinate,
		ErrInvalidLocation,
		ErrInvalidStatus,
		ErrShipmentNotFound,
		ErrInvalidTransition,
		ErrTerminalStatus,
		ErrStaleUpdate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
