package ports

import "time"

// Clock supplies the current time. The core never reads the wall clock itself.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces shipment identifiers. Uniqueness is enforced by the
// store, not assumed from the generator.
type IDGenerator interface {
	NewID() string
}
