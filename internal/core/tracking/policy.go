package tracking

import (
	"fmt"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

// Policy guards the engine. ApplyLocationUpdate itself accepts any update, so
// callers run Check first to reject updates the lifecycle does not allow.
type Policy struct {
	// StrictTransitions rejects status changes outside the lifecycle diagram.
	StrictTransitions bool
}

// Check reports whether upd may be applied to s at now.
func (p Policy) Check(s *domain.Shipment, upd LocationUpdate, now time.Time) error {
	if err := upd.Location.Validate(); err != nil {
		return err
	}

	if s.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", domain.ErrTerminalStatus, s.Status)
	}

	if upd.Status != "" {
		if !upd.Status.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, upd.Status)
		}
		if p.StrictTransitions && !s.Status.CanTransitionTo(upd.Status) {
			return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, s.Status, upd.Status)
		}
	}

	if now.Before(s.UpdatedAt) {
		return fmt.Errorf("%w: %s before %s", domain.ErrStaleUpdate,
			now.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	}

	return nil
}
