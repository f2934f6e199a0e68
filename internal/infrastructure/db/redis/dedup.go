package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupWindow is how long an applied update is remembered.
const DefaultDedupWindow = time.Hour

// DedupChecker remembers applied location updates per shipment.
//
// Each shipment owns one Redis set, dedup:shipment:<shipment_id>, holding the
// dedup keys of its applied updates. The set expiry is refreshed on every
// Mark, so a shipment that keeps reporting keeps its history for the whole
// window.
type DedupChecker struct {
	client *redis.Client
	window time.Duration
}

// NewDedupChecker creates a DedupChecker. A non-positive window falls back to
// DefaultDedupWindow.
func NewDedupChecker(client *redis.Client, window time.Duration) *DedupChecker {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &DedupChecker{client: client, window: window}
}

// IsDuplicate reports whether the update identified by key has already been
// applied to the shipment.
func (d *DedupChecker) IsDuplicate(ctx context.Context, shipmentID, key string) (bool, error) {
	seen, err := d.client.SIsMember(ctx, shipmentSetKey(shipmentID), key).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return seen, nil
}

// Mark records the update and extends the shipment's dedup window.
func (d *DedupChecker) Mark(ctx context.Context, shipmentID, key string) error {
	setKey := shipmentSetKey(shipmentID)
	_, err := d.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, setKey, key)
		pipe.Expire(ctx, setKey, d.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func shipmentSetKey(shipmentID string) string {
	return "dedup:shipment:" + shipmentID
}
