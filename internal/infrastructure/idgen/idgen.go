// Package idgen generates shipment identifiers.
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

const (
	SchemeTimestamp = "timestamp"
	SchemeUUID      = "uuid"

	prefix = "SH"
)

// TimestampGenerator returns ids in the format SH<unix-millis><0-999>.
type TimestampGenerator struct {
	now func() time.Time
}

func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{now: time.Now}
}

func (g *TimestampGenerator) NewID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%s%d%d", prefix, g.now().UnixMilli(), g.now().Nanosecond()%1000)
	}
	return fmt.Sprintf("%s%d%d", prefix, g.now().UnixMilli(), n.Int64())
}

// UUIDGenerator returns ids in the format SH-<uuid>.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return prefix + "-" + strings.ToUpper(uuid.NewString())
}

// New returns the generator for scheme. Unknown schemes fall back to timestamp ids.
func New(scheme string) ports.IDGenerator {
	if strings.EqualFold(scheme, SchemeUUID) {
		return UUIDGenerator{}
	}
	return NewTimestampGenerator()
}
