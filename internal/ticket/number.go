package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const carrierPrefix = "LJ"

type Leg string

const (
	LegSingle   Leg = ""
	LegOutbound Leg = "OUT"
	LegReturn   Leg = "RTN"
)

// NewLegNumber issues a ticket number for one leg: carrier prefix, epoch
// millis, four hex characters of entropy, and the leg suffix. The entropy is
// what keeps the two legs of a round trip distinct when both are numbered in
// the same millisecond.
func NewLegNumber(now time.Time, leg Leg) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s%d%s%s", carrierPrefix, now.UnixMilli(), entropy, leg)
}
