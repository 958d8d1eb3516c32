package testutil

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// EpochMillis is the fixed instant test clocks start at.
const EpochMillis int64 = 1700000000000

// Epoch is EpochMillis as a time.Time.
var Epoch = time.UnixMilli(EpochMillis)

// NewFakeClock returns a fake clock frozen at Epoch.
//
// Tests advance it explicitly, so timestamps and generated file names are
// reproducible across runs.
func NewFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(Epoch)
}
