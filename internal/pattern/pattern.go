// Package pattern defines the static blink pattern table and the
// priority-ordered active-pattern bitmask.
package pattern

import "math/bits"

// ID identifies a pattern in the table. IDs are ordered by ascending
// priority: a higher ID always wins when several patterns are active.
type ID int8

const (
	// None is the sentinel for "no pattern". It never appears in a Mask.
	None ID = -1

	// lowest priority
	Batt30 ID = iota - 1
	Batt20
	Batt10
	Advertising
	Connected
	// highest priority
)

// Count is the number of real patterns in the table.
const Count = int(Connected) + 1

// String returns the pattern name for logs and the status page.
func (id ID) String() string {
	switch id {
	case Batt30:
		return "BATT_30"
	case Batt20:
		return "BATT_20"
	case Batt10:
		return "BATT_10"
	case Advertising:
		return "ADVERTISING"
	case Connected:
		return "CONNECTED"
	case None:
		return "NONE"
	}
	return "INVALID"
}

// Valid reports whether id indexes the table.
func (id ID) Valid() bool {
	return id >= 0 && int(id) < Count
}

// Pattern is a fixed blink sequence: the LED toggles to the level opposite
// the default color for DurationMs, Times times, resting at the default
// color for SleepMs between repetitions.
type Pattern struct {
	Times      uint8
	DurationMs uint16
	SleepMs    uint16
}

// Blink timing constants.
const (
	BatteryBlinkMs      = 200
	BatteryBlinkSleepMs = 200
	AdvertisingBlinkMs  = 1000
	ConnectedBlinkMs    = 2000

	// IntervalMs is the rest held at the default color after every
	// pattern display before the scheduler re-evaluates.
	IntervalMs = 500
)

// table index must match the ID constants above.
var table = [Count]Pattern{
	Batt30:      {Times: 3, DurationMs: BatteryBlinkMs, SleepMs: BatteryBlinkSleepMs},
	Batt20:      {Times: 2, DurationMs: BatteryBlinkMs, SleepMs: BatteryBlinkSleepMs},
	Batt10:      {Times: 1, DurationMs: BatteryBlinkMs, SleepMs: BatteryBlinkSleepMs},
	Advertising: {Times: 1, DurationMs: AdvertisingBlinkMs, SleepMs: 0},
	Connected:   {Times: 1, DurationMs: ConnectedBlinkMs, SleepMs: 0},
}

// Lookup returns the pattern for id. ok is false when id does not index
// the table; callers log and skip the display rather than crash.
func Lookup(id ID) (Pattern, bool) {
	if !id.Valid() {
		return Pattern{}, false
	}
	return table[id], true
}

// Mask is a bit-vector of active patterns: bit i set means pattern ID(i)
// is active. It is owned exclusively by the scheduler goroutine.
type Mask uint8

// Set marks id active. The None sentinel is a no-op.
func (m Mask) Set(id ID) Mask {
	if !id.Valid() {
		return m
	}
	return m | 1<<uint(id)
}

// Clear marks id inactive. The None sentinel is a no-op.
func (m Mask) Clear(id ID) Mask {
	if !id.Valid() {
		return m
	}
	return m &^ (1 << uint(id))
}

// Has reports whether id is active.
func (m Mask) Has(id ID) bool {
	return id.Valid() && m&(1<<uint(id)) != 0
}

// Empty reports whether no pattern is active.
func (m Mask) Empty() bool {
	return m == 0
}

// Highest returns the highest-priority active pattern, or None when the
// mask is empty. Priority is bit position, so this is a bit-scan.
func (m Mask) Highest() ID {
	if m == 0 {
		return None
	}
	return ID(bits.Len8(uint8(m)) - 1)
}
