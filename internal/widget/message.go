// Package widget contains the LED widget core: the state reducers, the
// bounded message queue, the debouncer, the bootstrap sequencer, and the
// scheduler that plays the highest-priority active pattern.
package widget

import (
	"fmt"

	"github.com/sweeney/status-led/internal/led"
	"github.com/sweeney/status-led/internal/pattern"
)

// Message is a work item for the scheduler. It is a sealed sum type:
// exactly ColorSet or PatternSwap.
type Message interface {
	message()
	String() string
}

// ColorSet replaces the scheduler's default color, the level shown when no
// pattern is active and between blinks of an active pattern.
type ColorSet struct {
	Color led.Color
}

func (ColorSet) message() {}

// String describes the message for logs.
func (m ColorSet) String() string {
	return fmt.Sprintf("ColorSet(%s)", m.Color)
}

// PatternSwap clears the Off bit then sets the On bit in the active-pattern
// mask. Either side may be pattern.None to skip that step. The clear-then-set
// order is significant when Off == On.
type PatternSwap struct {
	Off pattern.ID
	On  pattern.ID
}

func (PatternSwap) message() {}

// String describes the message for logs.
func (m PatternSwap) String() string {
	return fmt.Sprintf("PatternSwap(off=%s, on=%s)", m.Off, m.On)
}
