// Package led drives the status LED with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

import "time"

// Color is the logical output level of the LED.
type Color int

const (
	Off Color = iota
	On
)

// String returns "ON" or "OFF" for logs.
func (c Color) String() string {
	if c == On {
		return "ON"
	}
	return "OFF"
}

// Opposite returns the other level. Used for the "active" level of a blink
// relative to the current default color.
func (c Color) Opposite() Color {
	if c == On {
		return Off
	}
	return On
}

// Driver sets the physical LED level.
type Driver interface {
	// On drives the LED to its active level.
	On() error

	// Off drives the LED to its inactive level.
	Off() error

	// Close releases GPIO resources.
	Close() error
}

// Default output line (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultLine = 21
)

// Setter writes colors to a Driver, suppressing redundant writes and
// optionally holding after a write. It tracks the last level written, so it
// must only ever be called from the scheduler goroutine.
type Setter struct {
	driver Driver
	last   Color
	sleep  func(time.Duration)
}

// NewSetter creates a Setter over the given driver. The LED is assumed to
// start OFF; the scheduler writes the initial color before its first wait.
func NewSetter(driver Driver) *Setter {
	return &Setter{
		driver: driver,
		last:   Off,
		sleep:  time.Sleep,
	}
}

// SetSleep replaces the hold sleep. Tests use this to run playback
// instantly while still observing requested hold durations.
func (s *Setter) SetSleep(sleep func(time.Duration)) {
	s.sleep = sleep
}

// Set writes color if it differs from the last level written, then holds
// for the given duration regardless. Write errors are returned but the
// last-level cache is still advanced: the driver state is unknowable after
// a failed write and retrying every cycle would spam the log.
func (s *Setter) Set(color Color, hold time.Duration) error {
	var err error
	if s.last != color {
		if color == On {
			err = s.driver.On()
		} else {
			err = s.driver.Off()
		}
		s.last = color
	}
	if hold > 0 {
		s.sleep(hold)
	}
	return err
}

// Last returns the last level written. Only meaningful on the scheduler
// goroutine.
func (s *Setter) Last() Color {
	return s.last
}
