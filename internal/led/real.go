//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver drives an LED on actual hardware using the Linux GPIO
// character device.
type RealDriver struct {
	chip      *gpiocdev.Chip
	line      *gpiocdev.Line
	activeLow bool
}

// NewRealDriver requests the given line as an output, initially off.
// activeLow is for LEDs wired between the pin and 3V3 (sinking).
func NewRealDriver(chipName string, offset int, activeLow bool) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	d := &RealDriver{chip: chip, activeLow: activeLow}

	line, err := chip.RequestLine(offset, gpiocdev.AsOutput(d.value(false)))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led line %d: %w", offset, err)
	}
	d.line = line

	return d, nil
}

// value maps a logical on/off to the raw line value.
func (d *RealDriver) value(on bool) int {
	if on != d.activeLow {
		return 1
	}
	return 0
}

// On drives the LED to its active level.
func (d *RealDriver) On() error {
	if err := d.line.SetValue(d.value(true)); err != nil {
		return fmt.Errorf("set led on: %w", err)
	}
	return nil
}

// Off drives the LED to its inactive level.
func (d *RealDriver) Off() error {
	if err := d.line.SetValue(d.value(false)); err != nil {
		return fmt.Errorf("set led off: %w", err)
	}
	return nil
}

// Close turns the LED off and releases GPIO resources. The line is
// reconfigured to input so the pin floats at its boot default, matching
// what early boot expects before the daemon starts again.
func (d *RealDriver) Close() error {
	var errs []error

	if d.line != nil {
		if err := d.line.SetValue(d.value(false)); err != nil {
			errs = append(errs, fmt.Errorf("clear led: %w", err))
		}
		if err := d.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure led line: %w", err))
		}
		if err := d.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led line: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
