//go:build !linux

package led

import "errors"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string, offset int, activeLow bool) (*RealDriver, error) {
	return nil, errors.New("led: not supported on this platform (requires Linux)")
}

// On is not implemented on non-Linux platforms.
func (d *RealDriver) On() error {
	return errors.New("led: not supported")
}

// Off is not implemented on non-Linux platforms.
func (d *RealDriver) Off() error {
	return errors.New("led: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
