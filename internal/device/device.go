// Package device defines the instantaneous device-state queries the LED
// widget consumes. The real implementation is the MQTT state feed; the fake
// implementation allows testing without a broker.
package device

import "fmt"

// Role is the device's link role. A central owns profiles and advertises;
// a peripheral only tracks whether its link to the central is up.
type Role string

const (
	RoleCentral    Role = "central"
	RolePeripheral Role = "peripheral"
)

// ParseRole validates a role flag value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCentral, RolePeripheral:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q (want %q or %q)", s, RoleCentral, RolePeripheral)
}

// Transport is the active endpoint transport on a central.
type Transport string

const (
	TransportUSB      Transport = "usb"
	TransportWireless Transport = "wireless"
)

// Profile is the state of the active wireless profile on a central.
type Profile struct {
	Index     int
	Connected bool
	Open      bool // advertising, waiting for a host to pair
}

// Source answers point-in-time state queries. Implementations must be safe
// for concurrent callers: the bootstrap goroutine and event handlers both
// read from it.
type Source interface {
	// USBPowered reports whether the device is currently on USB power.
	USBPowered() bool

	// Transport returns the active endpoint transport (central only).
	Transport() Transport

	// ActiveProfile returns the active wireless profile state (central only).
	ActiveProfile() Profile

	// PeripheralConnected reports the link to the central (peripheral only).
	PeripheralConnected() bool

	// BatteryLevel returns the state of charge 0-100. Zero means
	// undetermined (no sample yet); callers treat it as "no data".
	BatteryLevel() int
}
