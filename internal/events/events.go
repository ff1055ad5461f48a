// Package events is the in-process typed event bus between the MQTT state
// feed and the LED widget, built on kelindar/event.
package events

import "github.com/kelindar/event"

// Event type constants for kelindar/event.
const (
	TypePowerSourceChanged uint32 = iota + 1
	TypeLinkChanged
	TypePeripheralStatusChanged
	TypeBatteryLevelChanged
)

// PowerSourceChanged fires when the USB power state may have changed.
type PowerSourceChanged struct {
	Powered bool
}

// Type returns the event type identifier for PowerSourceChanged.
func (e PowerSourceChanged) Type() uint32 { return TypePowerSourceChanged }

// LinkChanged fires when the active profile or transport may have changed
// (central role).
type LinkChanged struct {
	ProfileIndex int
}

// Type returns the event type identifier for LinkChanged.
func (e LinkChanged) Type() uint32 { return TypeLinkChanged }

// PeripheralStatusChanged fires when the link to the central changes
// (peripheral role).
type PeripheralStatusChanged struct {
	Connected bool
}

// Type returns the event type identifier for PeripheralStatusChanged.
func (e PeripheralStatusChanged) Type() uint32 { return TypePeripheralStatusChanged }

// BatteryLevelChanged fires on a new battery sample.
type BatteryLevelChanged struct {
	Level int
}

// Type returns the event type identifier for BatteryLevelChanged.
func (e BatteryLevelChanged) Type() uint32 { return TypeBatteryLevelChanged }

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// OnPowerSource subscribes to power-source changes. Returns an unsubscribe
// function.
func (b *Bus) OnPowerSource(h func(PowerSourceChanged)) func() {
	return event.Subscribe(b.dispatcher, h)
}

// OnLink subscribes to link/profile changes.
func (b *Bus) OnLink(h func(LinkChanged)) func() {
	return event.Subscribe(b.dispatcher, h)
}

// OnPeripheralStatus subscribes to peripheral link changes.
func (b *Bus) OnPeripheralStatus(h func(PeripheralStatusChanged)) func() {
	return event.Subscribe(b.dispatcher, h)
}

// OnBatteryLevel subscribes to battery samples.
func (b *Bus) OnBatteryLevel(h func(BatteryLevelChanged)) func() {
	return event.Subscribe(b.dispatcher, h)
}

// PublishPowerSource broadcasts a power-source change.
func (b *Bus) PublishPowerSource(e PowerSourceChanged) {
	event.Publish(b.dispatcher, e)
}

// PublishLink broadcasts a link/profile change.
func (b *Bus) PublishLink(e LinkChanged) {
	event.Publish(b.dispatcher, e)
}

// PublishPeripheralStatus broadcasts a peripheral link change.
func (b *Bus) PublishPeripheralStatus(e PeripheralStatusChanged) {
	event.Publish(b.dispatcher, e)
}

// PublishBatteryLevel broadcasts a battery sample.
func (b *Bus) PublishBatteryLevel(e BatteryLevelChanged) {
	event.Publish(b.dispatcher, e)
}
