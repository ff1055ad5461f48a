// Package mqtt feeds device state from the broker into the LED widget and
// publishes daemon lifecycle events, with abstraction for testing.
//
// The other device services publish their state as retained messages, so a
// freshly started daemon receives the current state right after
// subscribing; until then every query returns its zero value and the
// battery reads as "no sample yet".
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// State topics consumed from the other device services.
const (
	TopicPower      = "device/status/power"
	TopicLink       = "device/status/link"
	TopicPeripheral = "device/status/peripheral"
	TopicBattery    = "device/status/battery"
)

// TopicSystem is where the daemon publishes its own lifecycle events.
const TopicSystem = "device/status/led/system"

// PowerPayload reports the USB power source state.
type PowerPayload struct {
	Powered bool `json:"powered"`
}

// ProfilePayload reports the active wireless profile state.
type ProfilePayload struct {
	Index     int  `json:"index"`
	Connected bool `json:"connected"`
	Open      bool `json:"open"`
}

// LinkPayload reports the endpoint transport and active profile (central).
type LinkPayload struct {
	Transport string         `json:"transport"`
	Profile   ProfilePayload `json:"profile"`
}

// PeripheralPayload reports the link to the central (peripheral).
type PeripheralPayload struct {
	Connected bool `json:"connected"`
}

// BatteryPayload reports the state of charge.
type BatteryPayload struct {
	Level int `json:"level"`
}

// ParsePower decodes a power topic payload.
func ParsePower(data []byte) (PowerPayload, error) {
	var p PowerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return PowerPayload{}, fmt.Errorf("parse power payload: %w", err)
	}
	return p, nil
}

// ParseLink decodes a link topic payload.
func ParseLink(data []byte) (LinkPayload, error) {
	var p LinkPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return LinkPayload{}, fmt.Errorf("parse link payload: %w", err)
	}
	return p, nil
}

// ParsePeripheral decodes a peripheral topic payload.
func ParsePeripheral(data []byte) (PeripheralPayload, error) {
	var p PeripheralPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return PeripheralPayload{}, fmt.Errorf("parse peripheral payload: %w", err)
	}
	return p, nil
}

// ParseBattery decodes a battery topic payload. Levels outside 0-100 are
// rejected rather than clamped; a garbage sample must not blink the LED.
func ParseBattery(data []byte) (BatteryPayload, error) {
	var p BatteryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return BatteryPayload{}, fmt.Errorf("parse battery payload: %w", err)
	}
	if p.Level < 0 || p.Level > 100 {
		return BatteryPayload{}, fmt.Errorf("battery level %d out of range", p.Level)
	}
	return p, nil
}

// Publisher publishes daemon lifecycle events to the broker.
type Publisher interface {
	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a daemon lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
