package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	DefaultColor   string     `json:"default_color"`
	ActivePatterns []string   `json:"active_patterns"`
	LastPlayed     string     `json:"last_played"`
	Connectivity   string     `json:"connectivity"`
	BatteryLevel   int        `json:"battery_level"`
	BatteryKnown   bool       `json:"battery_known"`
	USBPowered     bool       `json:"usb_powered"`
	Ready          bool       `json:"ready"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	MQTT           MQTTStatus `json:"mqtt"`
	Counts         CountsJSON `json:"counts"`
	Config         ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of scheduler counters.
type CountsJSON struct {
	MessagesApplied uint64 `json:"messages_applied"`
	MessagesDropped uint64 `json:"messages_dropped"`
	PatternsPlayed  uint64 `json:"patterns_played"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker     string `json:"broker"`
	Role       string `json:"role"`
	Chip       string `json:"chip"`
	Line       int    `json:"line"`
	DebounceMs int64  `json:"debounce_ms"`
	HTTPAddr   string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	color := snap.DefaultColor
	if color == "" {
		color = "OFF"
	}
	active := snap.ActivePatterns()
	if active == nil {
		active = []string{}
	}

	return StatusInner{
		DefaultColor:   color,
		ActivePatterns: active,
		LastPlayed:     snap.LastPlayed.String(),
		Connectivity:   snap.Connectivity.String(),
		BatteryLevel:   snap.BatteryLevel,
		BatteryKnown:   snap.BatteryLevel > 0,
		USBPowered:     snap.USBPowered,
		Ready:          snap.Initialized,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			MessagesApplied: snap.Counts.MessagesApplied,
			MessagesDropped: snap.Counts.MessagesDropped,
			PatternsPlayed:  snap.Counts.PatternsPlayed,
		},
		Config: ConfigJSON{
			Broker:     snap.Config.Broker,
			Role:       snap.Config.Role,
			Chip:       snap.Config.Chip,
			Line:       snap.Config.Line,
			DebounceMs: snap.Config.DebounceMs,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
