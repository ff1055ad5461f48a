// Package status provides a thread-safe status tracker for the status-led
// daemon. It is read by the HTTP handlers and by MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/status-led/internal/pattern"
)

// Counts tracks scheduler activity since startup.
type Counts struct {
	MessagesApplied uint64
	MessagesDropped uint64
	PatternsPlayed  uint64
}

// Config contains daemon configuration for display.
type Config struct {
	Broker     string
	Role       string
	Chip       string
	Line       int
	DebounceMs int64
	HTTPAddr   string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	DefaultColor  string
	ActiveMask    pattern.Mask
	LastPlayed    pattern.ID
	Connectivity  pattern.ID
	BatteryLevel  int // 0 = no sample yet
	USBPowered    bool
	Initialized   bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// ActivePatterns returns the names of active patterns, lowest priority first.
func (s Snapshot) ActivePatterns() []string {
	var names []string
	for i := 0; i < pattern.Count; i++ {
		if s.ActiveMask.Has(pattern.ID(i)) {
			names = append(names, pattern.ID(i).String())
		}
	}
	return names
}

// Tracker holds mutable daemon state behind an RWMutex. A nil Tracker is
// valid: all updates become no-ops, so wiring it is optional in tests.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:    startTime,
			Config:       cfg,
			LastPlayed:   pattern.None,
			Connectivity: pattern.None,
		},
	}
}

// UpdateScheduler sets the scheduler-owned fields. Called once per loop
// iteration from the scheduler goroutine.
func (t *Tracker) UpdateScheduler(defaultColor string, mask pattern.Mask, lastPlayed pattern.ID, counts Counts) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.DefaultColor = defaultColor
	t.snap.ActiveMask = mask
	t.snap.LastPlayed = lastPlayed
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetConnectivity records the last announced connectivity pattern.
func (t *Tracker) SetConnectivity(id pattern.ID) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.Connectivity = id
	t.mu.Unlock()
}

// SetBatteryLevel records the last battery sample.
func (t *Tracker) SetBatteryLevel(level int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.BatteryLevel = level
	t.mu.Unlock()
}

// SetUSBPowered records the last announced USB power state.
func (t *Tracker) SetUSBPowered(powered bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.USBPowered = powered
	t.mu.Unlock()
}

// SetInitialized marks bootstrap completion.
func (t *Tracker) SetInitialized(initialized bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.Initialized = initialized
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{LastPlayed: pattern.None, Connectivity: pattern.None, Now: time.Now()}
	}
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
