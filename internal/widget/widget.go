package widget

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/status-led/internal/device"
	"github.com/sweeney/status-led/internal/events"
	"github.com/sweeney/status-led/internal/led"
	"github.com/sweeney/status-led/internal/pattern"
	"github.com/sweeney/status-led/internal/status"
)

// Startup delays. The scheduler goroutine starts first so the bootstrap's
// messages always find a live consumer.
const (
	SchedulerStartDelay = 100 * time.Millisecond
	BootstrapStartDelay = 200 * time.Millisecond
)

// Battery bootstrap retry: a zero reading means the fuel gauge has not
// produced a sample yet.
const (
	batteryRetryMax      = 10
	batteryRetryInterval = 100 * time.Millisecond
)

// Widget owns the state reducers: it converts raw device signals into
// color/pattern messages for the scheduler. Each reducer remembers its last
// announced value and stays silent when a re-evaluation computes the same
// value again.
type Widget struct {
	queue   *Queue
	source  device.Source
	role    device.Role
	tracker *status.Tracker

	// Reducer state. Event handlers, the debounce timer and the bootstrap
	// goroutine all evaluate reducers, so unlike the scheduler's state this
	// needs a lock.
	mu          sync.Mutex
	usbPowered  bool
	connPattern pattern.ID
	battPattern pattern.ID

	// initialized stays false until Bootstrap has seeded the queue; event
	// handlers are no-ops before that to avoid racing the seeding messages.
	initialized atomic.Bool

	debounce *Debouncer
	sleep    func(time.Duration)
}

// New creates a Widget producing into queue. The tracker may be nil.
func New(queue *Queue, source device.Source, role device.Role, tracker *status.Tracker) *Widget {
	w := &Widget{
		queue:       queue,
		source:      source,
		role:        role,
		tracker:     tracker,
		connPattern: pattern.None,
		battPattern: pattern.None,
		sleep:       time.Sleep,
	}
	w.debounce = NewDebouncer(DebounceDelay, w.indicateConnectivity)
	return w
}

// SetSleep replaces the bootstrap sleep. Tests use this to run the battery
// retry loop and the start delay instantly.
func (w *Widget) SetSleep(sleep func(time.Duration)) {
	w.sleep = sleep
}

// Initialized reports whether bootstrap has completed.
func (w *Widget) Initialized() bool {
	return w.initialized.Load()
}

// Attach subscribes the widget's event handlers to the bus. All handlers
// are gated on the initialized flag. Returns an unsubscribe function.
func (w *Widget) Attach(bus *events.Bus) func() {
	unsubs := []func(){
		bus.OnPowerSource(func(events.PowerSourceChanged) {
			if w.initialized.Load() {
				w.IndicateUSBPower()
			}
		}),
		bus.OnLink(func(events.LinkChanged) {
			if w.initialized.Load() {
				w.NotifyConnectivity()
			}
		}),
		bus.OnPeripheralStatus(func(events.PeripheralStatusChanged) {
			if w.initialized.Load() {
				w.NotifyConnectivity()
			}
		}),
		bus.OnBatteryLevel(func(e events.BatteryLevelChanged) {
			if w.initialized.Load() {
				w.SetBatteryLevel(e.Level)
			}
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// IndicateUSBPower re-reads the USB power state and, on change, enqueues a
// default-color update: ON while powered, OFF otherwise.
func (w *Widget) IndicateUSBPower() {
	w.mu.Lock()
	defer w.mu.Unlock()

	powered := w.source.USBPowered()
	if powered == w.usbPowered {
		return
	}

	color := led.Off
	if powered {
		color = led.On
	}
	w.queue.TryPut(ColorSet{Color: color})
	if powered {
		log.Printf("widget: usb powered, set led on")
	} else {
		log.Printf("widget: usb not powered, set led off")
	}

	w.usbPowered = powered
	w.tracker.SetUSBPowered(powered)
}

// NotifyConnectivity schedules a debounced connectivity re-evaluation.
// Bursts of link events within the debounce window collapse into one
// evaluation, timed from the last notification.
func (w *Widget) NotifyConnectivity() {
	w.debounce.Notify()
}

// indicateConnectivity re-evaluates the connectivity pattern and, on
// change, enqueues a swap from the previously announced pattern. It runs on
// the debounce timer goroutine.
func (w *Widget) indicateConnectivity() {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.connectivityPattern()
	if next == w.connPattern {
		return
	}

	w.queue.TryPut(PatternSwap{Off: w.connPattern, On: next})

	// Only blink the connected pattern once: enqueue its own clearing
	// swap and remember NONE, since the bit is gone by the time the next
	// evaluation runs.
	if next == pattern.Connected {
		w.queue.TryPut(PatternSwap{Off: pattern.Connected, On: pattern.None})
		next = pattern.None
	}

	w.connPattern = next
	w.tracker.SetConnectivity(next)
}

// connectivityPattern computes the pattern for the current link state.
// Called with w.mu held.
func (w *Widget) connectivityPattern() pattern.ID {
	if w.role == device.RolePeripheral {
		if w.source.PeripheralConnected() {
			log.Printf("widget: peripheral connected")
			return pattern.Connected
		}
		log.Printf("widget: peripheral not connected")
		return pattern.None
	}

	// Central: the profile state decides, whichever transport is active.
	profile := w.source.ActiveProfile()
	switch {
	case profile.Connected:
		log.Printf("widget: profile %d connected", profile.Index)
		return pattern.Connected
	case profile.Open:
		log.Printf("widget: profile %d open", profile.Index)
		return pattern.Advertising
	default:
		log.Printf("widget: profile %d not connected", profile.Index)
		return pattern.None
	}
}

// SetBatteryLevel maps a battery sample to its priority tier and, on tier
// change, enqueues a swap. A zero level means the reading is undetermined
// and produces no message.
func (w *Widget) SetBatteryLevel(level int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if level == 0 {
		log.Printf("widget: battery level undetermined (zero)")
		return
	}

	log.Printf("widget: battery level %d", level)
	w.tracker.SetBatteryLevel(level)

	next := batteryPattern(level)
	if next == w.battPattern {
		return
	}

	w.queue.TryPut(PatternSwap{Off: w.battPattern, On: next})
	w.battPattern = next
}

func batteryPattern(level int) pattern.ID {
	switch {
	case level <= 10:
		return pattern.Batt10
	case level <= 20:
		return pattern.Batt20
	case level <= 30:
		return pattern.Batt30
	default:
		return pattern.None
	}
}

// indicateBattery samples the battery for the initial announcement,
// retrying a zero reading a bounded number of times before giving up and
// announcing nothing.
func (w *Widget) indicateBattery(ctx context.Context) {
	level := w.source.BatteryLevel()
	for retry := 0; level == 0 && retry < batteryRetryMax; retry++ {
		if ctx.Err() != nil {
			return
		}
		w.sleep(batteryRetryInterval)
		level = w.source.BatteryLevel()
	}
	w.SetBatteryLevel(level)
}

// Bootstrap seeds the initial state into the queue: USB power,
// connectivity (through the debounced path) and battery, in that order,
// then marks the widget initialized so event handlers take over. Runs once
// on its own goroutine.
func (w *Widget) Bootstrap(ctx context.Context) {
	w.sleep(BootstrapStartDelay)
	if ctx.Err() != nil {
		return
	}

	w.IndicateUSBPower()

	log.Printf("widget: indicating initial connectivity status")
	w.NotifyConnectivity()

	log.Printf("widget: indicating initial battery status")
	w.indicateBattery(ctx)

	w.initialized.Store(true)
	w.tracker.SetInitialized(true)
	log.Printf("widget: finished initializing")
}
