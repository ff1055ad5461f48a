package widget

import (
	"context"
	"testing"
	"time"

	"github.com/sweeney/status-led/internal/device"
	"github.com/sweeney/status-led/internal/events"
	"github.com/sweeney/status-led/internal/led"
	"github.com/sweeney/status-led/internal/pattern"
)

func newTestWidget(role device.Role) (*Widget, *Queue, *device.FakeSource) {
	q := NewQueue(QueueCapacity)
	src := device.NewFakeSource()
	w := New(q, src, role, nil)
	w.SetSleep(func(time.Duration) {})
	return w, q, src
}

func drain(q *Queue) []Message {
	var msgs []Message
	for {
		m, ok := q.Poll()
		if !ok {
			return msgs
		}
		msgs = append(msgs, m)
	}
}

func TestUSBPowerReducer(t *testing.T) {
	w, q, src := newTestWidget(device.RoleCentral)

	// Initially unpowered and announced unpowered: no message.
	w.IndicateUSBPower()
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("unchanged power state produced messages: %v", msgs)
	}

	src.Set(func(f *device.FakeSource) { f.Powered = true })
	w.IndicateUSBPower()
	msgs := drain(q)
	if len(msgs) != 1 || msgs[0] != (ColorSet{Color: led.On}) {
		t.Fatalf("power on: got %v, want [ColorSet(ON)]", msgs)
	}

	// Re-evaluation with unchanged input is silent.
	w.IndicateUSBPower()
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("idempotent re-evaluation produced messages: %v", msgs)
	}

	src.Set(func(f *device.FakeSource) { f.Powered = false })
	w.IndicateUSBPower()
	msgs = drain(q)
	if len(msgs) != 1 || msgs[0] != (ColorSet{Color: led.Off}) {
		t.Fatalf("power off: got %v, want [ColorSet(OFF)]", msgs)
	}
}

func TestBatteryTierBoundaries(t *testing.T) {
	tests := []struct {
		level int
		want  pattern.ID
	}{
		{1, pattern.Batt10},
		{10, pattern.Batt10},
		{11, pattern.Batt20},
		{20, pattern.Batt20},
		{21, pattern.Batt30},
		{30, pattern.Batt30},
		{31, pattern.None},
		{100, pattern.None},
	}

	for _, tt := range tests {
		if got := batteryPattern(tt.level); got != tt.want {
			t.Errorf("batteryPattern(%d): got %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestBatteryReducerTransitions(t *testing.T) {
	w, q, _ := newTestWidget(device.RoleCentral)

	w.SetBatteryLevel(10)
	msgs := drain(q)
	if len(msgs) != 1 || msgs[0] != (PatternSwap{Off: pattern.None, On: pattern.Batt10}) {
		t.Fatalf("level 10: got %v", msgs)
	}

	w.SetBatteryLevel(11)
	msgs = drain(q)
	if len(msgs) != 1 || msgs[0] != (PatternSwap{Off: pattern.Batt10, On: pattern.Batt20}) {
		t.Fatalf("level 11: got %v", msgs)
	}

	// Same tier, different level: no message.
	w.SetBatteryLevel(15)
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("same tier produced messages: %v", msgs)
	}

	w.SetBatteryLevel(31)
	msgs = drain(q)
	if len(msgs) != 1 || msgs[0] != (PatternSwap{Off: pattern.Batt20, On: pattern.None}) {
		t.Fatalf("level 31: got %v", msgs)
	}

	// Zero is undetermined: ignored, previous announcement stands.
	w.SetBatteryLevel(0)
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("zero level produced messages: %v", msgs)
	}
}

func TestConnectivityCentral(t *testing.T) {
	w, q, src := newTestWidget(device.RoleCentral)

	src.Set(func(f *device.FakeSource) { f.Profile = device.Profile{Index: 0, Open: true} })
	w.indicateConnectivity()
	msgs := drain(q)
	if len(msgs) != 1 || msgs[0] != (PatternSwap{Off: pattern.None, On: pattern.Advertising}) {
		t.Fatalf("open profile: got %v", msgs)
	}

	// Unchanged: silent.
	w.indicateConnectivity()
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("unchanged link produced messages: %v", msgs)
	}

	// Connecting produces the one-shot pair: activate then self-clear.
	src.Set(func(f *device.FakeSource) { f.Profile = device.Profile{Index: 0, Connected: true} })
	w.indicateConnectivity()
	msgs = drain(q)
	want := []Message{
		PatternSwap{Off: pattern.Advertising, On: pattern.Connected},
		PatternSwap{Off: pattern.Connected, On: pattern.None},
	}
	if len(msgs) != 2 || msgs[0] != want[0] || msgs[1] != want[1] {
		t.Fatalf("connect: got %v, want %v", msgs, want)
	}

	// Applying both messages leaves the CONNECTED bit clear.
	var mask pattern.Mask
	for _, m := range msgs {
		swap := m.(PatternSwap)
		mask = mask.Clear(swap.Off).Set(swap.On)
	}
	if mask.Has(pattern.Connected) {
		t.Errorf("CONNECTED bit still set after one-shot pair, mask=%05b", mask)
	}

	// The reducer remembered NONE, so disconnecting is silent and a
	// reconnect blinks again.
	src.Set(func(f *device.FakeSource) { f.Profile = device.Profile{Index: 0} })
	w.indicateConnectivity()
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("disconnect after one-shot produced messages: %v", msgs)
	}
}

func TestConnectivityPeripheral(t *testing.T) {
	w, q, src := newTestWidget(device.RolePeripheral)

	src.Set(func(f *device.FakeSource) { f.PeriConnected = true })
	w.indicateConnectivity()
	msgs := drain(q)
	want := []Message{
		PatternSwap{Off: pattern.None, On: pattern.Connected},
		PatternSwap{Off: pattern.Connected, On: pattern.None},
	}
	if len(msgs) != 2 || msgs[0] != want[0] || msgs[1] != want[1] {
		t.Fatalf("peripheral connect: got %v, want %v", msgs, want)
	}

	src.Set(func(f *device.FakeSource) { f.PeriConnected = false })
	w.indicateConnectivity()
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("peripheral disconnect produced messages: %v", msgs)
	}
}

func TestBootstrapRetriesBattery(t *testing.T) {
	q := NewQueue(QueueCapacity)
	src := device.NewFakeSource()
	src.Set(func(f *device.FakeSource) {
		f.BatterySamples = []int{0, 0, 0, 25}
	})
	w := New(q, src, device.RoleCentral, nil)

	var slept []time.Duration
	w.SetSleep(func(d time.Duration) { slept = append(slept, d) })

	w.Bootstrap(context.Background())

	if !w.Initialized() {
		t.Fatal("widget not initialized after bootstrap")
	}

	// Three zero samples before the good one: three retry sleeps plus the
	// start delay.
	wantSleeps := 4
	if len(slept) != wantSleeps {
		t.Errorf("sleeps: got %d (%v), want %d", len(slept), slept, wantSleeps)
	}

	// Connectivity goes through the real debounce timer.
	time.Sleep(5 * DebounceDelay)

	msgs := drain(q)
	var battMsg *PatternSwap
	for i := range msgs {
		if swap, ok := msgs[i].(PatternSwap); ok && swap.On == pattern.Batt30 {
			battMsg = &swap
		}
	}
	if battMsg == nil {
		t.Fatalf("no BATT_30 swap enqueued, messages: %v", msgs)
	}
	if battMsg.Off != pattern.None {
		t.Errorf("battery swap off: got %s, want NONE", battMsg.Off)
	}
}

func TestBootstrapGivesUpOnZeroBattery(t *testing.T) {
	q := NewQueue(QueueCapacity)
	src := device.NewFakeSource()
	w := New(q, src, device.RoleCentral, nil)
	w.SetSleep(func(time.Duration) {})

	w.Bootstrap(context.Background())
	time.Sleep(5 * DebounceDelay)

	// 1 initial read + 10 retries, all zero: no battery message.
	if src.BatteryReads != 11 {
		t.Errorf("battery reads: got %d, want 11", src.BatteryReads)
	}
	for _, m := range drain(q) {
		if swap, ok := m.(PatternSwap); ok && swap.On.Valid() && swap.On <= pattern.Batt10 {
			t.Errorf("unexpected battery message %s", swap)
		}
	}
	if !w.Initialized() {
		t.Error("widget should initialize even with no battery data")
	}
}

func TestEventHandlersGatedUntilInitialized(t *testing.T) {
	q := NewQueue(QueueCapacity)
	src := device.NewFakeSource()
	w := New(q, src, device.RoleCentral, nil)
	w.SetSleep(func(time.Duration) {})

	bus := events.New()
	defer w.Attach(bus)()

	// Before bootstrap: events are observed but produce nothing.
	bus.PublishBatteryLevel(events.BatteryLevelChanged{Level: 9})
	time.Sleep(50 * time.Millisecond)
	if msgs := drain(q); len(msgs) != 0 {
		t.Fatalf("pre-init event produced messages: %v", msgs)
	}

	w.Bootstrap(context.Background())
	time.Sleep(5 * DebounceDelay)
	drain(q) // discard bootstrap announcements

	bus.PublishBatteryLevel(events.BatteryLevelChanged{Level: 9})
	deadline := time.Now().Add(time.Second)
	for {
		if msgs := drain(q); len(msgs) == 1 {
			if msgs[0] != (PatternSwap{Off: pattern.None, On: pattern.Batt10}) {
				t.Fatalf("post-init event: got %v", msgs)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("post-init battery event produced no message")
		}
		time.Sleep(time.Millisecond)
	}
}
