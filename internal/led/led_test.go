package led

import (
	"errors"
	"testing"
	"time"
)

func TestColorOpposite(t *testing.T) {
	if On.Opposite() != Off {
		t.Error("On.Opposite() should be Off")
	}
	if Off.Opposite() != On {
		t.Error("Off.Opposite() should be On")
	}
}

func TestSetterSuppressesRedundantWrites(t *testing.T) {
	fake := NewFakeDriver()
	s := NewSetter(fake)
	s.SetSleep(func(time.Duration) {})

	// Initial state is Off; writing Off again must not touch the driver.
	if err := s.Set(Off, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Writes) != 0 {
		t.Fatalf("redundant Off write reached driver: %v", fake.Writes)
	}

	s.Set(On, 0)
	s.Set(On, 0)
	s.Set(Off, 0)

	want := []Color{On, Off}
	if len(fake.Writes) != len(want) {
		t.Fatalf("writes: got %v, want %v", fake.Writes, want)
	}
	for i := range want {
		if fake.Writes[i] != want[i] {
			t.Errorf("write %d: got %v, want %v", i, fake.Writes[i], want[i])
		}
	}
}

func TestSetterHold(t *testing.T) {
	fake := NewFakeDriver()
	s := NewSetter(fake)

	var slept []time.Duration
	s.SetSleep(func(d time.Duration) { slept = append(slept, d) })

	// Hold applies even when the write is suppressed.
	s.Set(Off, 30*time.Millisecond)
	s.Set(On, 200*time.Millisecond)
	s.Set(On, 0)

	want := []time.Duration{30 * time.Millisecond, 200 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("sleeps: got %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d: got %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestSetterWriteError(t *testing.T) {
	fake := NewFakeDriver()
	fake.OnError = errors.New("simulated error")
	s := NewSetter(fake)
	s.SetSleep(func(time.Duration) {})

	if err := s.Set(On, 0); err == nil {
		t.Fatal("expected error from driver")
	}

	// The cache still advances: a later Set back to Off must issue the
	// write rather than assuming the LED is already off.
	if s.Last() != On {
		t.Errorf("last level: got %v, want On", s.Last())
	}
	if err := s.Set(Off, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Writes) != 1 || fake.Writes[0] != Off {
		t.Errorf("writes: got %v, want [Off]", fake.Writes)
	}
}

func TestFakeDriverRecords(t *testing.T) {
	f := NewFakeDriver()
	f.On()
	f.Off()
	f.On()
	want := []Color{On, Off, On}
	if len(f.Writes) != len(want) {
		t.Fatalf("writes: got %v, want %v", f.Writes, want)
	}
	f.Close()
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	f.Reset()
	if f.Writes != nil || f.Closed {
		t.Error("Reset should clear recorded state")
	}
}
