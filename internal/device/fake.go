package device

import "sync"

// FakeSource is a test double with settable state.
type FakeSource struct {
	mu sync.Mutex

	Powered       bool
	Trans         Transport
	Profile       Profile
	PeriConnected bool
	Battery       int

	// BatterySamples, if non-empty, overrides Battery: each BatteryLevel
	// call consumes the next sample, repeating the last. Used to script
	// the bootstrap retry loop.
	BatterySamples []int
	batteryIndex   int

	// BatteryReads counts BatteryLevel calls.
	BatteryReads int
}

// NewFakeSource creates a FakeSource defaulting to the wireless transport.
func NewFakeSource() *FakeSource {
	return &FakeSource{Trans: TransportWireless}
}

// USBPowered returns the scripted powered state.
func (f *FakeSource) USBPowered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Powered
}

// Transport returns the scripted transport.
func (f *FakeSource) Transport() Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Trans
}

// ActiveProfile returns the scripted profile state.
func (f *FakeSource) ActiveProfile() Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Profile
}

// PeripheralConnected returns the scripted peripheral link state.
func (f *FakeSource) PeripheralConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PeriConnected
}

// BatteryLevel returns the next scripted battery sample.
func (f *FakeSource) BatteryLevel() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BatteryReads++
	if len(f.BatterySamples) == 0 {
		return f.Battery
	}
	level := f.BatterySamples[f.batteryIndex]
	if f.batteryIndex < len(f.BatterySamples)-1 {
		f.batteryIndex++
	}
	return level
}

// Set mutates the fake under its lock.
func (f *FakeSource) Set(fn func(*FakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}
