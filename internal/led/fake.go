package led

// FakeDriver is a test double that records every physical write.
type FakeDriver struct {
	// Writes contains the sequence of levels written, in order.
	Writes []Color

	// OnError, if set, will be returned by On.
	OnError error

	// OffError, if set, will be returned by Off.
	OffError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// On records an ON write.
func (f *FakeDriver) On() error {
	if f.OnError != nil {
		return f.OnError
	}
	f.Writes = append(f.Writes, On)
	return nil
}

// Off records an OFF write.
func (f *FakeDriver) Off() error {
	if f.OffError != nil {
		return f.OffError
	}
	f.Writes = append(f.Writes, Off)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes.
func (f *FakeDriver) Reset() {
	f.Writes = nil
	f.Closed = false
	f.OnError = nil
	f.OffError = nil
}
