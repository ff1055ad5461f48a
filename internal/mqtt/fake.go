package mqtt

// FakeFeed records published lifecycle events for test assertions.
type FakeFeed struct {
	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeFeed creates a FakeFeed for testing.
func NewFakeFeed() *FakeFeed {
	return &FakeFeed{}
}

// PublishSystem records the system event.
func (f *FakeFeed) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the feed as closed.
func (f *FakeFeed) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake feed is "connected".
func (f *FakeFeed) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakeFeed) Reset() {
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishSystemError = nil
	f.Connected = false
}
