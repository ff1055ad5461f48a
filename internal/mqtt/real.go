package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/status-led/internal/device"
	"github.com/sweeney/status-led/internal/events"
)

// RealFeed is the broker-backed state feed. It caches the latest sample
// from every state topic (implementing device.Source), republishes each
// arrival as a typed event on the bus, and publishes the daemon's own
// lifecycle events.
type RealFeed struct {
	client  paho.Client
	bus     *events.Bus
	tracker connTracker

	mu            sync.RWMutex
	powered       bool
	transport     device.Transport
	profile       device.Profile
	periConnected bool
	battery       int

	// pending buffers lifecycle events produced while disconnected; they
	// replay in order on the next successful connect.
	pendingMu sync.Mutex
	pending   *pendingEvents
}

// connTracker is the subset of the status tracker the feed updates.
type connTracker interface {
	SetMQTTConnected(bool)
}

// NewRealFeed connects to the broker and subscribes to the state topics.
// The connection retries in the background; a broker outage delays state
// updates but never fails the daemon. tracker may be nil.
func NewRealFeed(broker, clientID string, bus *events.Bus, tracker connTracker) (*RealFeed, error) {
	f := newFeed(bus)
	f.tracker = tracker

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(f.onConnect).
		SetConnectionLostHandler(f.onConnectionLost)

	f.client = paho.NewClient(opts)
	token := f.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		// Keep going: auto-reconnect owns the connection from here.
		log.Printf("mqtt: initial connect still pending, continuing")
		return f, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return f, nil
}

// newFeed creates a feed without a client. Tests drive the handle* methods
// directly.
func newFeed(bus *events.Bus) *RealFeed {
	return &RealFeed{
		bus:     bus,
		pending: newPendingEvents(pendingCapacity),
	}
}

func (f *RealFeed) onConnect(client paho.Client) {
	log.Printf("mqtt: connected, subscribing to state topics")
	if f.tracker != nil {
		f.tracker.SetMQTTConnected(true)
	}

	subs := map[string]paho.MessageHandler{
		TopicPower:      func(_ paho.Client, m paho.Message) { f.handlePower(m.Payload()) },
		TopicLink:       func(_ paho.Client, m paho.Message) { f.handleLink(m.Payload()) },
		TopicPeripheral: func(_ paho.Client, m paho.Message) { f.handlePeripheral(m.Payload()) },
		TopicBattery:    func(_ paho.Client, m paho.Message) { f.handleBattery(m.Payload()) },
	}
	for topic, handler := range subs {
		token := client.Subscribe(topic, 1, handler)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: subscribe %s timeout", topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: subscribe %s: %v", topic, err)
		}
	}

	f.replayPending()
}

func (f *RealFeed) onConnectionLost(_ paho.Client, err error) {
	log.Printf("mqtt: connection lost: %v", err)
	if f.tracker != nil {
		f.tracker.SetMQTTConnected(false)
	}
}

func (f *RealFeed) handlePower(payload []byte) {
	p, err := ParsePower(payload)
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}

	f.mu.Lock()
	f.powered = p.Powered
	f.mu.Unlock()

	f.bus.PublishPowerSource(events.PowerSourceChanged{Powered: p.Powered})
}

func (f *RealFeed) handleLink(payload []byte) {
	p, err := ParseLink(payload)
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}

	transport := device.TransportWireless
	if p.Transport == string(device.TransportUSB) {
		transport = device.TransportUSB
	}

	f.mu.Lock()
	f.transport = transport
	f.profile = device.Profile{
		Index:     p.Profile.Index,
		Connected: p.Profile.Connected,
		Open:      p.Profile.Open,
	}
	f.mu.Unlock()

	f.bus.PublishLink(events.LinkChanged{ProfileIndex: p.Profile.Index})
}

func (f *RealFeed) handlePeripheral(payload []byte) {
	p, err := ParsePeripheral(payload)
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}

	f.mu.Lock()
	f.periConnected = p.Connected
	f.mu.Unlock()

	f.bus.PublishPeripheralStatus(events.PeripheralStatusChanged{Connected: p.Connected})
}

func (f *RealFeed) handleBattery(payload []byte) {
	p, err := ParseBattery(payload)
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}

	f.mu.Lock()
	f.battery = p.Level
	f.mu.Unlock()

	f.bus.PublishBatteryLevel(events.BatteryLevelChanged{Level: p.Level})
}

// USBPowered implements device.Source.
func (f *RealFeed) USBPowered() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.powered
}

// Transport implements device.Source. Defaults to wireless before the
// first link sample.
func (f *RealFeed) Transport() device.Transport {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.transport == "" {
		return device.TransportWireless
	}
	return f.transport
}

// ActiveProfile implements device.Source.
func (f *RealFeed) ActiveProfile() device.Profile {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile
}

// PeripheralConnected implements device.Source.
func (f *RealFeed) PeripheralConnected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.periConnected
}

// BatteryLevel implements device.Source. Zero until the first retained
// battery sample arrives.
func (f *RealFeed) BatteryLevel() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.battery
}

// IsConnected implements ConnectionStatus.
func (f *RealFeed) IsConnected() bool {
	return f.client != nil && f.client.IsConnectionOpen()
}

// PublishSystem sends a lifecycle event, buffering it while disconnected.
func (f *RealFeed) PublishSystem(event SystemEvent) error {
	if f.client == nil || !f.client.IsConnectionOpen() {
		f.pendingMu.Lock()
		f.pending.push(event)
		f.pendingMu.Unlock()
		return nil
	}
	return f.publishSystem(event)
}

func (f *RealFeed) publishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once): shutdown events should survive a flaky link.
	token := f.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

func (f *RealFeed) replayPending() {
	f.pendingMu.Lock()
	buffered := f.pending.drainAll()
	f.pendingMu.Unlock()

	for _, event := range buffered {
		if err := f.publishSystem(event); err != nil {
			log.Printf("mqtt: replay %s event: %v", event.Event, err)
		}
	}
}

// Close disconnects from the broker.
func (f *RealFeed) Close() error {
	if f.client != nil {
		f.client.Disconnect(1000) // 1 second timeout
	}
	return nil
}
