// Command status-led drives the device status LED: it subscribes to device
// state on MQTT, reduces power/link/battery signals into blink patterns and
// plays the highest-priority active pattern on a GPIO line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/status-led/internal/device"
	"github.com/sweeney/status-led/internal/events"
	"github.com/sweeney/status-led/internal/led"
	"github.com/sweeney/status-led/internal/mqtt"
	"github.com/sweeney/status-led/internal/status"
	"github.com/sweeney/status-led/internal/web"
	"github.com/sweeney/status-led/internal/widget"
)

func main() {
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	clientID := flag.String("client-id", "status-led", "MQTT client ID")
	roleFlag := flag.String("role", "central", "Link role: central or peripheral")
	chip := flag.String("chip", led.DefaultChip, "GPIO chip device name")
	line := flag.Int("line", led.DefaultLine, "GPIO line offset for the LED")
	activeLow := flag.Bool("active-low", false, "LED is wired active-low")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	role, err := device.ParseRole(*roleFlag)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(*broker, *clientID, role, *chip, *line, *activeLow, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(broker, clientID string, role device.Role, chip string, line int, activeLow bool, httpAddr string) error {
	// Initialize the LED output
	driver, err := led.NewRealDriver(chip, line, activeLow)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer driver.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:     broker,
		Role:       string(role),
		Chip:       chip,
		Line:       line,
		DebounceMs: widget.DebounceDelay.Milliseconds(),
		HTTPAddr:   httpAddr,
	})

	// Initialize the MQTT state feed
	bus := events.New()
	feed, err := mqtt.NewRealFeed(broker, clientID, bus, tracker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer feed.Close()

	publishStartup(feed, tracker)

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	// Wire the widget: queue, reducers, scheduler, bootstrap.
	queue := widget.NewQueue(widget.QueueCapacity)
	w := widget.New(queue, feed, role, tracker)
	defer w.Attach(bus)()

	setter := led.NewSetter(driver)
	sched := widget.NewScheduler(queue, setter, tracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(widget.SchedulerStartDelay)
		sched.Run(ctx)
	}()
	go w.Bootstrap(ctx)

	log.Printf("started: broker=%s role=%s led=%s:%d http=%s", broker, role, chip, line, httpAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	s := <-sigCh
	log.Printf("received %v, shutting down", s)
	publishShutdown(feed, feed, tracker, signalName(s))
	return nil
}

// publishStartup sends the retained STARTUP event with a status snapshot.
func publishStartup(publisher mqtt.Publisher, tracker *status.Tracker) {
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}
}

// publishShutdown sends the retained SHUTDOWN event with a final snapshot.
func publishShutdown(publisher mqtt.Publisher, conn mqtt.ConnectionStatus, tracker *status.Tracker, reason string) {
	if conn != nil {
		tracker.SetMQTTConnected(conn.IsConnected())
	}
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
