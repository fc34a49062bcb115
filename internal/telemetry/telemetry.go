// Package telemetry publishes appliance lifecycle events over MQTT with
// abstraction for testing. The appliance spends part of its life offline
// by design, so the real publisher buffers messages while disconnected
// and replays them once the broker is reachable again.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/sweeney/wifi-clock/internal/status"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

// Topic is the MQTT topic for connectivity transition events.
const Topic = "appliance/wifi-clock/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "appliance/wifi-clock/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a connectivity transition to the broker.
	// Returns error if publishing fails (must not crash the loop).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is a connectivity state transition.
type Event struct {
	Timestamp time.Time
	From      wifi.State
	To        wifi.State
	Address   string
}

// SystemEvent is a lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason    string // e.g. "SIGTERM" (shutdown only)
	Snapshot  *status.Snapshot
	Retained  bool
}

// eventPayload is the wire shape for transition events.
type eventPayload struct {
	Wifi struct {
		Timestamp string `json:"timestamp"`
		From      string `json:"from"`
		To        string `json:"to"`
		Address   string `json:"address,omitempty"`
	} `json:"wifi"`
}

// FormatPayload creates the JSON payload for a transition event.
func FormatPayload(event Event) ([]byte, error) {
	var p eventPayload
	p.Wifi.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	p.Wifi.From = string(event.From)
	p.Wifi.To = string(event.To)
	p.Wifi.Address = event.Address
	return json.Marshal(p)
}

// systemPayload is the wire shape for system events.
type systemPayload struct {
	System struct {
		Timestamp string           `json:"timestamp"`
		Event     string           `json:"event"`
		Reason    string           `json:"reason,omitempty"`
		Status    *status.Snapshot `json:"status,omitempty"`
	} `json:"system"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	var p systemPayload
	p.System.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	p.System.Event = event.Event
	p.System.Reason = event.Reason
	p.System.Status = event.Snapshot
	return json.Marshal(p)
}
