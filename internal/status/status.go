// Package status provides a thread-safe snapshot of appliance state. The
// loop writes after every frame; the HTTP server and telemetry heartbeat
// read. It exists so those readers never touch component state directly.
package status

import (
	"sync"

	"github.com/sweeney/wifi-clock/internal/wifi"
)

// Config is the subset of daemon configuration worth displaying.
type Config struct {
	SSID             string
	NTPHost          string
	ResyncIntervalMs int64
	CheckIntervalMs  int64
	HTTPAddr         string
	Broker           string
}

// Snapshot is a point-in-time view of appliance state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	WifiState         wifi.State
	Address           string
	ReconnectAttempts int

	EpochSeconds int64
	TimeText     string
	DateText     string
	Synced       bool

	FPS        int
	Brightness int

	MQTTConnected bool

	StartMillis int64
	NowMillis   int64

	Config Config
}

// UptimeMillis returns milliseconds since the appliance started.
func (s Snapshot) UptimeMillis() int64 {
	return s.NowMillis - s.StartMillis
}

// Tracker holds the snapshot behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start instant and config.
func NewTracker(startMillis int64, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartMillis: startMillis,
			Config:      cfg,
		},
	}
}

// Update replaces the mutable fields. Called from the loop every frame.
func (t *Tracker) Update(now int64, w wifi.Status, timeText, dateText string, epoch int64, synced bool, fps, brightness int) {
	t.mu.Lock()
	t.snap.NowMillis = now
	t.snap.WifiState = w.State
	t.snap.Address = w.Address
	t.snap.ReconnectAttempts = w.ReconnectAttempts
	t.snap.TimeText = timeText
	t.snap.DateText = dateText
	t.snap.EpochSeconds = epoch
	t.snap.Synced = synced
	t.snap.FPS = fps
	t.snap.Brightness = brightness
	t.mu.Unlock()
}

// SetMQTTConnected records the broker connection state.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
