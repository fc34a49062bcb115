// Package app runs the clock's cooperative main loop: poll buttons,
// tick connectivity, advance the cached time and render a frame. All
// state lives on one goroutine; hardware and broker access hide behind
// the injected interfaces.
package app

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/sweeney/wifi-clock/internal/clockwork"
	"github.com/sweeney/wifi-clock/internal/input"
	"github.com/sweeney/wifi-clock/internal/render"
	"github.com/sweeney/wifi-clock/internal/status"
	"github.com/sweeney/wifi-clock/internal/telemetry"
	"github.com/sweeney/wifi-clock/internal/timecache"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

// Config collects the tunables of the main loop.
type Config struct {
	SSID     string
	Password string

	NTPHost          string
	Timezone         string
	GMTOffsetSeconds int
	DSTEnabled       bool
	DSTOffsetSeconds int
	ResyncIntervalMs int64

	WifiCheckIntervalMs  int64
	ConnectTimeoutMs     int64
	MaxReconnectAttempts int
	FailureCooldownMs    int64

	FPSWindowMs int64

	BrightnessStep    int
	BrightnessMin     int
	BrightnessMax     int
	BrightnessInitial int

	HeartbeatMs int64
}

// DefaultConfig returns the appliance defaults.
func DefaultConfig() Config {
	return Config{
		NTPHost:              "pool.ntp.org",
		Timezone:             "SAST",
		GMTOffsetSeconds:     2 * 3600,
		DSTOffsetSeconds:     3600,
		ResyncIntervalMs:     600000,
		WifiCheckIntervalMs:  5000,
		ConnectTimeoutMs:     10000,
		MaxReconnectAttempts: 3,
		FailureCooldownMs:    120000,
		FPSWindowMs:          1000,
		BrightnessStep:       25,
		BrightnessMin:        100,
		BrightnessMax:        250,
		BrightnessInitial:    100,
		HeartbeatMs:          15 * 60 * 1000,
	}
}

// Deps are the collaborators the loop drives each step.
type Deps struct {
	Clock     clockwork.Clock
	Buttons   *input.Debouncer
	Machine   *wifi.Machine
	Cache     *timecache.Cache
	Scheduler *render.Scheduler
	Tracker   *status.Tracker
	Publisher telemetry.Publisher
	Redraw    *atomic.Bool

	// ConnStatus, when set, feeds the broker connection state into the
	// status tracker once per heartbeat.
	ConnStatus telemetry.ConnectionStatus
}

// App owns the per-step sequencing of the main loop.
type App struct {
	deps Deps

	heartbeatMs int64

	lastSecond       int64
	lastHeartbeat    int64
	pendingForceSync bool
	prevState        wifi.State
}

// New creates the loop driver. The first heartbeat fires one interval
// after start; the STARTUP event covers time zero.
func New(cfg Config, deps Deps) *App {
	now := deps.Clock.NowMillis()
	return &App{
		deps:          deps,
		heartbeatMs:   cfg.HeartbeatMs,
		lastSecond:    now,
		lastHeartbeat: now,
		prevState:     deps.Machine.Status().State,
	}
}

// Step runs one iteration of the cooperative loop. Called freely by the
// caller; internal gates keep the per-second and per-interval work from
// running more often than they should.
func (a *App) Step() {
	a.deps.Buttons.Poll()

	now := a.deps.Clock.NowMillis()
	a.deps.Machine.Tick(now)

	// A fresh association asks for a resync. The request must survive
	// until the next second boundary, where the cache tick runs.
	if a.deps.Machine.ConsumeResyncRequest() {
		a.pendingForceSync = true
	}

	if now-a.lastSecond >= 1000 {
		a.lastSecond = now
		a.deps.Cache.AdvanceSecond()
		a.deps.Cache.Tick(now, a.pendingForceSync)
		a.pendingForceSync = false
	}

	if a.deps.Machine.ConsumeRedrawRequest() {
		a.deps.Scheduler.ForceRedraw()
	}
	if a.deps.Redraw != nil && a.deps.Redraw.Swap(false) {
		a.deps.Scheduler.ForceRedraw()
	}

	snap := a.deps.Cache.Snapshot()
	st := a.deps.Machine.Status()

	if err := a.deps.Scheduler.Frame(now, snap, st); err != nil {
		log.Printf("frame error: %v", err)
	}

	a.deps.Tracker.Update(now, st, snap.TimeText, snap.DateText,
		snap.EpochSeconds, a.deps.Cache.Synced(), a.deps.Scheduler.FPS(), a.deps.Buttons.Level())

	a.publishTransition(st)
	a.publishHeartbeat(now)
}

func (a *App) publishTransition(st wifi.Status) {
	if st.State == a.prevState {
		return
	}
	event := telemetry.Event{
		Timestamp: time.Now(),
		From:      a.prevState,
		To:        st.State,
		Address:   st.Address,
	}
	a.prevState = st.State
	log.Printf("wifi: %s -> %s", event.From, event.To)
	if err := a.deps.Publisher.Publish(event); err != nil {
		log.Printf("publish error: %v", err)
	}
}

func (a *App) publishHeartbeat(now int64) {
	if a.heartbeatMs <= 0 || now-a.lastHeartbeat < a.heartbeatMs {
		return
	}
	a.lastHeartbeat = now
	if a.deps.ConnStatus != nil {
		a.deps.Tracker.SetMQTTConnected(a.deps.ConnStatus.IsConnected())
	}
	snap := a.deps.Tracker.Snapshot()
	event := telemetry.SystemEvent{
		Timestamp: time.Now(),
		Event:     "HEARTBEAT",
		Snapshot:  &snap,
	}
	if err := a.deps.Publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}
