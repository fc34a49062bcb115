// Command wifi-clock drives a 320x170 SPI clock display: it keeps WiFi
// associated, syncs time over NTP and renders only the screen regions
// whose content changed since the previous frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sweeney/wifi-clock/internal/app"
	"github.com/sweeney/wifi-clock/internal/assets"
	"github.com/sweeney/wifi-clock/internal/clockwork"
	"github.com/sweeney/wifi-clock/internal/display"
	"github.com/sweeney/wifi-clock/internal/input"
	"github.com/sweeney/wifi-clock/internal/render"
	"github.com/sweeney/wifi-clock/internal/status"
	"github.com/sweeney/wifi-clock/internal/surface"
	"github.com/sweeney/wifi-clock/internal/telemetry"
	"github.com/sweeney/wifi-clock/internal/timecache"
	"github.com/sweeney/wifi-clock/internal/web"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

// hardware collects the board-specific flags.
type hardware struct {
	spiPort       string
	resetPin      string
	dcPin         string
	backlightPin  string
	backlightPath string
	iface         string
	probeHost     string
	pinDown       int
	pinUp         int
	inputDevice   string
	keyDown       uint
	keyUp         uint
	assetsDir     string
	fontsDir      string
}

func main() {
	cfg := app.DefaultConfig()

	ssid := flag.String("ssid", "", "WiFi network name (required)")
	password := flag.String("password", "", "WiFi password")
	ntpHost := flag.String("ntp-host", cfg.NTPHost, "NTP server")
	timezone := flag.String("timezone", cfg.Timezone, "Timezone abbreviation shown in the header")
	gmtOffset := flag.Int("gmt-offset", cfg.GMTOffsetSeconds, "UTC offset in seconds")
	dst := flag.Bool("dst", false, "Apply the DST offset")
	dstOffset := flag.Int("dst-offset", cfg.DSTOffsetSeconds, "DST offset in seconds")
	resync := flag.Int64("resync-interval", cfg.ResyncIntervalMs, "NTP resync interval (ms)")
	wifiCheck := flag.Int64("wifi-check", cfg.WifiCheckIntervalMs, "Connectivity check interval (ms)")
	connectTimeout := flag.Int64("connect-timeout", cfg.ConnectTimeoutMs, "Per-attempt association deadline (ms)")
	maxAttempts := flag.Int("max-reconnects", cfg.MaxReconnectAttempts, "Reconnect attempts before giving up")
	cooldown := flag.Int64("failure-cooldown", cfg.FailureCooldownMs, "Wait after giving up before retrying (ms)")
	fpsWindow := flag.Int64("fps-window", cfg.FPSWindowMs, "FPS accounting window (ms)")
	heartbeat := flag.Int64("heartbeat", cfg.HeartbeatMs, "Telemetry heartbeat interval (ms, 0 to disable)")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable telemetry)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")

	hw := hardware{}
	flag.StringVar(&hw.spiPort, "spi", "SPI1.0", "SPI port name")
	flag.StringVar(&hw.resetPin, "reset-pin", "GPIO27", "Panel reset pin")
	flag.StringVar(&hw.dcPin, "dc-pin", "GPIO22", "Panel data/command pin")
	flag.StringVar(&hw.backlightPin, "backlight-pin", "GPIO23", "Backlight pin")
	flag.StringVar(&hw.backlightPath, "backlight-path", "", "sysfs backlight node (preferred over the pin)")
	flag.StringVar(&hw.iface, "iface", "wlan0", "Wireless interface")
	flag.StringVar(&hw.probeHost, "probe-host", "1.1.1.1", "Host pinged to confirm connectivity")
	flag.IntVar(&hw.pinDown, "pin-down", input.DefaultPinDown, "BCM pin for the brightness-down button")
	flag.IntVar(&hw.pinUp, "pin-up", input.DefaultPinUp, "BCM pin for the brightness-up button")
	flag.StringVar(&hw.inputDevice, "input-device", "", "evdev device name for the buttons (empty for raw GPIO)")
	flag.UintVar(&hw.keyDown, "key-down", uint(input.DefaultKeyDown), "evdev key code for brightness down")
	flag.UintVar(&hw.keyUp, "key-up", uint(input.DefaultKeyUp), "evdev key code for brightness up")
	flag.StringVar(&hw.assetsDir, "frames", "assets/frames", "Animation frame directory")
	flag.StringVar(&hw.fontsDir, "fonts", "assets/fonts", "Font directory")

	flag.Parse()

	if *ssid == "" {
		log.Fatal("fatal: -ssid is required")
	}

	cfg.SSID = *ssid
	cfg.Password = *password
	cfg.NTPHost = *ntpHost
	cfg.Timezone = *timezone
	cfg.GMTOffsetSeconds = *gmtOffset
	cfg.DSTEnabled = *dst
	cfg.DSTOffsetSeconds = *dstOffset
	cfg.ResyncIntervalMs = *resync
	cfg.WifiCheckIntervalMs = *wifiCheck
	cfg.ConnectTimeoutMs = *connectTimeout
	cfg.MaxReconnectAttempts = *maxAttempts
	cfg.FailureCooldownMs = *cooldown
	cfg.FPSWindowMs = *fpsWindow
	cfg.HeartbeatMs = *heartbeat

	if err := run(cfg, hw, *broker, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg app.Config, hw hardware, broker, httpAddr string) error {
	// Display first: every later failure gets reported on screen.
	panel, err := display.NewST7789(display.ST7789Config{
		SPIPort:       hw.spiPort,
		ResetPin:      hw.resetPin,
		DCPin:         hw.dcPin,
		BacklightPin:  hw.backlightPin,
		BacklightPath: hw.backlightPath,
	})
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer panel.Close()

	store, err := assets.Load(hw.assetsDir)
	if err != nil {
		log.Printf("animation frames unavailable (%v), using generated frames", err)
		store = assets.Generated(224, display.Height, 30)
	}

	faces, faceErrs := surface.LoadFaces(hw.fontsDir)
	for _, ferr := range faceErrs {
		log.Printf("font load: %v", ferr)
	}

	sfc := surface.New(panel, render.DefaultLayout(), store, faces)
	diag := func(msg string) {
		sfc.DrawText(render.RegionDiagnostic, msg, render.FontSmall)
		if err := sfc.Present(); err != nil {
			log.Printf("present error: %v", err)
		}
	}

	var reader input.Reader
	if hw.inputDevice != "" {
		reader, err = input.NewEvdevReader(hw.inputDevice, uint16(hw.keyDown), uint16(hw.keyUp))
	} else {
		reader, err = input.NewGPIOReader(hw.pinDown, hw.pinUp)
	}
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer reader.Close()
	buttons := input.NewDebouncer(input.Config{
		Step:    cfg.BrightnessStep,
		Min:     cfg.BrightnessMin,
		Max:     cfg.BrightnessMax,
		Initial: cfg.BrightnessInitial,
	}, reader, panel)

	stack := wifi.NewNMStack(hw.iface, hw.probeHost)
	defer stack.Close()
	machine := wifi.NewMachine(wifi.Config{
		SSID:                 cfg.SSID,
		Password:             cfg.Password,
		CheckIntervalMs:      cfg.WifiCheckIntervalMs,
		ConnectTimeoutMs:     cfg.ConnectTimeoutMs,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		FailureCooldownMs:    cfg.FailureCooldownMs,
	}, stack)

	clock := clockwork.NewSystemClock()

	// Block on first association. Without the network there is no time
	// to show, so a dead startup is fatal rather than silently wrong.
	diag(fmt.Sprintf("Connecting to %s ...", cfg.SSID))
	log.Printf("connecting to %q", cfg.SSID)
	deadline := clock.NowMillis() + 2*cfg.ConnectTimeoutMs
	for machine.Status().State != wifi.StateConnected {
		if clock.NowMillis() >= deadline {
			diag("WiFi connection failed")
			return fmt.Errorf("wifi: no association within %dms", 2*cfg.ConnectTimeoutMs)
		}
		machine.Tick(clock.NowMillis())
		time.Sleep(100 * time.Millisecond)
	}
	log.Printf("connected, address %s", machine.Status().Address)

	diag("Syncing time ...")
	cache := timecache.New(timecache.Config{
		GMTOffsetSeconds: cfg.GMTOffsetSeconds,
		DSTEnabled:       cfg.DSTEnabled,
		DSTOffsetSeconds: cfg.DSTOffsetSeconds,
		Timezone:         cfg.Timezone,
		ResyncIntervalMs: cfg.ResyncIntervalMs,
		QueryTimeout:     10 * time.Second,
	}, clockwork.NewNTPSource(cfg.NTPHost))
	if err := cache.FirstSync(clock.NowMillis()); err != nil {
		diag("Time sync failed")
		return fmt.Errorf("first time sync: %w", err)
	}
	log.Printf("time synced: %s", cache.Snapshot().TimeText)

	tracker := status.NewTracker(clock.NowMillis(), status.Config{
		SSID:             cfg.SSID,
		NTPHost:          cfg.NTPHost,
		ResyncIntervalMs: cfg.ResyncIntervalMs,
		CheckIntervalMs:  cfg.WifiCheckIntervalMs,
		HTTPAddr:         httpAddr,
		Broker:           broker,
	})

	var publisher telemetry.Publisher = telemetry.NopPublisher{}
	var connStatus telemetry.ConnectionStatus
	if broker != "" {
		p := telemetry.NewRealPublisher(broker)
		defer p.Close()
		publisher = p
		connStatus = p
	}

	snap := tracker.Snapshot()
	startup := telemetry.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Snapshot:  &snap,
		Retained:  true,
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	redraw := &atomic.Bool{}
	if httpAddr != "" {
		srv := web.New(tracker, sfc, redraw)
		go func() {
			if err := srv.Listen(httpAddr); err != nil {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown()
		log.Printf("http status server listening on %s", httpAddr)
	}

	sched := render.NewScheduler(sfc, store.Count(), cfg.FPSWindowMs)

	a := app.New(cfg, app.Deps{
		Clock:      clock,
		Buttons:    buttons,
		Machine:    machine,
		Cache:      cache,
		Scheduler:  sched,
		Tracker:    tracker,
		Publisher:  publisher,
		Redraw:     redraw,
		ConnStatus: connStatus,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("started: check=%dms timeout=%dms resync=%dms", cfg.WifiCheckIntervalMs,
		cfg.ConnectTimeoutMs, cfg.ResyncIntervalMs)

	for {
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			shutdown := telemetry.SystemEvent{
				Timestamp: time.Now(),
				Event:     "SHUTDOWN",
				Reason:    signalName(s),
				Retained:  true,
			}
			if err := publisher.PublishSystem(shutdown); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			panel.SetBacklight(0)
			return nil
		default:
			a.Step()
			time.Sleep(time.Millisecond)
		}
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
