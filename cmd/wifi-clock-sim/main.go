// Command wifi-clock-sim runs the clock loop in a desktop window with
// fake hardware: the framebuffer renders into an ebiten window, Z and X
// stand in for the brightness buttons and the fake network associates
// shortly after startup. Useful for layout work away from the board.
package main

import (
	"flag"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

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

// keyReader maps keyboard keys onto the two active-low buttons.
type keyReader struct{}

func (keyReader) Read() (input.Level, input.Level, error) {
	down, up := input.High, input.High
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		down = input.Low
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		up = input.Low
	}
	return down, up, nil
}

func (keyReader) Close() error { return nil }

// localTimeSource serves the host's wall clock instead of querying NTP.
type localTimeSource struct{}

func (localTimeSource) QueryTime(time.Duration) (int64, error) {
	return time.Now().Unix(), nil
}

type game struct {
	app   *app.App
	panel *display.FakePanel
	img   *ebiten.Image
}

func (g *game) Update() error {
	g.app.Step()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame := g.panel.Snapshot()
	if g.img == nil {
		g.img = ebiten.NewImage(display.Width, display.Height)
	}
	g.img.WritePixels(frame.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(int, int) (int, int) {
	return display.Width, display.Height
}

func main() {
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	fontsDir := flag.String("fonts", "assets/fonts", "Font directory")
	framesDir := flag.String("frames", "assets/frames", "Animation frame directory")
	flag.Parse()

	cfg := app.DefaultConfig()
	cfg.SSID = "simnet"

	panel := display.NewFakePanel()

	store, err := assets.Load(*framesDir)
	if err != nil {
		store = assets.Generated(224, display.Height, 30)
	}
	faces, _ := surface.LoadFaces(*fontsDir)
	sfc := surface.New(panel, render.DefaultLayout(), store, faces)

	reader := keyReader{}
	buttons := input.NewDebouncer(input.Config{
		Step:    cfg.BrightnessStep,
		Min:     cfg.BrightnessMin,
		Max:     cfg.BrightnessMax,
		Initial: cfg.BrightnessInitial,
	}, reader, panel)

	stack := wifi.NewFakeStack("192.168.1.42")
	stack.AssociateAfter = 2 * time.Second
	machine := wifi.NewMachine(wifi.Config{
		SSID:                 cfg.SSID,
		CheckIntervalMs:      cfg.WifiCheckIntervalMs,
		ConnectTimeoutMs:     cfg.ConnectTimeoutMs,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		FailureCooldownMs:    cfg.FailureCooldownMs,
	}, stack)

	clock := clockwork.NewSystemClock()

	cache := timecache.New(timecache.Config{
		GMTOffsetSeconds: cfg.GMTOffsetSeconds,
		DSTEnabled:       cfg.DSTEnabled,
		DSTOffsetSeconds: cfg.DSTOffsetSeconds,
		Timezone:         cfg.Timezone,
		ResyncIntervalMs: cfg.ResyncIntervalMs,
		QueryTimeout:     time.Second,
	}, localTimeSource{})
	if err := cache.FirstSync(clock.NowMillis()); err != nil {
		log.Fatalf("fatal: first time sync: %v", err)
	}

	tracker := status.NewTracker(clock.NowMillis(), status.Config{
		SSID:             cfg.SSID,
		NTPHost:          "local",
		ResyncIntervalMs: cfg.ResyncIntervalMs,
		CheckIntervalMs:  cfg.WifiCheckIntervalMs,
		HTTPAddr:         *httpAddr,
	})

	redraw := &atomic.Bool{}
	if *httpAddr != "" {
		srv := web.New(tracker, sfc, redraw)
		go func() {
			if err := srv.Listen(*httpAddr); err != nil {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown()
	}

	sched := render.NewScheduler(sfc, store.Count(), cfg.FPSWindowMs)

	a := app.New(cfg, app.Deps{
		Clock:     clock,
		Buttons:   buttons,
		Machine:   machine,
		Cache:     cache,
		Scheduler: sched,
		Tracker:   tracker,
		Publisher: telemetry.NopPublisher{},
		Redraw:    redraw,
	})

	ebiten.SetWindowTitle("wifi-clock")
	ebiten.SetWindowSize(display.Width*2, display.Height*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(&game{app: a, panel: panel}); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
