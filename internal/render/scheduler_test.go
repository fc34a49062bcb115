package render

import (
	"errors"
	"testing"

	"github.com/sweeney/wifi-clock/internal/timecache"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

func testSnapshot() timecache.Snapshot {
	return timecache.Snapshot{
		TimeText:    "12:30",
		SecondsText: "00",
		DateText:    "26 Aug '26",
		WeekdayText: "WED",
		HeaderText:  "WiFi Clock (SAST)",
	}
}

func connectedStatus() wifi.Status {
	return wifi.Status{State: wifi.StateConnected, Address: "192.168.1.50"}
}

func TestFirstFrameDrawsEverything(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	if err := s.Frame(0, testSnapshot(), connectedStatus()); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	for _, region := range []Region{
		RegionAnimation, RegionHeader, RegionTime, RegionDate,
		RegionSeconds, RegionWeekday, RegionWifiBadge, RegionFPS,
	} {
		if len(rec.CallsFor(region)) == 0 {
			t.Errorf("expected a draw for %s on the first frame", region)
		}
	}
	if rec.Presents != 1 {
		t.Errorf("expected 1 present, got %d", rec.Presents)
	}
}

func TestQuiescentFrameDrawsOnlyAnimation(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	snap := testSnapshot()
	st := connectedStatus()
	if err := s.Frame(0, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	rec.Reset()

	// Nothing changed: only the animation and FPS bookkeeping run, and
	// the FPS text itself is cached too.
	if err := s.Frame(10, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if got := len(rec.CallsFor(RegionAnimation)); got != 1 {
		t.Errorf("expected the animation to draw every frame, got %d calls", got)
	}
	for _, region := range []Region{
		RegionHeader, RegionTime, RegionDate, RegionSeconds,
		RegionWeekday, RegionWifiBadge, RegionFPS,
	} {
		if got := len(rec.CallsFor(region)); got != 0 {
			t.Errorf("expected no draw for unchanged %s, got %d calls", region, got)
		}
	}
	if rec.Presents != 1 {
		t.Errorf("expected present on every frame, got %d", rec.Presents)
	}
}

func TestChangedRegionRedraws(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	snap := testSnapshot()
	st := connectedStatus()
	if err := s.Frame(0, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	rec.Reset()

	snap.SecondsText = "01"
	if err := s.Frame(10, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	if got := len(rec.CallsFor(RegionSeconds)); got != 1 {
		t.Errorf("expected the seconds region to redraw, got %d calls", got)
	}
	if got := len(rec.CallsFor(RegionTime)); got != 0 {
		t.Errorf("expected the time region to stay cached, got %d calls", got)
	}
}

func TestForceRedrawIsOneShot(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	snap := testSnapshot()
	st := connectedStatus()
	if err := s.Frame(0, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	s.ForceRedraw()
	rec.Reset()
	if err := s.Frame(10, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := len(rec.CallsFor(RegionTime)); got != 1 {
		t.Errorf("expected the forced frame to redraw time, got %d calls", got)
	}

	// The flag was consumed: the next frame is quiescent again.
	rec.Reset()
	if err := s.Frame(20, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := len(rec.CallsFor(RegionTime)); got != 0 {
		t.Errorf("expected no redraw after the forced frame, got %d calls", got)
	}
}

func TestAnimationAdvancesAndWraps(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 3, 1000)

	snap := testSnapshot()
	st := connectedStatus()
	want := []int{0, 1, 2, 0}
	for i, frame := range want {
		if err := s.Frame(int64(i), snap, st); err != nil {
			t.Fatalf("Frame %d failed: %v", i, err)
		}
		calls := rec.CallsFor(RegionAnimation)
		if got := calls[len(calls)-1].Frame; got != frame {
			t.Errorf("frame %d: expected animation index %d, got %d", i, frame, got)
		}
	}
}

func TestBadgeRedrawsOnStateChange(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	st := wifi.Status{State: wifi.StateConnecting}
	if err := s.Frame(0, testSnapshot(), st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	rec.Reset()

	st = connectedStatus()
	if err := s.Frame(10, testSnapshot(), st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	calls := rec.CallsFor(RegionWifiBadge)
	if len(calls) != 2 {
		t.Fatalf("expected fill+text for the badge, got %d calls", len(calls))
	}
	if calls[0].Op != OpFill || calls[0].Color != colorOnline {
		t.Errorf("expected online fill, got %+v", calls[0])
	}
	if calls[1].Op != OpText || calls[1].Value != "192.168.1.50" {
		t.Errorf("expected the address as badge text, got %+v", calls[1])
	}
}

func TestBadgeShowsStateWhenNotConnected(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	st := wifi.Status{State: wifi.StateFailed}
	if err := s.Frame(0, testSnapshot(), st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	calls := rec.CallsFor(RegionWifiBadge)
	if len(calls) != 2 {
		t.Fatalf("expected fill+text for the badge, got %d calls", len(calls))
	}
	if calls[0].Color != colorFailed {
		t.Errorf("expected failed fill color, got %+v", calls[0])
	}
	if calls[1].Value != string(wifi.StateFailed) {
		t.Errorf("expected the state as badge text, got %q", calls[1].Value)
	}
}

func TestFPSWindowAccounting(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	snap := testSnapshot()
	st := connectedStatus()

	// 30 frames spread over exactly one window.
	for i := 0; i < 30; i++ {
		now := int64(i+1) * 1000 / 30
		if err := s.Frame(now, snap, st); err != nil {
			t.Fatalf("Frame %d failed: %v", i, err)
		}
	}

	if got := s.FPS(); got != 30 {
		t.Errorf("expected 30 FPS over a 1000ms window, got %d", got)
	}
}

func TestFPSHoldsBetweenWindows(t *testing.T) {
	rec := NewRecorder()
	s := NewScheduler(rec, 10, 1000)

	snap := testSnapshot()
	st := connectedStatus()
	if err := s.Frame(1000, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	first := s.FPS()

	// Mid-window frames must not disturb the published value.
	if err := s.Frame(1500, snap, st); err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if got := s.FPS(); got != first {
		t.Errorf("expected FPS to hold mid-window, got %d (was %d)", got, first)
	}
}

func TestPresentErrorPropagates(t *testing.T) {
	rec := NewRecorder()
	rec.PresentError = errors.New("spi: transfer failed")
	s := NewScheduler(rec, 10, 1000)

	if err := s.Frame(0, testSnapshot(), connectedStatus()); err == nil {
		t.Error("expected the present error to propagate")
	}
}
