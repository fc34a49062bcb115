package surface

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/sweeney/wifi-clock/internal/assets"
	"github.com/sweeney/wifi-clock/internal/display"
	"github.com/sweeney/wifi-clock/internal/render"
)

func countColor(img *image.RGBA, r image.Rectangle, c color.RGBA) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func testSurface() (*RGBA, *display.FakePanel) {
	panel := display.NewFakePanel()
	s := New(panel, render.DefaultLayout(), assets.Generated(224, display.Height, 2), BasicFaces())
	return s, panel
}

func TestPresentPushesFrame(t *testing.T) {
	s, panel := testSurface()

	if err := s.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if panel.Pushes() != 1 {
		t.Errorf("expected 1 push, got %d", panel.Pushes())
	}
}

func TestDrawTextChangesTimeRegion(t *testing.T) {
	s, _ := testSurface()
	before := s.Snapshot()

	s.DrawText(render.RegionTime, "12:30", render.FontClock)
	after := s.Snapshot()

	r := render.DefaultLayout()[render.RegionTime]
	changed := false
	for y := r.Min.Y; y < r.Max.Y && !changed; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if before.RGBAAt(x, y) != after.RGBAAt(x, y) {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Error("expected DrawText to modify the time region")
	}
}

func TestDrawTextLeavesOtherRegionsAlone(t *testing.T) {
	s, _ := testSurface()
	before := s.Snapshot()

	s.DrawText(render.RegionTime, "12:30", render.FontClock)
	after := s.Snapshot()

	r := render.DefaultLayout()[render.RegionAnimation]
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if before.RGBAAt(x, y) != after.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside the time region changed", x, y)
			}
		}
	}
}

func TestDrawImageBlitsFrame(t *testing.T) {
	s, _ := testSurface()

	s.DrawImage(render.RegionAnimation, 0)
	snap := s.Snapshot()

	r := render.DefaultLayout()[render.RegionAnimation]
	// The generated frames are never black, so the region must have
	// visible content after the blit.
	if snap.RGBAAt(r.Min.X+1, r.Min.Y+1) == (color.RGBA{0, 0, 0, 255}) {
		t.Error("expected the animation frame blitted into the region")
	}
}

func TestFillRegionUniform(t *testing.T) {
	s, _ := testSurface()
	red := color.RGBA{200, 0, 0, 255}

	s.FillRegion(render.RegionAnimation, red)
	snap := s.Snapshot()

	r := render.DefaultLayout()[render.RegionAnimation]
	if got := snap.RGBAAt(r.Min.X+5, r.Min.Y+5); got != red {
		t.Errorf("expected uniform fill %v, got %v", red, got)
	}
}

func TestFillBadgeDrawsStatusDot(t *testing.T) {
	s, _ := testSurface()
	green := color.RGBA{70, 235, 145, 255}

	s.FillRegion(render.RegionWifiBadge, green)
	snap := s.Snapshot()

	r := render.DefaultLayout()[render.RegionWifiBadge]
	if got := snap.RGBAAt(r.Max.X-14, r.Min.Y+10); got != green {
		t.Errorf("expected the dot center in %v, got %v", green, got)
	}
	// Away from the dot the badge chrome is a black panel, not green.
	if got := snap.RGBAAt(r.Min.X+4, r.Max.Y-4); got == green {
		t.Error("expected the badge body not flooded with the dot color")
	}
}

// The header and FPS regions sit inside the animation rect; a cached-clean
// frame redraws only the animation, and the overlapping regions must still
// be in the composited output.
func TestAnimationRedrawKeepsOverlappingRegions(t *testing.T) {
	s, _ := testSurface()
	layout := render.DefaultLayout()

	s.DrawImage(render.RegionAnimation, 0)
	s.DrawText(render.RegionHeader, "WiFi Clock (SAST)", render.FontLabel)
	s.DrawText(render.RegionFPS, "FPS 30", render.FontSmall)
	first := s.Snapshot()

	headerWhite := countColor(first, layout[render.RegionHeader], colorWhite)
	fpsWhite := countColor(first, layout[render.RegionFPS], colorWhite)
	if headerWhite == 0 || fpsWhite == 0 {
		t.Fatalf("expected white chrome in the overlay regions, got header=%d fps=%d",
			headerWhite, fpsWhite)
	}

	// Next frame: only the animation changes.
	s.DrawImage(render.RegionAnimation, 1)
	second := s.Snapshot()

	if got := countColor(second, layout[render.RegionHeader], colorWhite); got != headerWhite {
		t.Errorf("expected the header to survive the animation redraw: %d white pixels, got %d",
			headerWhite, got)
	}
	if got := countColor(second, layout[render.RegionFPS], colorWhite); got != fpsWhite {
		t.Errorf("expected the fps counter to survive the animation redraw: %d white pixels, got %d",
			fpsWhite, got)
	}
}

func TestDrawingDismissesDiagnosticOverlay(t *testing.T) {
	s, _ := testSurface()
	red := color.RGBA{200, 0, 0, 255}

	s.FillRegion(render.RegionDiagnostic, red)
	if got := s.Snapshot().RGBAAt(5, 5); got != red {
		t.Fatalf("expected the diagnostic overlay to cover the screen, got %v", got)
	}

	// The first regular draw ends the startup diagnostic phase.
	s.DrawText(render.RegionTime, "12:30", render.FontClock)
	if got := s.Snapshot().RGBAAt(5, 5); got == red {
		t.Error("expected the diagnostic overlay dismissed by a regular draw")
	}
}

func TestUnknownRegionIgnored(t *testing.T) {
	s, _ := testSurface()
	before := s.Snapshot()

	s.DrawText(render.Region("bogus"), "x", render.FontSmall)
	after := s.Snapshot()

	if !bytes.Equal(before.Pix, after.Pix) {
		t.Error("expected a draw to an unknown region to be a no-op")
	}
}

func TestEncodePNG(t *testing.T) {
	s, _ := testSurface()

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if buf.Len() < 8 || string(buf.Bytes()[1:4]) != "PNG" {
		t.Error("expected a PNG payload")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := testSurface()

	snap := s.Snapshot()
	s.FillRegion(render.RegionAnimation, color.RGBA{255, 255, 255, 255})

	r := render.DefaultLayout()[render.RegionAnimation]
	if snap.RGBAAt(r.Min.X+1, r.Min.Y+1) == (color.RGBA{255, 255, 255, 255}) {
		t.Error("expected the snapshot isolated from later drawing")
	}
}
