// Package surface implements the drawing collaborator. Each region draws
// into its own sprite buffer; the region knows its chrome (rounded-rect
// borders, filled plates, the connectivity dot), and the render scheduler
// only decides WHEN a region redraws. Present composites every sprite
// back-to-front onto the shared framebuffer and pushes it to the panel, so
// regions layered over the animation (header, FPS counter) survive the
// animation's per-frame redraw.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/sweeney/wifi-clock/internal/assets"
	"github.com/sweeney/wifi-clock/internal/display"
	"github.com/sweeney/wifi-clock/internal/render"
)

var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorBlack  = color.RGBA{0, 0, 0, 255}
	colorPurple = color.RGBA{96, 8, 104, 255}
)

// composeOrder is the back-to-front layering: the animation fills the
// background, the chrome regions sit on top, the diagnostic overlay covers
// everything.
var composeOrder = []render.Region{
	render.RegionAnimation,
	render.RegionHeader,
	render.RegionTime,
	render.RegionSeconds,
	render.RegionDate,
	render.RegionWeekday,
	render.RegionWifiBadge,
	render.RegionFPS,
	render.RegionDiagnostic,
}

// RGBA is a Surface keeping one sprite buffer per drawn region plus the
// composited framebuffer. The mutex guards both against concurrent snapshot
// reads from the HTTP server; all drawing happens on the loop goroutine.
type RGBA struct {
	mu      sync.Mutex
	img     *image.RGBA
	sprites map[render.Region]*image.RGBA
	layout  render.Layout
	faces   FaceSet
	store   *assets.Store
	panel   display.Panel
}

// New creates a surface over the given panel with the given layout,
// animation store and font faces.
func New(panel display.Panel, layout render.Layout, store *assets.Store, faces FaceSet) *RGBA {
	s := &RGBA{
		img:     image.NewRGBA(image.Rect(0, 0, display.Width, display.Height)),
		sprites: make(map[render.Region]*image.RGBA),
		layout:  layout,
		faces:   faces,
		store:   store,
		panel:   panel,
	}
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{colorBlack}, image.Point{}, draw.Src)
	return s
}

// sprite returns the region's buffer, allocating it on first use. Buffers
// are origin-anchored (compose places them at the layout rect); the
// returned rect is the buffer's local bounds, which all placement math
// works in. Drawing any region other than the diagnostic dismisses the
// diagnostic overlay.
func (s *RGBA) sprite(region render.Region) (*image.RGBA, image.Rectangle, bool) {
	r, ok := s.layout[region]
	if !ok {
		return nil, image.Rectangle{}, false
	}
	if region != render.RegionDiagnostic {
		delete(s.sprites, render.RegionDiagnostic)
	}
	buf := s.sprites[region]
	if buf == nil {
		buf = image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		s.sprites[region] = buf
	}
	return buf, buf.Bounds(), true
}

// DrawText renders the region's chrome and the given value.
func (s *RGBA) DrawText(region render.Region, value string, f render.Font) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, r, ok := s.sprite(region)
	if !ok {
		return
	}

	switch region {
	case render.RegionTime, render.RegionDate:
		// Filled white plate with purple text, like the original clock.
		s.clear(buf, r)
		s.roundRect(buf, r, colorWhite, colorWhite)
		s.centerText(buf, r, value, f, colorPurple)

	case render.RegionHeader:
		s.clear(buf, r)
		s.roundRect(buf, r, colorBlack, colorWhite)
		s.leftText(buf, r, value, f, colorWhite)

	case render.RegionWifiBadge:
		// FillRegion drew the chrome and status dot; add the label.
		s.textAt(buf, "WIFI:", f, colorWhite, r.Min.X+8, r.Min.Y+4)
		s.textAt(buf, value, f, colorWhite, r.Min.X+8, r.Min.Y+(r.Dy()/2)+2)

	case render.RegionDiagnostic:
		s.clear(buf, r)
		s.diagnostic(buf, r, value, f)

	default: // seconds, weekday, fps: bordered black panel, centered text
		s.clear(buf, r)
		s.roundRect(buf, r, colorBlack, colorWhite)
		s.centerText(buf, r, value, f, colorWhite)
	}
}

// DrawImage blits the given animation frame into the region, clipped.
func (s *RGBA) DrawImage(region render.Region, frameIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil || s.store.Count() == 0 {
		return
	}
	buf, r, ok := s.sprite(region)
	if !ok {
		return
	}
	frame := s.store.Frame(frameIndex)
	draw.Draw(buf, r, frame, frame.Bounds().Min, draw.Src)
}

// FillRegion paints the region in the given color. The connectivity badge
// interprets the color as its status dot instead of a flat fill.
func (s *RGBA) FillRegion(region render.Region, c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, r, ok := s.sprite(region)
	if !ok {
		return
	}
	if region == render.RegionWifiBadge {
		s.clear(buf, r)
		s.roundRect(buf, r, colorBlack, colorWhite)
		s.statusDot(buf, r, c)
		return
	}
	draw.Draw(buf, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// compose flattens the sprites back-to-front onto the framebuffer at their
// layout rects. Regions never drawn stay black backdrop.
func (s *RGBA) compose() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{colorBlack}, image.Point{}, draw.Src)
	for _, region := range composeOrder {
		buf := s.sprites[region]
		if buf == nil {
			continue
		}
		draw.Draw(s.img, s.layout[region], buf, image.Point{}, draw.Src)
	}
}

// Present composites all region sprites and pushes the framebuffer to the
// panel.
func (s *RGBA) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compose()
	return s.panel.PushFrame(s.img)
}

// Snapshot returns a copy of the composited framebuffer.
func (s *RGBA) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compose()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// EncodePNG writes the composited framebuffer as PNG.
func (s *RGBA) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Snapshot())
}

func (s *RGBA) clear(dst *image.RGBA, r image.Rectangle) {
	draw.Draw(dst, r, &image.Uniform{colorBlack}, image.Point{}, draw.Src)
}

// roundRect draws a filled, stroked rounded rectangle over the region.
func (s *RGBA) roundRect(dst *image.RGBA, r image.Rectangle, fill, stroke color.RGBA) {
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetFillColor(fill)
	gc.SetStrokeColor(stroke)
	gc.SetLineWidth(1)
	draw2dkit.RoundedRectangle(gc,
		float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5,
		float64(r.Max.X)-0.5, float64(r.Max.Y)-0.5,
		6, 6)
	gc.FillStroke()
}

// statusDot draws the colored connectivity circle with a white outline.
func (s *RGBA) statusDot(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetFillColor(c)
	gc.SetStrokeColor(colorWhite)
	gc.SetLineWidth(1)
	draw2dkit.Circle(gc, float64(r.Max.X-14), float64(r.Min.Y+10), 5)
	gc.FillStroke()
}

func (s *RGBA) centerText(dst *image.RGBA, r image.Rectangle, text string, f render.Font, c color.RGBA) {
	face := s.faces.Face(f)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	w := d.MeasureString(text).Round()
	m := face.Metrics()
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-m.Ascent.Round()-m.Descent.Round())/2 + m.Ascent.Round()
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func (s *RGBA) leftText(dst *image.RGBA, r image.Rectangle, text string, f render.Font, c color.RGBA) {
	face := s.faces.Face(f)
	m := face.Metrics()
	y := r.Min.Y + (r.Dy()-m.Ascent.Round()-m.Descent.Round())/2 + m.Ascent.Round()
	s.textAt(dst, text, f, c, r.Min.X+8, y-m.Ascent.Round())
}

// textAt draws text with (x, y) as the top-left of the glyph box.
func (s *RGBA) textAt(dst *image.RGBA, text string, f render.Font, c color.RGBA, x, y int) {
	face := s.faces.Face(f)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Round())
	d.DrawString(text)
}

// diagnostic renders a multi-line message, used for the fatal startup
// screens ("connection failed", "time sync failed").
func (s *RGBA) diagnostic(dst *image.RGBA, r image.Rectangle, msg string, f render.Font) {
	face := s.faces.Face(f)
	lineHeight := face.Metrics().Ascent.Round() + face.Metrics().Descent.Round() + 4
	y := r.Min.Y + 12
	for _, line := range strings.Split(msg, "\n") {
		s.textAt(dst, line, f, colorWhite, r.Min.X+10, y)
		y += lineHeight
	}
}
