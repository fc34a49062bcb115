package display

import (
	"image"
	"image/draw"
	"sync"
)

// FakePanel stores the last pushed frame and backlight level in memory.
// Safe for concurrent use: the loop pushes while the simulator reads.
type FakePanel struct {
	mu sync.Mutex

	frame     *image.RGBA
	backlight int
	pushes    int
	closed    bool

	// PushError, if set, is returned by PushFrame.
	PushError error
}

// NewFakePanel creates an empty FakePanel.
func NewFakePanel() *FakePanel {
	return &FakePanel{
		frame: image.NewRGBA(image.Rect(0, 0, Width, Height)),
	}
}

// PushFrame copies the frame.
func (p *FakePanel) PushFrame(img *image.RGBA) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PushError != nil {
		return p.PushError
	}
	draw.Draw(p.frame, p.frame.Bounds(), img, img.Bounds().Min, draw.Src)
	p.pushes++
	return nil
}

// SetBacklight records the level.
func (p *FakePanel) SetBacklight(level int) {
	p.mu.Lock()
	p.backlight = level
	p.mu.Unlock()
}

// Close marks the panel closed.
func (p *FakePanel) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the last pushed frame.
func (p *FakePanel) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := image.NewRGBA(p.frame.Bounds())
	copy(out.Pix, p.frame.Pix)
	return out
}

// Backlight returns the last recorded level.
func (p *FakePanel) Backlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlight
}

// Pushes returns the number of PushFrame calls.
func (p *FakePanel) Pushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushes
}

// Closed reports whether Close was called.
func (p *FakePanel) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
