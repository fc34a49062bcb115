package render

import (
	"image/color"
	"strconv"

	"github.com/sweeney/wifi-clock/internal/timecache"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

// Badge colors keyed off the connectivity state.
var (
	colorOnline  = color.RGBA{70, 235, 145, 255}
	colorPending = color.RGBA{255, 229, 0, 255}
	colorFailed  = color.RGBA{226, 72, 38, 255}
	colorOffline = color.RGBA{98, 116, 130, 255}
)

// Scheduler tracks per-region render caches and FPS accounting.
type Scheduler struct {
	surface Surface

	cache map[Region]string
	force bool

	animFrame  int
	animFrames int

	frameCount  int
	windowStart int64
	windowMs    int64
	fps         int
}

// NewScheduler creates a Scheduler. animFrames is the animation loop
// length; windowMs the FPS accounting window. Every region starts with an
// empty sentinel cache, so the first frame is dirty everywhere.
func NewScheduler(surface Surface, animFrames int, windowMs int64) *Scheduler {
	if animFrames < 1 {
		animFrames = 1
	}
	return &Scheduler{
		surface:    surface,
		cache:      make(map[Region]string),
		force:      true, // first frame ever redraws everything
		animFrames: animFrames,
		windowMs:   windowMs,
	}
}

// ForceRedraw marks every region dirty for exactly one upcoming frame.
func (s *Scheduler) ForceRedraw() {
	s.force = true
}

// FPS returns the last computed frames-per-second value.
func (s *Scheduler) FPS() int {
	return s.fps
}

// Frame renders one frame within the loop's budget: the animation region
// unconditionally, every other region only if its value changed since the
// last draw. The force flag is consumed by this single frame.
func (s *Scheduler) Frame(now int64, t timecache.Snapshot, w wifi.Status) error {
	force := s.force
	s.force = false

	s.surface.DrawImage(RegionAnimation, s.animFrame)
	s.animFrame = (s.animFrame + 1) % s.animFrames

	s.drawText(RegionHeader, t.HeaderText, FontSmall, force)
	s.drawText(RegionTime, t.TimeText, FontClock, force)
	s.drawText(RegionDate, t.DateText, FontSmall, force)
	s.drawText(RegionSeconds, t.SecondsText, FontSeconds, force)
	s.drawText(RegionWeekday, t.WeekdayText, FontLabel, force)
	s.drawBadge(w, force)

	s.accountFrame(now)
	s.drawText(RegionFPS, "FPS "+strconv.Itoa(s.fps), FontSmall, force)

	return s.surface.Present()
}

// drawText redraws the region only when dirty, then records what was drawn.
func (s *Scheduler) drawText(region Region, value string, font Font, force bool) {
	if !force && s.cache[region] == value {
		return
	}
	s.surface.DrawText(region, value, font)
	s.cache[region] = value
}

// drawBadge derives the indicator color and label purely from the
// connectivity status. Both are keyed by the same cache value, so the
// badge redraws only when the status snapshot actually changed.
func (s *Scheduler) drawBadge(w wifi.Status, force bool) {
	value := badgeValue(w)
	if !force && s.cache[RegionWifiBadge] == value {
		return
	}
	s.surface.FillRegion(RegionWifiBadge, badgeColor(w.State))
	s.surface.DrawText(RegionWifiBadge, value, FontSmall)
	s.cache[RegionWifiBadge] = value
}

// accountFrame counts the frame and recomputes FPS when the window elapses.
// Between recomputations the previous value holds.
func (s *Scheduler) accountFrame(now int64) {
	s.frameCount++
	if elapsed := now - s.windowStart; elapsed >= s.windowMs && elapsed > 0 {
		s.fps = int(int64(s.frameCount) * 1000 / elapsed)
		s.frameCount = 0
		s.windowStart = now
	}
}

func badgeValue(w wifi.Status) string {
	if w.State == wifi.StateConnected && w.Address != "" {
		return w.Address
	}
	return string(w.State)
}

func badgeColor(st wifi.State) color.RGBA {
	switch st {
	case wifi.StateConnected:
		return colorOnline
	case wifi.StateConnecting, wifi.StateReconnecting:
		return colorPending
	case wifi.StateFailed:
		return colorFailed
	default:
		return colorOffline
	}
}
