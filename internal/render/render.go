// Package render orchestrates per-frame drawing. Each screen region caches
// the value it last drew; the drawing collaborator is invoked only for
// regions whose value changed, except the animation region which changes
// every frame by construction. The scheduler also measures frames per
// second over a fixed accounting window.
package render

import (
	"image"
	"image/color"
)

// Region identifies one visually independent screen area.
type Region string

const (
	RegionAnimation  Region = "animation"
	RegionHeader     Region = "header"
	RegionTime       Region = "time"
	RegionDate       Region = "date"
	RegionSeconds    Region = "seconds"
	RegionWeekday    Region = "weekday"
	RegionWifiBadge  Region = "wifi"
	RegionFPS        Region = "fps"
	RegionDiagnostic Region = "diagnostic"
)

// Font selects one of the faces the drawing collaborator provides.
type Font string

const (
	FontClock   Font = "clock"
	FontSeconds Font = "seconds"
	FontLabel   Font = "label"
	FontSmall   Font = "small"
)

// Surface is the drawing collaborator contract. Calls are synchronous and
// affect only the addressed region; Present composites all regions
// back-to-front onto the shared framebuffer and pushes it out.
type Surface interface {
	DrawText(region Region, value string, font Font)
	DrawImage(region Region, frameIndex int)
	FillRegion(region Region, c color.RGBA)
	Present() error
}

// Layout maps each region to its place on the 320x170 panel. Geometry is
// data, kept apart from the scheduling logic; the drawing collaborator
// receives it at construction.
type Layout map[Region]image.Rectangle

// DefaultLayout returns the appliance's fixed screen geometry. The clock
// block sits on the right, the animation fills the left.
func DefaultLayout() Layout {
	const clockX, clockY = 231, 8
	return Layout{
		RegionAnimation:  image.Rect(0, 0, 224, 170),
		RegionHeader:     image.Rect(clockX-224, clockY, clockX-224+218, clockY+26),
		RegionTime:       image.Rect(clockX, clockY, clockX+80, clockY+26),
		RegionSeconds:    image.Rect(clockX+4, clockY+30, clockX+84, clockY+70),
		RegionDate:       image.Rect(clockX, clockY+70, clockX+80, clockY+86),
		RegionWeekday:    image.Rect(clockX, clockY+92, clockX+80, clockY+126),
		RegionWifiBadge:  image.Rect(clockX, clockY+131, clockX+80, clockY+162),
		RegionFPS:        image.Rect(5, 145, 55, 165),
		RegionDiagnostic: image.Rect(0, 0, 320, 170),
	}
}
