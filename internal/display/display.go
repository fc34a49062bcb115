// Package display provides the panel sink and backlight control behind a
// hardware abstraction. The real implementation drives an ST7789 panel
// over SPI; the fake keeps the last frame in memory for tests and the
// desktop simulator.
package display

import "image"

// Panel dimensions.
const (
	Width  = 320
	Height = 170
)

// Panel receives composited frames and backlight updates. PushFrame is
// synchronous; SetBacklight is fire-and-forget (no error path, an
// unreachable backlight is logged and ignored).
type Panel interface {
	PushFrame(img *image.RGBA) error
	SetBacklight(level int)
	Close() error
}
