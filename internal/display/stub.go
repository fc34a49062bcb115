//go:build !linux

package display

import (
	"errors"
	"image"
)

// ST7789Config selects the SPI port, control pins and panel offsets.
type ST7789Config struct {
	SPIPort       string
	ResetPin      string
	DCPin         string
	BacklightPin  string
	BacklightPath string
	RowOffset     int
	ColOffset     int
}

// ST7789 is not available off Linux.
type ST7789 struct{}

// NewST7789 returns an error off Linux.
func NewST7789(cfg ST7789Config) (*ST7789, error) {
	return nil, errors.New("display: spi panel not supported on this platform (requires Linux)")
}

// PushFrame is not implemented off Linux.
func (d *ST7789) PushFrame(img *image.RGBA) error {
	return errors.New("display: not supported")
}

// SetBacklight is not implemented off Linux.
func (d *ST7789) SetBacklight(level int) {}

// Close is not implemented off Linux.
func (d *ST7789) Close() error {
	return nil
}
