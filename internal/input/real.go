//go:build linux

package input

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOReader reads the buttons from the Linux GPIO character device.
type GPIOReader struct {
	chip     *gpiocdev.Chip
	downLine *gpiocdev.Line
	upLine   *gpiocdev.Line
}

// NewGPIOReader requests the two button lines as pulled-up inputs, matching
// the buttons' active-low wiring.
func NewGPIOReader(pinDown, pinUp int) (*GPIOReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	downLine, err := chip.RequestLine(pinDown, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request down pin %d: %w", pinDown, err)
	}

	upLine, err := chip.RequestLine(pinUp, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		downLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request up pin %d: %w", pinUp, err)
	}

	return &GPIOReader{chip: chip, downLine: downLine, upLine: upLine}, nil
}

// Read samples both lines once.
func (r *GPIOReader) Read() (Level, Level, error) {
	downRaw, err := r.downLine.Value()
	if err != nil {
		return High, High, fmt.Errorf("read down pin: %w", err)
	}
	upRaw, err := r.upLine.Value()
	if err != nil {
		return High, High, fmt.Errorf("read up pin: %w", err)
	}
	return toLevel(downRaw), toLevel(upRaw), nil
}

// Close releases the GPIO lines and chip.
func (r *GPIOReader) Close() error {
	var errs []error
	if r.downLine != nil {
		if err := r.downLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close down pin: %w", err))
		}
	}
	if r.upLine != nil {
		if err := r.upLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close up pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func toLevel(raw int) Level {
	if raw == 0 {
		return Low
	}
	return High
}
