//go:build !linux

package input

import "errors"

// GPIOReader is not available off Linux.
type GPIOReader struct{}

// NewGPIOReader returns an error off Linux.
func NewGPIOReader(pinDown, pinUp int) (*GPIOReader, error) {
	return nil, errors.New("input: gpio not supported on this platform (requires Linux)")
}

// Read is not implemented off Linux.
func (r *GPIOReader) Read() (Level, Level, error) {
	return High, High, errors.New("input: gpio not supported")
}

// Close is not implemented off Linux.
func (r *GPIOReader) Close() error {
	return nil
}

// EvdevReader is not available off Linux.
type EvdevReader struct{}

// NewEvdevReader returns an error off Linux.
func NewEvdevReader(deviceName string, keyDown, keyUp uint16) (*EvdevReader, error) {
	return nil, errors.New("input: evdev not supported on this platform (requires Linux)")
}

// Read is not implemented off Linux.
func (r *EvdevReader) Read() (Level, Level, error) {
	return High, High, errors.New("input: evdev not supported")
}

// Close is not implemented off Linux.
func (r *EvdevReader) Close() error {
	return nil
}
