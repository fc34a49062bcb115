//go:build linux

package input

import (
	"fmt"
	"log"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// EvdevReader adapts a Linux input device to the button Reader interface,
// for boards whose buttons arrive as key events instead of raw GPIO lines.
// A goroutine tracks key press/release; Read returns the latest levels.
type EvdevReader struct {
	dev     *evdev.InputDevice
	keyDown evdev.EvCode
	keyUp   evdev.EvCode

	mu        sync.Mutex
	down      Level
	up        Level
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewEvdevReader opens the input device with the given name and maps two
// key codes onto the down/up buttons.
func NewEvdevReader(deviceName string, keyDown, keyUp uint16) (*EvdevReader, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var devPath string
	for _, p := range paths {
		if p.Name == deviceName {
			devPath = p.Path
			break
		}
	}
	if devPath == "" {
		return nil, fmt.Errorf("input device %q not found", deviceName)
	}

	dev, err := evdev.Open(devPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devPath, err)
	}

	r := &EvdevReader{
		dev:     dev,
		keyDown: evdev.EvCode(keyDown),
		keyUp:   evdev.EvCode(keyUp),
		down:    High,
		up:      High,
		done:    make(chan struct{}),
	}
	go r.track()
	return r, nil
}

// Read returns the most recently observed key levels.
func (r *EvdevReader) Read() (Level, Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.down, r.up, nil
}

// Close releases the device. Closing the fd unblocks the tracking
// goroutine's pending ReadOne.
func (r *EvdevReader) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.closeErr = r.dev.Close()
	})
	return r.closeErr
}

func (r *EvdevReader) track() {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		ev, err := r.dev.ReadOne()
		if err != nil {
			select {
			case <-r.done:
				return
			default:
			}
			log.Printf("input: evdev read: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}

		level := High
		if ev.Value == 1 { // key press maps to the active-low pressed level
			level = Low
		}

		r.mu.Lock()
		switch ev.Code {
		case r.keyDown:
			r.down = level
		case r.keyUp:
			r.up = level
		}
		r.mu.Unlock()
	}
}
