// Package input samples the two brightness buttons and turns HIGH->LOW
// edges into clamped brightness steps. The polling interval of the frame
// loop is the debounce mechanism: state only advances on the transition, so
// a held button yields exactly one step no matter how many polls see it.
package input

// Default BCM pin numbers for the two buttons.
const (
	DefaultPinDown = 0  // boot button, decreases brightness
	DefaultPinUp   = 14 // key button, increases brightness
)

// Default key codes (KEY_VOLUMEDOWN, KEY_VOLUMEUP) for boards exposing
// the buttons through an input device instead of raw GPIO lines.
const (
	DefaultKeyDown uint16 = 114
	DefaultKeyUp   uint16 = 115
)

// Level is a digital input level. Buttons are active LOW.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// Reader samples the two button lines. An unreadable line must be reported
// through err; the debouncer treats it as HIGH (no press).
type Reader interface {
	// Read returns the levels of the down and up buttons.
	Read() (down, up Level, err error)

	// Close releases input resources.
	Close() error
}

// Backlight receives brightness updates. Local interface so this package
// does not import the display package; writes are fire-and-forget.
type Backlight interface {
	SetBacklight(level int)
}

// Config holds the brightness policy. Immutable after NewDebouncer.
type Config struct {
	Step    int
	Min     int
	Max     int
	Initial int
}

// Debouncer holds single-sample button history and the current brightness.
type Debouncer struct {
	cfg       Config
	reader    Reader
	backlight Backlight

	prevDown Level
	prevUp   Level
	level    int
}

// NewDebouncer creates a Debouncer and pushes the initial brightness.
func NewDebouncer(cfg Config, reader Reader, backlight Backlight) *Debouncer {
	d := &Debouncer{
		cfg:       cfg,
		reader:    reader,
		backlight: backlight,
		prevDown:  High,
		prevUp:    High,
		level:     clamp(cfg.Initial, cfg.Min, cfg.Max),
	}
	backlight.SetBacklight(d.level)
	return d
}

// Poll reads both buttons once and applies one step per falling edge.
// The new brightness is pushed to the backlight synchronously with the
// edge that caused it.
func (d *Debouncer) Poll() {
	down, up, err := d.reader.Read()
	if err != nil {
		down, up = High, High
	}

	if d.prevDown == High && down == Low {
		d.step(-d.cfg.Step)
	}
	if d.prevUp == High && up == Low {
		d.step(+d.cfg.Step)
	}

	d.prevDown = down
	d.prevUp = up
}

// Level returns the current brightness.
func (d *Debouncer) Level() int {
	return d.level
}

func (d *Debouncer) step(delta int) {
	next := clamp(d.level+delta, d.cfg.Min, d.cfg.Max)
	if next == d.level {
		return
	}
	d.level = next
	d.backlight.SetBacklight(d.level)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
