package render

import "image/color"

// Op identifies a recorded surface call.
type Op string

const (
	OpText    Op = "text"
	OpImage   Op = "image"
	OpFill    Op = "fill"
	OpPresent Op = "present"
)

// Call is one recorded surface invocation.
type Call struct {
	Op     Op
	Region Region
	Value  string
	Frame  int
	Color  color.RGBA
}

// Recorder is a Surface test double that records every call.
type Recorder struct {
	Calls []Call

	// PresentError, if set, is returned by Present.
	PresentError error

	// Presents counts Present calls.
	Presents int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// DrawText records the call.
func (r *Recorder) DrawText(region Region, value string, font Font) {
	r.Calls = append(r.Calls, Call{Op: OpText, Region: region, Value: value})
}

// DrawImage records the call.
func (r *Recorder) DrawImage(region Region, frameIndex int) {
	r.Calls = append(r.Calls, Call{Op: OpImage, Region: region, Frame: frameIndex})
}

// FillRegion records the call.
func (r *Recorder) FillRegion(region Region, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: OpFill, Region: region, Color: c})
}

// Present records the call.
func (r *Recorder) Present() error {
	r.Presents++
	r.Calls = append(r.Calls, Call{Op: OpPresent})
	return r.PresentError
}

// Reset clears recorded calls, keeping error configuration.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Presents = 0
}

// CallsFor returns the recorded calls addressing the given region.
func (r *Recorder) CallsFor(region Region) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out
}
