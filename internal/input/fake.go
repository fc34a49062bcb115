package input

import "errors"

// Sample is one scripted reading of both button lines.
type Sample struct {
	Down Level
	Up   Level
}

// FakeReader returns scripted button samples. When samples are exhausted
// the last one is returned repeatedly, so a "held" button is easy to script.
type FakeReader struct {
	Samples []Sample

	// ReadError, if set, is returned by every Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (Level, Level, error) {
	if f.ReadError != nil {
		return High, High, f.ReadError
	}
	if len(f.Samples) == 0 {
		return High, High, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Down, s.Up, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
