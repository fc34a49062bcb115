package clockwork

import (
	"errors"
	"time"
)

// FakeClock is a manually advanced monotonic counter for tests.
type FakeClock struct {
	ms int64
}

// NewFakeClock creates a FakeClock starting at zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// NowMillis returns the current counter value.
func (c *FakeClock) NowMillis() int64 {
	return c.ms
}

// Advance moves the counter forward by the given number of milliseconds.
func (c *FakeClock) Advance(ms int64) {
	c.ms += ms
}

// TimeResult is one scripted answer from a FakeTimeSource.
type TimeResult struct {
	Epoch int64
	Err   error
}

// FakeTimeSource returns scripted query results.
// Each call to QueryTime consumes the next result; when results are
// exhausted the last one is returned repeatedly.
type FakeTimeSource struct {
	Results []TimeResult

	// Calls counts QueryTime invocations.
	Calls int

	index int
}

// NewFakeTimeSource creates a FakeTimeSource with the given scripted results.
func NewFakeTimeSource(results ...TimeResult) *FakeTimeSource {
	return &FakeTimeSource{Results: results}
}

// QueryTime returns the next scripted result.
func (f *FakeTimeSource) QueryTime(time.Duration) (int64, error) {
	f.Calls++
	if len(f.Results) == 0 {
		return 0, errors.New("no results configured")
	}
	r := f.Results[f.index]
	if f.index < len(f.Results)-1 {
		f.index++
	}
	return r.Epoch, r.Err
}
