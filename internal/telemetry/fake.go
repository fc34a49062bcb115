package telemetry

import "sync"

// FakePublisher records everything published for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	Events       []Event
	SystemEvents []SystemEvent

	PublishError       error
	PublishSystemError error
	Connected          bool
	Closed             bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Connected: true}
}

func (f *FakePublisher) Publish(event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, event)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// EventCount returns the number of transition events recorded.
func (f *FakePublisher) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Events)
}

// LastEvent returns the most recent transition event, if any.
func (f *FakePublisher) LastEvent() (Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Events) == 0 {
		return Event{}, false
	}
	return f.Events[len(f.Events)-1], true
}
