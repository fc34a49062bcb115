package wifi

import (
	"sync"
	"time"
)

// FakeStack is a scriptable network stack for tests and the simulator.
type FakeStack struct {
	mu     sync.Mutex
	notify func(LinkEvent)

	// Address is reported by CurrentAddress while the link is up.
	Address string

	// AssociateAfter, when non-zero, emits an association event this long
	// after each Connect call. Used by the simulator; unit tests drive
	// events explicitly with EmitAssociated/EmitDisassociated.
	AssociateAfter time.Duration

	// ConnectCalls and DisconnectCalls count requests, including the
	// SSIDs passed to Connect.
	ConnectCalls    int
	DisconnectCalls int
	SSIDs           []string

	up bool
}

// NewFakeStack creates a FakeStack reporting the given address once up.
func NewFakeStack(address string) *FakeStack {
	return &FakeStack{Address: address}
}

// Connect records the request and optionally schedules an association.
func (f *FakeStack) Connect(ssid, _ string) {
	f.mu.Lock()
	f.ConnectCalls++
	f.SSIDs = append(f.SSIDs, ssid)
	after := f.AssociateAfter
	f.mu.Unlock()

	if after > 0 {
		time.AfterFunc(after, f.EmitAssociated)
	}
}

// Disconnect records the request and marks the link down.
func (f *FakeStack) Disconnect() {
	f.mu.Lock()
	f.DisconnectCalls++
	f.up = false
	f.mu.Unlock()
}

// CurrentAddress returns the configured address while up.
func (f *FakeStack) CurrentAddress() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.up {
		return ""
	}
	return f.Address
}

// StatusPoll reports the scripted link state.
func (f *FakeStack) StatusPoll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up
}

// Notify registers the event callback.
func (f *FakeStack) Notify(fn func(LinkEvent)) {
	f.mu.Lock()
	f.notify = fn
	f.mu.Unlock()
}

// SetAddress changes the reported address, simulating a lease renewal.
func (f *FakeStack) SetAddress(addr string) {
	f.mu.Lock()
	f.Address = addr
	f.mu.Unlock()
}

// EmitAssociated marks the link up and delivers an association event.
func (f *FakeStack) EmitAssociated() {
	f.mu.Lock()
	f.up = true
	fn := f.notify
	addr := f.Address
	f.mu.Unlock()
	if fn != nil {
		fn(LinkEvent{Type: LinkAssociated, Address: addr})
	}
}

// EmitDisassociated marks the link down and delivers a disassociation event.
func (f *FakeStack) EmitDisassociated() {
	f.mu.Lock()
	f.up = false
	fn := f.notify
	f.mu.Unlock()
	if fn != nil {
		fn(LinkEvent{Type: LinkDisassociated})
	}
}
