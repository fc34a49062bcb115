package wifi

import (
	"log"
	"sync"
)

// Machine is the connectivity state machine. All state is owned by the
// single loop goroutine calling Tick; the only shared structure is the
// inbound event queue, which the stack fills from its own goroutines and
// Tick drains before anything else.
type Machine struct {
	cfg   Config
	stack Stack

	eventMu sync.Mutex
	pending []LinkEvent

	state     State
	address   string
	enteredAt int64
	attempts  int
	failedAt  int64
	lastCheck int64

	redrawRequested bool
	resyncRequested bool
}

// NewMachine creates a Machine in the Disconnected state and registers
// for link events on the stack.
func NewMachine(cfg Config, stack Stack) *Machine {
	m := &Machine{
		cfg:       cfg,
		stack:     stack,
		state:     StateDisconnected,
		lastCheck: -cfg.CheckIntervalMs, // first tick acts immediately
	}
	stack.Notify(m.OnLinkEvent)
	return m
}

// OnLinkEvent queues an asynchronous notification from the stack. Safe to
// call from any goroutine. The event takes effect at the start of the next
// Tick, regardless of the check interval gate, so a narrow association
// window is never missed.
func (m *Machine) OnLinkEvent(ev LinkEvent) {
	m.eventMu.Lock()
	m.pending = append(m.pending, ev)
	m.eventMu.Unlock()
}

// Status returns a read-only snapshot.
func (m *Machine) Status() Status {
	return Status{
		State:             m.state,
		Address:           m.address,
		EnteredAtMillis:   m.enteredAt,
		ReconnectAttempts: m.attempts,
	}
}

// ConsumeRedrawRequest returns true once after a change that invalidates
// dependent screen regions (state transition, address change).
func (m *Machine) ConsumeRedrawRequest() bool {
	r := m.redrawRequested
	m.redrawRequested = false
	return r
}

// ConsumeResyncRequest returns true once after (re)entering Connected, so
// the time cache can force a sync instead of drifting across an outage.
func (m *Machine) ConsumeResyncRequest() bool {
	r := m.resyncRequested
	m.resyncRequested = false
	return r
}

// Tick drains pending link events, then, at most once per check interval,
// applies a single timeout, cooldown or recovery transition. Calling it
// more often than the interval is a no-op beyond the event drain.
func (m *Machine) Tick(now int64) {
	for _, ev := range m.drain() {
		m.apply(ev, now)
	}

	if now-m.lastCheck < m.cfg.CheckIntervalMs {
		return
	}
	m.lastCheck = now

	switch m.state {
	case StateDisconnected:
		m.startConnect(now)

	case StateConnecting, StateReconnecting:
		if now-m.enteredAt > m.cfg.ConnectTimeoutMs {
			m.timeout(now)
		}

	case StateFailed:
		if now-m.failedAt >= m.cfg.FailureCooldownMs {
			log.Printf("wifi: cooldown elapsed, re-entering connect cycle")
			m.attempts = 0
			m.setState(StateDisconnected, now)
		}

	case StateConnected:
		// A lease renewal can change the address without any link event.
		if addr := m.stack.CurrentAddress(); addr != "" && addr != m.address {
			log.Printf("wifi: address changed %s -> %s", m.address, addr)
			m.address = addr
			m.redrawRequested = true
		}
	}
}

func (m *Machine) drain() []LinkEvent {
	m.eventMu.Lock()
	evs := m.pending
	m.pending = nil
	m.eventMu.Unlock()
	return evs
}

func (m *Machine) apply(ev LinkEvent, now int64) {
	switch ev.Type {
	case LinkAssociated:
		if m.state != StateConnecting && m.state != StateReconnecting {
			return
		}
		m.address = ev.Address
		if m.address == "" {
			m.address = m.stack.CurrentAddress()
		}
		m.attempts = 0
		m.resyncRequested = true
		m.setState(StateConnected, now)
		log.Printf("wifi: connected, address %s", m.address)

	case LinkDisassociated:
		if m.state != StateConnected {
			return
		}
		m.address = ""
		m.setState(StateReconnecting, now)
		log.Printf("wifi: link lost, reconnecting")
	}
}

// startConnect issues a fresh association request with a zeroed attempt
// counter.
func (m *Machine) startConnect(now int64) {
	m.stack.Disconnect()
	m.stack.Connect(m.cfg.SSID, m.cfg.Password)
	m.attempts = 0
	m.setState(StateConnecting, now)
	log.Printf("wifi: connecting to %q", m.cfg.SSID)
}

// timeout handles an expired connect attempt: count it (capped at the
// attempt bound) and either reissue the request or give up. Failed is
// entered only from Reconnecting, so even an attempt bound of 1 grants one
// reconnect window before giving up. A stale in-flight attempt is never
// aborted explicitly; the fresh request supersedes it.
func (m *Machine) timeout(now int64) {
	if m.attempts < m.cfg.MaxReconnectAttempts {
		m.attempts++
	}
	if m.state == StateReconnecting && m.attempts >= m.cfg.MaxReconnectAttempts {
		m.failedAt = now
		m.setState(StateFailed, now)
		log.Printf("wifi: giving up after %d attempts", m.attempts)
		return
	}
	m.stack.Disconnect()
	m.stack.Connect(m.cfg.SSID, m.cfg.Password)
	m.setState(StateReconnecting, now)
	log.Printf("wifi: connect timeout, retry %d/%d", m.attempts, m.cfg.MaxReconnectAttempts)
}

// setState records the transition and flags dependent regions for redraw.
// A retry re-entering Reconnecting still resets enteredAt, so each attempt
// gets a full timeout window.
func (m *Machine) setState(s State, now int64) {
	if s != m.state {
		m.redrawRequested = true
	}
	m.state = s
	m.enteredAt = now
}
