// Package wifi owns the WiFi association lifecycle. A small state machine
// decides when to (re)connect, when to declare failure and when to attempt
// recovery. The underlying network stack is behind the Stack interface;
// connect/disconnect are fire-and-forget requests whose outcome is observed
// through link events and polling, never through a return value.
package wifi

// State is the connectivity status tag.
type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateConnected    State = "CONNECTED"
	StateReconnecting State = "RECONNECTING"
	StateFailed       State = "FAILED"
)

// LinkEventType identifies an asynchronous notification from the stack.
type LinkEventType string

const (
	LinkAssociated    LinkEventType = "ASSOCIATED"
	LinkDisassociated LinkEventType = "DISASSOCIATED"
)

// LinkEvent is an asynchronous notification from the network stack.
// Address is set on association.
type LinkEvent struct {
	Type    LinkEventType
	Address string
}

// Status is a read-only snapshot of the machine's state.
type Status struct {
	State             State
	Address           string // present only in Connected
	EnteredAtMillis   int64
	ReconnectAttempts int
}

// Stack is the network collaborator contract. Connect and Disconnect are
// requests only; the machine learns the outcome via the Notify callback
// and CurrentAddress/StatusPoll.
type Stack interface {
	// Connect issues an association request. Must not block.
	Connect(ssid, password string)

	// Disconnect tears down the current association. Must not block.
	Disconnect()

	// CurrentAddress returns the assigned address, or "" when none.
	CurrentAddress() string

	// StatusPoll reports whether the link is currently up.
	StatusPoll() bool

	// Notify registers the link event callback. The stack may invoke it
	// from any goroutine.
	Notify(fn func(LinkEvent))
}

// Config holds connection policy. Immutable after NewMachine.
type Config struct {
	SSID     string
	Password string

	CheckIntervalMs      int64 // minimum interval between timeout checks
	ConnectTimeoutMs     int64 // per-attempt association deadline
	MaxReconnectAttempts int   // retries before giving up
	FailureCooldownMs    int64 // wait before a failed cycle may restart
}
