//go:build !linux

package wifi

// NMStack is only available on Linux, where NetworkManager runs.
type NMStack struct{}

// NewNMStack returns a stack whose operations are all no-ops off Linux.
// The simulator uses FakeStack instead.
func NewNMStack(iface, probeHost string) *NMStack {
	return &NMStack{}
}

func (s *NMStack) Close()                        {}
func (s *NMStack) Connect(ssid, password string) {}
func (s *NMStack) Disconnect()                   {}
func (s *NMStack) CurrentAddress() string        { return "" }
func (s *NMStack) StatusPoll() bool              { return false }
func (s *NMStack) Notify(fn func(LinkEvent))     {}
