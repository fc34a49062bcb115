//go:build linux

package wifi

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/go-ping/ping"
)

// NMStack drives the onboard WiFi through NetworkManager. Connect and
// Disconnect shell out to nmcli asynchronously; link state is observed by
// a watcher goroutine that samples the kernel operstate and, when the
// interface claims to be up, confirms reachability with an ICMP probe
// before reporting association.
type NMStack struct {
	iface     string
	probeHost string

	mu     sync.Mutex
	notify func(LinkEvent)
	up     bool

	done chan struct{}
}

// NewNMStack creates a stack for the given interface. probeHost, when
// non-empty, is pinged to confirm the link actually routes traffic.
func NewNMStack(iface, probeHost string) *NMStack {
	s := &NMStack{
		iface:     iface,
		probeHost: probeHost,
		done:      make(chan struct{}),
	}
	go s.watch()
	return s
}

// Close stops the watcher goroutine.
func (s *NMStack) Close() {
	close(s.done)
}

// Connect issues an association request via nmcli. Fire-and-forget: the
// outcome is observed through the watcher, not the command's exit status.
func (s *NMStack) Connect(ssid, password string) {
	go func() {
		cmd := exec.Command("nmcli", "device", "wifi", "connect", ssid,
			"password", password, "ifname", s.iface)
		if out, err := cmd.CombinedOutput(); err != nil {
			log.Printf("wifi: nmcli connect: %v (%s)", err, strings.TrimSpace(string(out)))
		}
	}()
}

// Disconnect tears down the current association via nmcli.
func (s *NMStack) Disconnect() {
	go func() {
		if out, err := exec.Command("nmcli", "device", "disconnect", s.iface).CombinedOutput(); err != nil {
			log.Printf("wifi: nmcli disconnect: %v (%s)", err, strings.TrimSpace(string(out)))
		}
	}()
}

// CurrentAddress returns the interface's first IPv4 address, or "".
func (s *NMStack) CurrentAddress() string {
	ifi, err := net.InterfaceByName(s.iface)
	if err != nil {
		return ""
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok {
			if v4 := ipnet.IP.To4(); v4 != nil {
				return v4.String()
			}
		}
	}
	return ""
}

// StatusPoll reports whether the kernel considers the link up.
func (s *NMStack) StatusPoll() bool {
	return s.operstateUp()
}

// Notify registers the link event callback.
func (s *NMStack) Notify(fn func(LinkEvent)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *NMStack) operstateUp() bool {
	data, err := os.ReadFile(fmt.Sprintf("/sys/class/net/%s/operstate", s.iface))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "up"
}

// probe sends one unprivileged ICMP echo to the probe host.
func (s *NMStack) probe() bool {
	if s.probeHost == "" {
		return true
	}
	p, err := ping.NewPinger(s.probeHost)
	if err != nil {
		return false
	}
	p.Count = 1
	p.Timeout = 2 * time.Second
	p.SetPrivileged(false)
	if err := p.Run(); err != nil {
		return false
	}
	return p.Statistics().PacketsRecv > 0
}

// watch samples link state once per second and converts edges into events.
func (s *NMStack) watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		up := s.operstateUp() && s.CurrentAddress() != ""
		if up && !s.up {
			if !s.probe() {
				continue // link up but not routing yet
			}
			s.setUp(true)
			s.emit(LinkEvent{Type: LinkAssociated, Address: s.CurrentAddress()})
		} else if !up && s.up {
			s.setUp(false)
			s.emit(LinkEvent{Type: LinkDisassociated})
		}
	}
}

func (s *NMStack) setUp(up bool) {
	s.mu.Lock()
	s.up = up
	s.mu.Unlock()
}

func (s *NMStack) emit(ev LinkEvent) {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
