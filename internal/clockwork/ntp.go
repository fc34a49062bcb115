package clockwork

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// NTPSource queries an NTP server for the current time.
type NTPSource struct {
	host string
}

// NewNTPSource creates a TimeSource backed by the given NTP host.
func NewNTPSource(host string) *NTPSource {
	return &NTPSource{host: host}
}

// QueryTime performs one bounded NTP query and returns epoch seconds.
func (s *NTPSource) QueryTime(timeout time.Duration) (int64, error) {
	resp, err := ntp.QueryWithOptions(s.host, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", s.host, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("validate %s response: %w", s.host, err)
	}
	return resp.Time.Unix(), nil
}
