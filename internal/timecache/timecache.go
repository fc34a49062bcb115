// Package timecache owns the appliance's wall-clock estimate. It reconciles
// an unreliable periodic network time source with the local monotonic
// counter: the estimate is (epoch at last successful sync) + (whole seconds
// observed locally since that sync). The loop advances the second counter;
// network queries happen at most once per resync interval.
// Time is always injectable: nothing here reads the system clock.
package timecache

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/wifi-clock/internal/clockwork"
)

// Config holds the timezone and resync policy. Immutable after New.
type Config struct {
	GMTOffsetSeconds int
	DSTEnabled       bool
	DSTOffsetSeconds int
	Timezone         string // abbreviation shown in the header, e.g. "SAST"

	ResyncIntervalMs int64
	QueryTimeout     time.Duration
}

// Snapshot is the cached decomposed time. It is recomputed by Tick and
// read by the render scheduler; reading never performs I/O.
type Snapshot struct {
	EpochSeconds int64

	Hour    int
	Minute  int
	Second  int
	Day     int
	Month   time.Month
	Year    int
	Weekday time.Weekday

	// Formatted display strings, cached so the render scheduler compares
	// rather than re-formats every frame.
	TimeText    string // "15:04"
	SecondsText string // "05"
	DateText    string // "02 Jan '06"
	WeekdayText string // "MON"
	HeaderText  string // "WiFi Clock (SAST DST)"
}

// Cache tracks the wall-clock estimate and its decomposed fields.
type Cache struct {
	cfg Config
	src clockwork.TimeSource
	loc *time.Location

	epochAtSync    int64 // authoritative only immediately after a sync
	elapsedSeconds int64 // whole seconds observed since the last sync
	lastSyncMillis int64 // monotonic snapshot of the last successful sync
	synced         bool

	snap Snapshot
}

// New creates a Cache. The estimate is not valid until FirstSync succeeds.
func New(cfg Config, src clockwork.TimeSource) *Cache {
	offset := cfg.GMTOffsetSeconds
	name := cfg.Timezone
	if cfg.DSTEnabled {
		offset += cfg.DSTOffsetSeconds
	}
	if name == "" {
		name = "UTC"
	}
	return &Cache{
		cfg: cfg,
		src: src,
		loc: time.FixedZone(name, offset),
	}
}

// FirstSync performs the mandatory startup sync. Unlike periodic resyncs a
// failure here is returned to the caller, which treats it as fatal: there is
// no valid baseline to free-run from.
func (c *Cache) FirstSync(nowMillis int64) error {
	epoch, err := c.src.QueryTime(c.cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("initial time sync: %w", err)
	}
	c.baseline(epoch, nowMillis)
	c.recompute()
	return nil
}

// AdvanceSecond moves the estimate forward by one second. Called by the
// loop once per observed second of monotonic time, never by a timer.
func (c *Cache) AdvanceSecond() {
	c.elapsedSeconds++
}

// Tick attempts a resync when forced or when the resync interval has
// elapsed since the last successful sync, then recomputes the decomposed
// fields. A failed resync is absorbed: the estimate keeps free-running on
// the locally counted seconds until a later attempt succeeds.
func (c *Cache) Tick(nowMillis int64, forceSync bool) {
	if forceSync || nowMillis-c.lastSyncMillis > c.cfg.ResyncIntervalMs {
		if epoch, err := c.src.QueryTime(c.cfg.QueryTimeout); err == nil {
			c.baseline(epoch, nowMillis)
		}
	}
	c.recompute()
}

// Synced reports whether any sync has ever succeeded.
func (c *Cache) Synced() bool {
	return c.synced
}

// ElapsedSeconds returns the seconds counted since the last successful sync.
func (c *Cache) ElapsedSeconds() int64 {
	return c.elapsedSeconds
}

// Snapshot returns the cached decomposed time.
func (c *Cache) Snapshot() Snapshot {
	return c.snap
}

func (c *Cache) baseline(epoch, nowMillis int64) {
	c.epochAtSync = epoch
	c.elapsedSeconds = 0
	c.lastSyncMillis = nowMillis
	c.synced = true
}

func (c *Cache) recompute() {
	epoch := c.epochAtSync + c.elapsedSeconds
	t := time.Unix(epoch, 0).In(c.loc)

	c.snap = Snapshot{
		EpochSeconds: epoch,
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		Second:       t.Second(),
		Day:          t.Day(),
		Month:        t.Month(),
		Year:         t.Year(),
		Weekday:      t.Weekday(),
		TimeText:     t.Format("15:04"),
		SecondsText:  t.Format("05"),
		DateText:     t.Format("02 Jan '06"),
		WeekdayText:  strings.ToUpper(t.Format("Mon")),
		HeaderText:   c.header(),
	}
}

func (c *Cache) header() string {
	if c.cfg.DSTEnabled {
		return fmt.Sprintf("WiFi Clock (%s DST)", c.cfg.Timezone)
	}
	return fmt.Sprintf("WiFi Clock (%s)", c.cfg.Timezone)
}
