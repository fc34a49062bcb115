package status

import (
	"encoding/json"
	"testing"

	"github.com/sweeney/wifi-clock/internal/wifi"
)

func testTracker() *Tracker {
	return NewTracker(1000, Config{
		SSID:             "testnet",
		NTPHost:          "pool.ntp.org",
		ResyncIntervalMs: 600000,
		CheckIntervalMs:  5000,
		HTTPAddr:         ":8080",
	})
}

func TestTrackerUpdate(t *testing.T) {
	tr := testTracker()

	tr.Update(6000, wifi.Status{
		State:             wifi.StateConnected,
		Address:           "192.168.1.50",
		ReconnectAttempts: 0,
	}, "12:30", "26 Aug '26", 1787740200, true, 30, 125)

	snap := tr.Snapshot()
	if snap.WifiState != wifi.StateConnected {
		t.Errorf("expected CONNECTED, got %s", snap.WifiState)
	}
	if snap.Address != "192.168.1.50" {
		t.Errorf("expected address recorded, got %q", snap.Address)
	}
	if snap.TimeText != "12:30" || snap.DateText != "26 Aug '26" {
		t.Errorf("unexpected clock fields: %q %q", snap.TimeText, snap.DateText)
	}
	if snap.FPS != 30 || snap.Brightness != 125 {
		t.Errorf("unexpected display fields: fps=%d brightness=%d", snap.FPS, snap.Brightness)
	}
	if snap.UptimeMillis() != 5000 {
		t.Errorf("expected uptime 5000ms, got %d", snap.UptimeMillis())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := testTracker()
	tr.Update(2000, wifi.Status{State: wifi.StateConnecting}, "", "", 0, false, 0, 100)

	snap := tr.Snapshot()
	tr.Update(3000, wifi.Status{State: wifi.StateConnected}, "", "", 0, false, 0, 100)

	if snap.WifiState != wifi.StateConnecting {
		t.Error("snapshot must not observe later updates")
	}
}

func TestMarshalJSONShape(t *testing.T) {
	tr := testTracker()
	tr.Update(6000, wifi.Status{
		State:   wifi.StateConnected,
		Address: "192.168.1.50",
	}, "12:30", "26 Aug '26", 1787740200, true, 30, 125)

	data, err := json.Marshal(tr.Snapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	wifiDoc, ok := doc["wifi"].(map[string]any)
	if !ok {
		t.Fatal("expected a wifi object")
	}
	if wifiDoc["state"] != "CONNECTED" {
		t.Errorf("expected state CONNECTED, got %v", wifiDoc["state"])
	}
	if wifiDoc["address"] != "192.168.1.50" {
		t.Errorf("expected the address, got %v", wifiDoc["address"])
	}

	clockDoc, ok := doc["clock"].(map[string]any)
	if !ok {
		t.Fatal("expected a clock object")
	}
	if clockDoc["time"] != "12:30" {
		t.Errorf("expected time 12:30, got %v", clockDoc["time"])
	}
	if clockDoc["synced"] != true {
		t.Errorf("expected synced true, got %v", clockDoc["synced"])
	}

	if doc["uptime_ms"] != float64(5000) {
		t.Errorf("expected uptime_ms 5000, got %v", doc["uptime_ms"])
	}

	cfgDoc, ok := doc["config"].(map[string]any)
	if !ok {
		t.Fatal("expected a config object")
	}
	if cfgDoc["ssid"] != "testnet" {
		t.Errorf("expected ssid testnet, got %v", cfgDoc["ssid"])
	}
	if _, present := cfgDoc["broker"]; present {
		t.Error("expected the empty broker omitted")
	}
}

func TestEmptyAddressOmitted(t *testing.T) {
	tr := testTracker()
	tr.Update(2000, wifi.Status{State: wifi.StateConnecting}, "", "", 0, false, 0, 100)

	data, err := json.Marshal(tr.Snapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	wifiDoc := doc["wifi"].(map[string]any)
	if _, present := wifiDoc["address"]; present {
		t.Error("expected the empty address omitted")
	}
}
