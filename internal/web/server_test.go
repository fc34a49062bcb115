package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sweeney/wifi-clock/internal/assets"
	"github.com/sweeney/wifi-clock/internal/display"
	"github.com/sweeney/wifi-clock/internal/render"
	"github.com/sweeney/wifi-clock/internal/status"
	"github.com/sweeney/wifi-clock/internal/surface"
	"github.com/sweeney/wifi-clock/internal/wifi"
)

func testServer() (*Server, *status.Tracker, *atomic.Bool) {
	tracker := status.NewTracker(0, status.Config{
		SSID:    "testnet",
		NTPHost: "pool.ntp.org",
	})
	sfc := surface.New(display.NewFakePanel(), render.DefaultLayout(),
		assets.Generated(16, 16, 2), surface.BasicFaces())
	redraw := &atomic.Bool{}
	return New(tracker, sfc, redraw), tracker, redraw
}

func TestIndexJSON(t *testing.T) {
	srv, tracker, _ := testServer()
	tracker.Update(5000, wifi.Status{
		State:   wifi.StateConnected,
		Address: "192.168.1.50",
	}, "12:30", "26 Aug '26", 1787740200, true, 30, 125)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/index.json", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	wifiDoc := doc["wifi"].(map[string]any)
	if wifiDoc["state"] != "CONNECTED" {
		t.Errorf("expected CONNECTED, got %v", wifiDoc["state"])
	}
}

func TestIndexHTML(t *testing.T) {
	srv, tracker, _ := testServer()
	tracker.Update(5000, wifi.Status{State: wifi.StateConnecting}, "12:30", "26 Aug '26", 0, false, 0, 100)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	if !strings.Contains(html, "WiFi Clock") {
		t.Error("expected the page title in the body")
	}
	if !strings.Contains(html, "CONNECTING") {
		t.Error("expected the connectivity state in the body")
	}
	if !strings.Contains(html, "testnet") {
		t.Error("expected the SSID in the body")
	}
}

func TestFramePNG(t *testing.T) {
	srv, _, _ := testServer()

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/frame.png", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("expected a PNG payload")
	}
}

func TestBadgeSVG(t *testing.T) {
	srv, tracker, _ := testServer()
	tracker.Update(5000, wifi.Status{
		State:   wifi.StateConnected,
		Address: "192.168.1.50",
	}, "", "", 0, true, 0, 100)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/badge.svg", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	if !strings.Contains(svg, "<svg") {
		t.Error("expected an SVG document")
	}
	if !strings.Contains(svg, "192.168.1.50") {
		t.Error("expected the address as the badge label")
	}
	if !strings.Contains(svg, "#46eb91") {
		t.Error("expected the online dot color")
	}
}

func TestBadgeShowsStateWhenDown(t *testing.T) {
	srv, tracker, _ := testServer()
	tracker.Update(5000, wifi.Status{State: wifi.StateFailed}, "", "", 0, false, 0, 100)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/badge.svg", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "FAILED") {
		t.Error("expected the state as the badge label")
	}
}

func TestRedrawEndpoint(t *testing.T) {
	srv, _, redraw := testServer()

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/redraw", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !redraw.Load() {
		t.Error("expected the redraw flag set")
	}
}

func TestRedrawRequiresPost(t *testing.T) {
	srv, _, redraw := testServer()

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/redraw", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		t.Error("expected GET /redraw rejected")
	}
	if redraw.Load() {
		t.Error("expected the redraw flag untouched")
	}
}
