package status

import "encoding/json"

// jsonDoc is the wire shape shared by the HTTP server and telemetry
// snapshots, so both always report the same fields.
type jsonDoc struct {
	Wifi struct {
		State             string `json:"state"`
		Address           string `json:"address,omitempty"`
		ReconnectAttempts int    `json:"reconnect_attempts"`
	} `json:"wifi"`
	Clock struct {
		Epoch  int64  `json:"epoch"`
		Time   string `json:"time"`
		Date   string `json:"date"`
		Synced bool   `json:"synced"`
	} `json:"clock"`
	Display struct {
		FPS        int `json:"fps"`
		Brightness int `json:"brightness"`
	} `json:"display"`
	MQTTConnected bool  `json:"mqtt_connected"`
	UptimeMs      int64 `json:"uptime_ms"`
	Config        struct {
		SSID             string `json:"ssid"`
		NTPHost          string `json:"ntp_host"`
		ResyncIntervalMs int64  `json:"resync_interval_ms"`
		CheckIntervalMs  int64  `json:"wifi_check_interval_ms"`
		HTTPAddr         string `json:"http_addr,omitempty"`
		Broker           string `json:"broker,omitempty"`
	} `json:"config"`
}

// MarshalJSON renders the snapshot in the shared wire shape.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var doc jsonDoc
	doc.Wifi.State = string(s.WifiState)
	doc.Wifi.Address = s.Address
	doc.Wifi.ReconnectAttempts = s.ReconnectAttempts
	doc.Clock.Epoch = s.EpochSeconds
	doc.Clock.Time = s.TimeText
	doc.Clock.Date = s.DateText
	doc.Clock.Synced = s.Synced
	doc.Display.FPS = s.FPS
	doc.Display.Brightness = s.Brightness
	doc.MQTTConnected = s.MQTTConnected
	doc.UptimeMs = s.UptimeMillis()
	doc.Config.SSID = s.Config.SSID
	doc.Config.NTPHost = s.Config.NTPHost
	doc.Config.ResyncIntervalMs = s.Config.ResyncIntervalMs
	doc.Config.CheckIntervalMs = s.Config.CheckIntervalMs
	doc.Config.HTTPAddr = s.Config.HTTPAddr
	doc.Config.Broker = s.Config.Broker
	return json.Marshal(doc)
}
