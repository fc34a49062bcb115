package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sweeney/wifi-clock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(ms int64) string {
		secs := ms / 1000
		days := secs / 86400
		h := (secs % 86400) / 3600
		m := (secs % 3600) / 60
		s := secs % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>WiFi Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; font-weight: bold; }
.failed { color: red; font-weight: bold; }
.pending { color: orange; }
img.frame { width: 100%; image-rendering: pixelated; border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>WiFi Clock <img src="/badge.svg" alt="{{.WifiState}}"></h1>

<img class="frame" src="/frame.png" alt="display frame">

<h2>Clock</h2>
<table>
<tr><th>Time</th><td>{{.TimeText}}</td></tr>
<tr><th>Date</th><td>{{.DateText}}</td></tr>
<tr><th>Synced</th><td>{{if .Synced}}yes{{else}}no{{end}}</td></tr>
<tr><th>Epoch</th><td>{{.EpochSeconds}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>State</th><td class="{{if eq .WifiState "CONNECTED"}}connected{{else if eq .WifiState "FAILED"}}failed{{else}}pending{{end}}">{{.WifiState}}</td></tr>
<tr><th>Address</th><td>{{if .Address}}{{.Address}}{{else}}-{{end}}</td></tr>
<tr><th>SSID</th><td>{{.Config.SSID}}</td></tr>
<tr><th>Reconnect attempts</th><td>{{.ReconnectAttempts}}</td></tr>
</table>

<h2>Display</h2>
<table>
<tr><th>FPS</th><td>{{.FPS}}</td></tr>
<tr><th>Brightness</th><td>{{.Brightness}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .UptimeMillis}}</td></tr>
<tr><th>NTP host</th><td>{{.Config.NTPHost}}</td></tr>
<tr><th>Resync</th><td>{{.Config.ResyncIntervalMs}}ms</td></tr>
<tr><th>WiFi check</th><td>{{.Config.CheckIntervalMs}}ms</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}failed{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(snap status.Snapshot) string {
	var buf bytes.Buffer
	indexTmpl.Execute(&buf, snap)
	return buf.String()
}
