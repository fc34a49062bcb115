package web

import (
	"bytes"

	svg "github.com/ajstarks/svgo"

	"github.com/sweeney/wifi-clock/internal/wifi"
)

// renderBadge produces a small status pill showing the connectivity state.
func renderBadge(state wifi.State, address string) []byte {
	label := string(state)
	if state == wifi.StateConnected && address != "" {
		label = address
	}

	width := 24 + len(label)*7
	fill := badgeFill(state)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, 20)
	canvas.Roundrect(0, 0, width, 20, 4, 4, "fill:#2b2b2b")
	canvas.Circle(10, 10, 4, "fill:"+fill)
	canvas.Text(20, 14, label, "fill:#ffffff;font-family:monospace;font-size:11px")
	canvas.End()
	return buf.Bytes()
}

func badgeFill(state wifi.State) string {
	switch state {
	case wifi.StateConnected:
		return "#46eb91"
	case wifi.StateConnecting, wifi.StateReconnecting:
		return "#ffe500"
	case wifi.StateFailed:
		return "#e24826"
	default:
		return "#627482"
	}
}
