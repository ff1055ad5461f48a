package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/status-led/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
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
	"colorOrOff": func(s string) string {
		if s == "" {
			return "OFF"
		}
		return s
	},
	"join": strings.Join,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Status LED</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Status LED</h1>

<h2>LED</h2>
<table>
<tr><th>Default Color</th><td class="{{if eq (colorOrOff .DefaultColor) "ON"}}on{{else}}off{{end}}">{{colorOrOff .DefaultColor}}</td></tr>
<tr><th>Active Patterns</th><td>{{with .ActivePatterns}}{{join . ", "}}{{else}}none{{end}}</td></tr>
<tr><th>Last Played</th><td>{{.LastPlayed}}</td></tr>
<tr><th>Ready</th><td>{{if .Initialized}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Device</h2>
<table>
<tr><th>USB Power</th><td class="{{if .USBPowered}}on{{else}}off{{end}}">{{if .USBPowered}}powered{{else}}unpowered{{end}}</td></tr>
<tr><th>Connectivity</th><td>{{.Connectivity}}</td></tr>
<tr><th>Battery</th><td>{{if gt .BatteryLevel 0}}{{.BatteryLevel}}%{{else}}unknown{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Counters</h2>
<table>
<tr><th>Messages Applied</th><td>{{.Counts.MessagesApplied}}</td></tr>
<tr><th>Messages Dropped</th><td>{{.Counts.MessagesDropped}}</td></tr>
<tr><th>Patterns Played</th><td>{{.Counts.PatternsPlayed}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Role</th><td>{{.Config.Role}}</td></tr>
<tr><th>GPIO</th><td>{{.Config.Chip}}:{{.Config.Line}}</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and ActivePatterns() methods but the template
	// wants plain fields.
	data := struct {
		status.Snapshot
		Uptime         time.Duration
		ActivePatterns []string
	}{
		Snapshot:       snap,
		Uptime:         snap.Uptime(),
		ActivePatterns: snap.ActivePatterns(),
	}
	indexTmpl.Execute(w, data)
}
