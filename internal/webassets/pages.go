package webassets

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/scoring"
	"github.com/twinspect/twinspect/internal/simulator"
)

// previewSeed keeps the rendered sparkline previews consistent between
// pages of the same sync.
const previewSeed = 42

func indexBody() templ.Component {
	return templ.Raw(`<section class="hero">
<h1>Digital Twin Environment</h1>
<p>Live telemetry for the simulated industrial fleet.</p>
<div class="tiles">
<a class="tile" href="/dashboard"><h2>Dashboard</h2><p>Fleet summary, energy usage and the live alert feed.</p></a>
<a class="tile" href="/devices"><h2>Devices</h2><p>Per-device status, health and efficiency scores.</p></a>
<a class="tile" href="/analytics"><h2>Analytics</h2><p>24 hour sensor trends with threshold bands.</p></a>
</div>
</section>
<section>
<h2>Environment</h2>
<dl class="kv">
<dt>Status</dt><dd id="sys-status">--</dd>
<dt>Uptime</dt><dd id="sys-uptime">--</dd>
<dt>Active connections</dt><dd id="sys-connections">--</dd>
<dt>Network IO</dt><dd id="sys-network">--</dd>
</dl>
</section>
`)
}

func dashboardBody() templ.Component {
	var b strings.Builder
	b.WriteString(`<section class="cards">
<div class="card"><h3>Devices</h3><div class="big" id="stat-devices">--</div><div class="sub" id="stat-split">--</div></div>
<div class="card"><h3>Average Health</h3><div class="big" id="stat-health">--</div></div>
<div class="card"><h3>Energy Usage</h3><div class="big" id="stat-energy">--</div><div class="sub">kWh over 24h</div></div>
<div class="card"><h3>Response Time</h3><div class="big" id="stat-response">--</div></div>
<div class="card"><h3>Uptime</h3><div class="big" id="stat-uptime">--</div></div>
</section>
<section class="split">
<div>
<h2>Performance Trend</h2>
<svg id="trend-chart" viewBox="0 0 640 160" preserveAspectRatio="none"></svg>
</div>
<div>
<h2>Alerts</h2>
<div class="legend">`)
	for _, sev := range []string{model.SeverityInfo, model.SeverityWarning, model.SeverityCritical} {
		fmt.Fprintf(&b, `<span class="chip %s">%s</span>`, SeverityClass(sev), sev)
	}
	b.WriteString(`</div>
<ul id="alert-feed" class="alerts"><li class="muted">loading</li></ul>
</div>
</section>
`)
	return templ.Raw(b.String())
}

func devicesBody() templ.Component {
	var b strings.Builder
	b.WriteString(`<section>
<h2>Device Fleet</h2>
<div class="legend">`)
	for _, status := range []string{model.StatusNormal, model.StatusWarning, model.StatusCritical, model.StatusOffline} {
		fmt.Fprintf(&b, `<span class="chip %s">%s</span>`, StatusClass(status), status)
	}
	b.WriteString(`</div>
<table class="devices" id="device-table">
<thead><tr><th>ID</th><th>Name</th><th>Location</th><th>Value</th><th>Status</th><th>Health</th><th>Efficiency</th><th>Updated</th></tr></thead>
<tbody><tr><td colspan="8" class="muted">loading</td></tr></tbody>
</table>
</section>
<section>
<h2>Sensor Reference</h2>
<table class="reference">
<thead><tr><th>Type</th><th>Normal band</th><th>Critical beyond</th></tr></thead>
<tbody>
`)
	types := scoring.DeviceTypes()
	sort.Strings(types)
	for _, dt := range types {
		th, ok := scoring.LookupThreshold(dt)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			dt,
			FormatRange(th.NormalLow, th.NormalHigh, th.Unit),
			FormatRange(th.CritLow, th.CritHigh, th.Unit),
		)
	}
	b.WriteString(`</tbody>
</table>
</section>
`)
	return templ.Raw(b.String())
}

func analyticsBody() templ.Component {
	var b strings.Builder
	b.WriteString(`<section>
<h2>Sensor Trends (24h)</h2>
<div class="sensors">
`)
	rnd := simulator.NewSeededRNG(previewSeed)
	end := time.Now().Truncate(time.Hour)
	for _, p := range simulator.AnalyticsPatterns() {
		series := simulator.AnalyticsSeries(rnd, p, end)
		latest := "--"
		if len(series) > 0 {
			latest = "latest " + FormatValue(series[len(series)-1].Value, p.Unit)
		}
		fmt.Fprintf(&b, `<div class="sensor" data-sensor="%s">
<h3>%s <span class="unit">%s</span></h3>
<svg class="preview" viewBox="0 0 240 40" preserveAspectRatio="none"><polyline points="%s"/></svg>
<div class="range">normal band %s</div>
<div class="latest" id="latest-%s">%s</div>
</div>
`, p.Sensor, p.Sensor, p.Unit,
			SparklinePolyline(series, 240, 40),
			FormatRange(p.ThresholdLow, p.ThresholdHi, p.Unit),
			p.Sensor, latest)
	}
	b.WriteString(`</div>
</section>
<section>
<h2>System Load</h2>
<div class="gauges">
<div class="gauge"><span>CPU</span><div class="bar"><div id="gauge-cpu" class="fill"></div></div><span id="gauge-cpu-label">--</span></div>
<div class="gauge"><span>Memory</span><div class="bar"><div id="gauge-memory" class="fill"></div></div><span id="gauge-memory-label">--</span></div>
<div class="gauge"><span>Disk</span><div class="bar"><div id="gauge-disk" class="fill"></div></div><span id="gauge-disk-label">--</span></div>
</div>
</section>
`)
	return templ.Raw(b.String())
}
