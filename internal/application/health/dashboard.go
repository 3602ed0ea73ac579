package health

import (
	"fmt"
)

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(health CollectResult) string {
	avgTime := fmt.Sprint(health.Traffic.AvgResponseTime)
	lastReqMethod := "-"
	lastReqPath := "-"
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		if v, ok := m["method"].(string); ok {
			lastReqMethod = v
		}
		if v, ok := m["path"].(string); ok {
			lastReqPath = v
		}
	}

	depRows := ""
	for name, dep := range health.Dependencies {
		ping := "-"
		if dep.PingMs != nil {
			ping = fmt.Sprintf("%v ms", dep.PingMs)
		}
		depRows += fmt.Sprintf(`<tr><td>%s</td><td class="dep-%s">%s</td><td>%s</td></tr>`, name, dep.Status, dep.Status, ping)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Seed Traceability · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --green: #2d6a4f; --dark: #1b4332; --bg: #f8f9fa; --muted: #64748b; }
    body { background: var(--bg); color: var(--dark); font-family: system-ui, sans-serif; margin: 0; padding: 2rem; }
    h1 { color: var(--green); }
    .status-ok { color: #16a34a; font-weight: 700; }
    .status-issue { color: #dc2626; font-weight: 700; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td, th { border: 1px solid #e2e8f0; padding: 0.4rem 0.8rem; text-align: left; }
    .dep-connected { color: #16a34a; }
    .dep-disconnected, .dep-error { color: #dc2626; }
    .muted { color: var(--muted); font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>Seed Traceability API</h1>
  <p>Status: <span class="status-%s">%s</span></p>
  <table>
    <tr><th>Dependency</th><th>Status</th><th>Ping</th></tr>
    %s
  </table>
  <table>
    <tr><th>Uptime</th><td>%d s</td></tr>
    <tr><th>Requests</th><td>%d (%s%% success)</td></tr>
    <tr><th>Avg response</th><td>%s ms</td></tr>
    <tr><th>Last request</th><td>%s %s</td></tr>
    <tr><th>Runtime</th><td>%s · %s · heap %d MB</td></tr>
  </table>
  <p class="muted">JSON payload at <a href="/health/json">/health/json</a></p>
</body>
</html>`,
		health.Status, health.Status,
		depRows,
		health.Runtime.UptimeSeconds,
		health.Traffic.TotalRequests, health.Traffic.SuccessRate,
		avgTime,
		lastReqMethod, lastReqPath,
		health.Runtime.Platform, health.Runtime.GoVersion, health.Runtime.Memory.HeapUsed,
	)
}
