package health

import (
	"fmt"
	"strings"
)

// RenderStatusHTML returns the status page served at GET /.
func RenderStatusHTML(health CollectResult) string {
	banner := "All Systems Operational"
	bannerColor := "#16a34a"
	if health.Status != "ok" {
		banner = "Service Degraded"
		bannerColor = "#dc2626"
	}

	var deps strings.Builder
	for _, name := range []string{"store", "redis", "hedera", "mirror"} {
		dep, ok := health.Dependencies[name]
		if !ok {
			continue
		}
		ping := ""
		if ms, ok := dep.PingMs.(*int64); ok && ms != nil {
			ping = fmt.Sprintf(" (%dms)", *ms)
		}
		deps.WriteString(fmt.Sprintf(`<li><span class="dep">%s</span> %s%s</li>`, name, dep.Status, ping))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>SheetToChain · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { background: #0f172a; color: #e2e8f0; font-family: ui-sans-serif, system-ui, sans-serif; margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: #1e293b; border-radius: 12px; padding: 2rem 2.5rem; max-width: 28rem; width: 100%%; box-shadow: 0 10px 30px rgba(0,0,0,.4); }
    h1 { font-size: 1.1rem; margin: 0 0 .25rem; color: #94a3b8; font-weight: 600; }
    .banner { font-size: 1.4rem; font-weight: 700; color: %s; margin-bottom: 1.25rem; }
    ul { list-style: none; padding: 0; margin: 0 0 1.25rem; }
    li { padding: .35rem 0; border-bottom: 1px solid #334155; font-size: .95rem; }
    .dep { display: inline-block; min-width: 6rem; color: #94a3b8; }
    .meta { font-size: .8rem; color: #64748b; }
    a { color: #38bdf8; text-decoration: none; }
  </style>
</head>
<body>
  <div class="card">
    <h1>SheetToChain API</h1>
    <div class="banner">%s</div>
    <ul>%s</ul>
    <div class="meta">
      uptime %ds · %d requests ·
      <a href="/health/json">/health/json</a> ·
      <a href="/health/errors">/health/errors</a>
    </div>
  </div>
</body>
</html>`, bannerColor, banner, deps.String(), health.Runtime.UptimeSeconds, health.Traffic.TotalRequests)
}
