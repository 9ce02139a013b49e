package dashboard

import (
	"fmt"
	"html/template"

	"PeakWatch/internal/model"
)

// pageData is everything the card template needs: the core's snapshot plus
// the style record. One template serves every card, no per-variant markup.
type pageData struct {
	Snapshot *model.Snapshot
	Style    Style
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"num":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":    func(v float64) string { return fmt.Sprintf("%+.2f%%", v) },
	"score":  func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"color":  colorFor,
	"remote": func(p model.Provenance) bool { return p.Remote() },
}).Parse(pageHTML))

// colorFor maps the core's sign hint to a card color.
func colorFor(m model.IndexMetric, st Style) template.CSS {
	if !m.HasData {
		return template.CSS(st.MutedColor)
	}
	if m.Up {
		return template.CSS(st.UpColor)
	}
	return template.CSS(st.DownColor)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.Style.RefreshSeconds}}">
<title>Major Indices vs 52-Week High | PeakWatch</title>
<meta name="description" content="Live distance of NASDAQ, S&amp;P 500 and Dow Jones from their trailing 52-week highs, with the date each peak was set.">
<style>
body { font-family: -apple-system, 'Segoe UI', sans-serif; background: #f8f9fa; margin: 0; padding: 2rem; }
h1 { font-size: 1.6rem; }
.cards { display: flex; flex-wrap: wrap; gap: 1rem; }
.card { background: #fff; border-radius: 12px; padding: 1.5rem; min-width: 240px; flex: 1; box-shadow: 0 1px 4px rgba(0,0,0,.08); }
.card .name { font-size: 1.1rem; color: #495057; }
.card .gap { font-size: 2.6rem; font-weight: 700; }
.card .line { font-size: .85rem; color: #868e96; margin-top: .4rem; }
.badge { font-size: .7rem; padding: 2px 8px; border-radius: 8px; background: #e9ecef; color: #495057; vertical-align: middle; }
</style>
</head>
<body>
<h1>&#128200; Major Indices vs 52-Week High</h1>
{{if .Snapshot}}
<div class="cards">
{{range .Snapshot.Indices}}
  <div class="card">
    <div class="name">{{.Label}}</div>
    {{if .HasData}}
    <div class="gap" style="color: {{color . $.Style}}">{{pct .GapPercent}}</div>
    <div class="line">Now {{num .Current}} &middot; Peak {{num .ReferenceHigh}} ({{.ReferenceDate}})</div>
    <div class="line" style="color: {{color . $.Style}}">Day {{pct .ChangePct}} ({{num .Change}})</div>
    {{else}}
    <div class="gap" style="color: {{color . $.Style}}">N/A</div>
    <div class="line">data unavailable</div>
    {{end}}
  </div>
{{end}}
  <div class="card">
    <div class="name">Fear &amp; Greed
      {{if not (remote .Snapshot.Sentiment.Provenance)}}<span class="badge">{{.Snapshot.Sentiment.Provenance}}</span>{{end}}
    </div>
    <div class="gap">{{score .Snapshot.Sentiment.Score}}</div>
    <div class="line">{{.Snapshot.Sentiment.Label}}</div>
  </div>
  <div class="card">
    <div class="name">Volatility (VIX)</div>
    {{if .Snapshot.VolatilityOK}}
    <div class="gap">{{num .Snapshot.Volatility}}</div>
    {{else}}
    <div class="gap">N/A</div>
    {{end}}
  </div>
</div>
<p class="line">Updated {{.Snapshot.GeneratedAt.Format "2006-01-02 15:04:05"}} &middot; refreshes every {{.Style.RefreshSeconds}}s</p>
{{else}}
<p>Warming up, first refresh in progress&hellip;</p>
{{end}}
</body>
</html>
`
