package server

import (
	"bytes"
	"html/template"
	"mirrorsync/internal/store"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

type dashboardData struct {
	Title       string
	LastRun     string
	TotalRuns   int64
	ActiveJobs  int
	SuccessRate int
	Jobs        []jobCard
}

type jobCard struct {
	Name         string
	Source       string
	Destination  string
	BadgeClass   string
	BadgeText    string
	LastRun      string
	Duration     string
	Transferred  string
	SuccessCount int64
	FailureCount int64
	Excerpt      string
}

func (s *Server) handleDashboard(c echo.Context) error {
	cfg := s.config()

	record, err := store.Load(cfg.Settings.StatusPath)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	data := dashboardData{
		Title:     cfg.Settings.Web.Title,
		LastRun:   "Never",
		TotalRuns: record.TotalRuns,
	}

	if record.LastRun != nil {
		data.LastRun = humanize.Time(*record.LastRun)
	}

	var succeeded, known int
	for _, job := range cfg.SyncJobs {
		if !job.IsEnabled() {
			continue
		}
		data.ActiveJobs++

		card := jobCard{
			Name:        job.Name,
			Source:      job.Source,
			Destination: job.Destination,
			BadgeClass:  "never",
			BadgeText:   "Never Run",
			LastRun:     "-",
			Duration:    "-",
			Transferred: "-",
		}

		if js := record.Jobs[job.Name]; js != nil && js.LastResult != nil {
			known++
			card.SuccessCount = js.SuccessCount
			card.FailureCount = js.FailureCount
			card.LastRun = js.LastResult.StartedAt.Format("2006-01-02 15:04:05")
			card.Duration = js.LastResult.Duration.Round(time.Second).String()

			if js.LastResult.BytesTransferred > 0 {
				card.Transferred = humanize.Bytes(uint64(js.LastResult.BytesTransferred))
			}

			if js.LastResult.Failed() {
				card.BadgeClass = "error"
				card.BadgeText = "Failed"
				card.Excerpt = js.LastResult.ErrorExcerpt
			} else {
				succeeded++
				card.BadgeClass = "success"
				card.BadgeText = "Success"
			}
		}

		data.Jobs = append(data.Jobs, card)
	}

	data.SuccessRate = 100
	if known > 0 {
		data.SuccessRate = succeeded * 100 / known
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.HTML(http.StatusOK, buf.String())
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
.container { max-width: 1100px; margin: 0 auto; background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,.1); overflow: hidden; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #fff; padding: 28px; text-align: center; }
.header h1 { margin: 0; font-size: 1.8em; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; padding: 24px; background: #f8f9fa; }
.card { background: #fff; padding: 16px; border-radius: 6px; box-shadow: 0 2px 4px rgba(0,0,0,.1); text-align: center; }
.card h3 { margin: 0 0 8px; color: #666; font-size: .8em; text-transform: uppercase; letter-spacing: 1px; }
.card .value { font-size: 1.6em; font-weight: bold; color: #333; }
.jobs { padding: 24px; }
.job { border: 1px solid #e1e5e9; border-radius: 6px; margin-bottom: 16px; overflow: hidden; }
.job-header { padding: 14px 18px; background: #f8f9fa; border-bottom: 1px solid #e1e5e9; display: flex; justify-content: space-between; align-items: center; }
.job-name { font-size: 1.1em; font-weight: bold; }
.badge { padding: 4px 12px; border-radius: 20px; font-size: .75em; font-weight: bold; text-transform: uppercase; }
.badge.success { background: #d4edda; color: #155724; }
.badge.error { background: #f8d7da; color: #721c24; }
.badge.never { background: #e2e3e5; color: #6c757d; }
.job-details { padding: 14px 18px; display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 8px; }
.detail { display: flex; justify-content: space-between; padding: 6px 0; border-bottom: 1px solid #f0f0f0; }
.detail .label { color: #666; font-weight: 500; }
.detail .value { color: #333; font-family: monospace; font-size: .85em; word-break: break-all; }
.excerpt { margin: 0 18px 14px; padding: 10px; background: #fff5f5; border-radius: 4px; color: #721c24; font-family: monospace; font-size: .8em; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Title}}</h1>
    <p>Backup synchronization status</p>
  </div>
  <div class="summary">
    <div class="card"><h3>Last Run</h3><div class="value">{{.LastRun}}</div></div>
    <div class="card"><h3>Total Runs</h3><div class="value">{{.TotalRuns}}</div></div>
    <div class="card"><h3>Active Jobs</h3><div class="value">{{.ActiveJobs}}</div></div>
    <div class="card"><h3>Success Rate</h3><div class="value">{{.SuccessRate}}%</div></div>
  </div>
  <div class="jobs">
    <h2>Sync Jobs</h2>
    {{range .Jobs}}
    <div class="job">
      <div class="job-header">
        <div class="job-name">{{.Name}}</div>
        <div class="badge {{.BadgeClass}}">{{.BadgeText}}</div>
      </div>
      <div class="job-details">
        <div class="detail"><span class="label">Source</span><span class="value">{{.Source}}</span></div>
        <div class="detail"><span class="label">Destination</span><span class="value">{{.Destination}}</span></div>
        <div class="detail"><span class="label">Last Run</span><span class="value">{{.LastRun}}</span></div>
        <div class="detail"><span class="label">Duration</span><span class="value">{{.Duration}}</span></div>
        <div class="detail"><span class="label">Transferred</span><span class="value">{{.Transferred}}</span></div>
        <div class="detail"><span class="label">Runs</span><span class="value">{{.SuccessCount}} ok / {{.FailureCount}} failed</span></div>
      </div>
      {{if .Excerpt}}<div class="excerpt">{{.Excerpt}}</div>{{end}}
    </div>
    {{end}}
  </div>
</div>
<script>setTimeout(function () { location.reload(); }, 30000);</script>
</body>
</html>
`))
