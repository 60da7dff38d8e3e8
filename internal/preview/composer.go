package preview

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
	"github.com/grace-raper/cbs-pickems-agent/internal/predictor"
)

// Composer renders shareable pick-sheet images: the week's picks split in
// two halves, one 768x1280 PNG each, rendered through the browser from a
// self-contained HTML page.
type Composer struct {
	drv   browser.Driver
	icons *IconStore
}

// New builds a composer. icons may be nil; cards then render without logos.
func New(drv browser.Driver, icons *IconStore) *Composer {
	return &Composer{drv: drv, icons: icons}
}

var (
	weekDirPattern = regexp.MustCompile(`week-(\d+)`)
	dayPattern     = regexp.MustCompile(`\b(Mon|Tue|Wed|Thu|Fri|Sat|Sun)\b`)
	clockPattern   = regexp.MustCompile(`\d+:\d+ [AP]M`)
)

// Generate writes my_picks_1.png and my_picks_2.png into dir. The week
// number in the title comes from the dir name when it looks like a week
// folder, 0 otherwise.
func (c *Composer) Generate(ctx context.Context, schedule *models.Schedule, predictions models.Predictions, dir string) error {
	week := 0
	if m := weekDirPattern.FindStringSubmatch(dir); m != nil {
		week, _ = strconv.Atoi(m[1])
	}

	games := buildGameViews(schedule, predictions, c.icons)
	half := len(games) / 2
	halves := [][]gameView{games[:half], games[half:]}

	for i, part := range halves {
		title := fmt.Sprintf("WEEK %d PICKS (%d/2)", week, i+1)
		out := filepath.Join(dir, fmt.Sprintf("my_picks_%d.png", i+1))
		if err := c.renderOne(ctx, part, title, seasonLabel(schedule.Timestamp), out); err != nil {
			return fmt.Errorf("rendering %s: %w", out, err)
		}
		slog.Info("Preview image written", "path", out, "games", len(part))
	}
	return nil
}

func (c *Composer) renderOne(ctx context.Context, games []gameView, title, season, outPath string) error {
	var buf strings.Builder
	data := pageData{Title: title, Season: season, Games: games}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	tmp, err := os.CreateTemp("", "picks-preview-*.html")
	if err != nil {
		return fmt.Errorf("creating temp page: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(buf.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	abs, err := filepath.Abs(tmp.Name())
	if err != nil {
		return err
	}
	if err := c.drv.Navigate(ctx, "file://"+abs); err != nil {
		return fmt.Errorf("loading preview page: %w", err)
	}
	if err := c.drv.Screenshot(ctx, outPath); err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	return nil
}

// seasonLabel formats a capture time as an NFL season, e.g. "2025-26".
// Captures before August belong to the season that started the prior year.
func seasonLabel(t time.Time) string {
	start := t.Year()
	if t.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

type pageData struct {
	Title  string
	Season string
	Games  []gameView
}

type gameView struct {
	Date   string
	Time   string
	Spread string
	Away   teamView
	Home   teamView
}

type teamView struct {
	Name   string
	Record string
	Logo   template.URL // inline SVG data URI, empty without an icon
	Picked bool
	// CSS backgrounds, filled only when Picked.
	Background template.CSS
	Border     template.CSS
}

func buildGameViews(schedule *models.Schedule, predictions models.Predictions, icons *IconStore) []gameView {
	games := make([]gameView, 0, len(schedule.Matchups))
	for i, m := range schedule.Matchups {
		var pick teams.Code
		if i < len(predictions) {
			pick = predictions[i]
		}
		games = append(games, gameView{
			Date:   dayPattern.FindString(m.GameTime),
			Time:   clockPattern.FindString(m.GameTime),
			Spread: spreadLabel(m),
			Away:   newTeamView(m.AwayTeam, m.AwayRecord, pick == m.AwayTeam, icons),
			Home:   newTeamView(m.HomeTeam, m.HomeRecord, pick == m.HomeTeam, icons),
		})
	}
	return games
}

func newTeamView(team teams.Code, record string, picked bool, icons *IconStore) teamView {
	v := teamView{Name: string(team), Record: record, Logo: icons.DataURI(team), Picked: picked}
	if picked {
		r, g, b := teamColor(team)
		v.Background = template.CSS(fmt.Sprintf("rgba(%d, %d, %d, 0.2)", r, g, b))
		v.Border = template.CSS(fmt.Sprintf("3px solid rgba(%d, %d, %d, 1.0)", r, g, b))
	}
	return v
}

// spreadLabel summarizes the current spread, favorite first, e.g.
// "SEAHAWKS -3.5". Empty when no team spread is on record.
func spreadLabel(m models.Matchup) string {
	favorite, spread := predictor.SpreadFavorite(m)
	if favorite == "" {
		return ""
	}
	return fmt.Sprintf("%s -%.1f", favorite, spread)
}

var teamColors = map[teams.Code][3]int{
	"CARDINALS":  {185, 28, 28},
	"FALCONS":    {220, 38, 38},
	"RAVENS":     {88, 28, 135},
	"BILLS":      {29, 78, 216},
	"PANTHERS":   {30, 64, 175},
	"BEARS":      {30, 58, 138},
	"BENGALS":    {234, 88, 12},
	"COWBOYS":    {30, 64, 175},
	"BRONCOS":    {194, 65, 12},
	"LIONS":      {59, 130, 246},
	"PACKERS":    {21, 128, 61},
	"COLTS":      {37, 99, 235},
	"JAGUARS":    {17, 94, 89},
	"CHIEFS":     {220, 38, 38},
	"DOLPHINS":   {20, 184, 166},
	"VIKINGS":    {88, 28, 135},
	"PATRIOTS":   {30, 58, 138},
	"SAINTS":     {161, 98, 7},
	"GIANTS":     {30, 64, 175},
	"JETS":       {22, 101, 52},
	"RAIDERS":    {0, 0, 0},
	"EAGLES":     {17, 94, 89},
	"STEELERS":   {234, 179, 8},
	"RAMS":       {29, 78, 216},
	"CHARGERS":   {37, 99, 235},
	"49ERS":      {185, 28, 28},
	"SEAHAWKS":   {30, 64, 175},
	"BUCCANEERS": {153, 27, 27},
	"TITANS":     {30, 64, 175},
	"COMMANDERS": {153, 27, 27},
	"BROWNS":     {194, 65, 12},
	"TEXANS":     {153, 27, 27},
}

func teamColor(team teams.Code) (int, int, int) {
	if c, ok := teamColors[team]; ok {
		return c[0], c[1], c[2]
	}
	return 107, 114, 128
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>NFL Picks</title>
<style>
  body { margin: 0; display: flex; justify-content: center; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background-color: #0a1f44; }
  .container { width: 768px; height: 1280px; background-color: #0a1f44; display: flex; justify-content: center; }
  .content { width: 640px; margin-top: 40px; }
  .header { background-color: #e5e7eb; color: #1f2937; text-align: center; padding: 24px 0; border-radius: 8px; border-bottom: 4px solid #eab308; margin-bottom: 24px; }
  .header h1 { margin: 0; font-size: 1.875rem; }
  .header h2 { margin: 0; font-size: 2.25rem; letter-spacing: -0.025em; }
  .game-card { border-radius: 12px; overflow: hidden; margin-bottom: 12px; background-color: #f3f4f6; }
  .game-header { display: grid; grid-template-columns: 1fr 1fr 1fr; padding: 8px 12px; background-color: #e5e7eb; border-bottom: 1px solid #d1d5db; color: #374151; font-size: 0.875rem; }
  .game-time { text-align: center; font-weight: 500; }
  .game-spread { text-align: right; font-weight: 500; }
  .team-container { display: flex; justify-content: space-between; align-items: center; padding: 10px; }
  .team-box { display: flex; align-items: center; padding: 8px; border-radius: 8px; width: 44%; }
  .team-logo { width: 40px; height: 40px; display: flex; align-items: center; justify-content: center; flex-shrink: 0; }
  .team-logo img { width: 100%; height: 100%; object-fit: contain; }
  .team-info { margin-left: 16px; margin-right: 16px; flex-grow: 1; overflow: hidden; }
  .team-name { font-weight: bold; color: #111827; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
  .team-record { font-size: 0.75rem; color: #6b7280; }
  .vs-text { font-size: 0.875rem; color: #6b7280; margin: 0 8px; }
  .right { text-align: right; }
</style>
</head>
<body>
<div class="container">
  <div class="content">
    <div class="header">
      <h1>{{.Season}}</h1>
      <h2>{{.Title}}</h2>
    </div>
    {{range .Games}}
    <div class="game-card">
      <div class="game-header">
        <div>{{.Date}}</div>
        <div class="game-time">{{.Time}}</div>
        <div class="game-spread">{{.Spread}}</div>
      </div>
      <div class="team-container">
        <div class="team-box"{{if .Away.Picked}} style="background: {{.Away.Background}}; border: {{.Away.Border}}"{{end}}>
          <div class="team-logo">{{if .Away.Logo}}<img src="{{.Away.Logo}}" alt="{{.Away.Name}}">{{end}}</div>
          <div class="team-info">
            <div class="team-name">{{.Away.Name}}</div>
            <div class="team-record">{{.Away.Record}}</div>
          </div>
        </div>
        <div class="vs-text">@</div>
        <div class="team-box"{{if .Home.Picked}} style="background: {{.Home.Background}}; border: {{.Home.Border}}"{{end}}>
          <div class="team-info right">
            <div class="team-name">{{.Home.Name}}</div>
            <div class="team-record">{{.Home.Record}}</div>
          </div>
          <div class="team-logo">{{if .Home.Logo}}<img src="{{.Home.Logo}}" alt="{{.Home.Name}}">{{end}}</div>
        </div>
      </div>
    </div>
    {{end}}
  </div>
</div>
</body>
</html>
`))
