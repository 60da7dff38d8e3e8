package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// ErrNoMatchups reports that the page never reached the state where matchup
// containers are visible. Distinct from a successfully captured schedule
// with zero matchups (off-season).
var ErrNoMatchups = errors.New("no matchups found on page")

// Extractor turns the rendered pool page into a Schedule. It works one
// container at a time: base fields first, then the analysis panel is opened,
// read and closed before the next container is touched, so panel data never
// bleeds across matchups.
type Extractor struct {
	drv browser.Driver
	reg *teams.Registry
	cfg config.ExtractorConfig
}

func New(drv browser.Driver, reg *teams.Registry, cfg config.ExtractorConfig) *Extractor {
	return &Extractor{drv: drv, reg: reg, cfg: cfg}
}

// Extract walks all matchup containers on the already-navigated page.
// Per-matchup failures are logged and isolated; only the initial page-level
// wait is fatal, surfacing ErrNoMatchups.
func (e *Extractor) Extract(ctx context.Context) (*models.Schedule, error) {
	if err := e.drv.WaitVisible(ctx, ContainerSelector, e.cfg.PageTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrNoMatchups, err)
		}
		return nil, fmt.Errorf("waiting for matchup list: %w", err)
	}

	// Let the remaining dynamic content render.
	time.Sleep(e.cfg.SettleDelay)

	count, err := e.drv.Count(ctx, ContainerSelector)
	if err != nil {
		return nil, fmt.Errorf("counting matchup containers: %w", err)
	}
	slog.Info("Found matchup containers", "count", count)

	schedule := &models.Schedule{Timestamp: time.Now()}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, ok := e.extractMatchup(ctx, i, count)
		if !ok {
			continue
		}
		schedule.Matchups = append(schedule.Matchups, m)
	}

	return schedule, nil
}

// extractMatchup reads one container. Returns ok=false when the matchup has
// to be dropped; sibling matchups are unaffected either way.
func (e *Extractor) extractMatchup(ctx context.Context, index, total int) (models.Matchup, bool) {
	slog.Info("Processing matchup", "index", index+1, "total", total)

	html, err := e.drv.OuterHTML(ctx, ContainerSelector, index)
	if err != nil || html == "" {
		slog.Warn("Failed to read matchup container", "index", index, "error", err)
		return models.Matchup{}, false
	}

	m, err := ParseMatchupBase(html)
	if err != nil {
		slog.Warn("Failed to parse matchup container", "index", index, "error", err)
		return models.Matchup{}, false
	}

	// Enrichment is best-effort: any panel failure leaves the base record
	// intact and moves on.
	e.enrich(ctx, index, &m)

	if !HasDecidableTeams(m) {
		slog.Warn("Dropping matchup without two resolved teams",
			"index", index, "away", m.AwayTeam, "home", m.HomeTeam)
		return models.Matchup{}, false
	}

	pickInfo := ""
	if m.PickedTeam != "" {
		pickInfo = string(m.PickedTeam)
	}
	slog.Info("Extracted matchup",
		"away", m.AwayTeam, "away_record", m.AwayRecord,
		"home", m.HomeTeam, "home_record", m.HomeRecord,
		"game_time", m.GameTime, "network", m.Network, "picked", pickInfo)

	return m, true
}

// enrich opens the container's analysis panel, reads the three sub-blocks
// independently, and closes the panel again. Every step is non-fatal.
func (e *Extractor) enrich(ctx context.Context, index int, m *models.Matchup) {
	if err := e.drv.ClickIn(ctx, ContainerSelector, index, AnalysisButtonSelector); err != nil {
		slog.Warn("No matchup analysis button", "index", index, "error", err)
		return
	}
	// Whatever happens inside, the panel must be closed before the next
	// container is processed.
	defer e.closePanel(ctx, index)

	if err := e.drv.WaitVisible(ctx, PanelSelector, e.cfg.PanelTimeout); err != nil {
		slog.Warn("Analysis panel did not appear", "index", index, "error", err)
		return
	}
	time.Sleep(e.cfg.PanelSettle)

	html, err := e.drv.OuterHTML(ctx, PanelSelector, 0)
	if err != nil || html == "" {
		slog.Warn("Failed to read analysis panel", "index", index, "error", err)
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("Failed to parse analysis panel", "index", index, "error", err)
		return
	}

	if odds := ParseOdds(doc); odds != nil {
		m.Odds = odds
		slog.Debug("Added odds data to matchup", "index", index)
	}
	if picks := ParseExpertPicks(doc, e.reg); picks != nil {
		m.ExpertPicks = picks
		slog.Debug("Added expert picks to matchup", "index", index)
	}
	if stats := ParseMatchupStats(doc, e.reg); stats != nil {
		m.MatchupStats = stats
		slog.Debug("Added matchup stats to matchup", "index", index)
	}
}

func (e *Extractor) closePanel(ctx context.Context, index int) {
	if err := e.drv.Click(ctx, PanelCloseSelector, 0); err != nil {
		slog.Warn("Could not find panel close button", "index", index, "error", err)
		return
	}
	time.Sleep(e.cfg.CloseDelay)
}
