package picks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/extractor"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// Applier applies a prediction list to the live pool page. Predictions are
// matched to containers positionally: predictions[i] belongs to the i-th
// container on the page, same order the extractor captured.
type Applier struct {
	drv browser.Driver
	cfg config.PicksConfig
}

func New(drv browser.Driver, cfg config.PicksConfig) *Applier {
	return &Applier{drv: drv, cfg: cfg}
}

// Result counts what one application run did. A second run over the same
// page and predictions should report Applied == 0.
type Result struct {
	Applied    int
	AlreadySet int
	Skipped    int
}

// Apply walks the matchup containers and clicks the side named by the
// positional prediction, reading the current page state before every click
// so already-set picks are left alone. Per-matchup failures are skipped.
func (a *Applier) Apply(ctx context.Context, predictions models.Predictions) (Result, error) {
	var res Result

	if err := a.drv.WaitVisible(ctx, extractor.ContainerSelector, a.cfg.PageTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return res, fmt.Errorf("%w: %v", extractor.ErrNoMatchups, err)
		}
		return res, fmt.Errorf("waiting for matchup list: %w", err)
	}

	count, err := a.drv.Count(ctx, extractor.ContainerSelector)
	if err != nil {
		return res, fmt.Errorf("counting matchup containers: %w", err)
	}
	if count != len(predictions) {
		slog.Warn("Prediction count differs from page",
			"predictions", len(predictions), "containers", count)
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i >= len(predictions) {
			break
		}

		switch applied, err := a.applyOne(ctx, i, predictions[i]); {
		case err != nil:
			slog.Warn("Skipping matchup", "matchup", i+1, "error", err)
			res.Skipped++
		case applied == pickApplied:
			res.Applied++
		case applied == pickAlreadySet:
			res.AlreadySet++
		default:
			res.Skipped++
		}
	}

	slog.Info("Pick application finished",
		"applied", res.Applied, "already_set", res.AlreadySet, "skipped", res.Skipped)
	return res, nil
}

type applyOutcome int

const (
	pickSkipped applyOutcome = iota
	pickAlreadySet
	pickApplied
)

func (a *Applier) applyOne(ctx context.Context, index int, want teams.Code) (applyOutcome, error) {
	if want == "" {
		return pickSkipped, nil
	}

	html, err := a.drv.OuterHTML(ctx, extractor.ContainerSelector, index)
	if err != nil {
		return pickSkipped, fmt.Errorf("reading container: %w", err)
	}
	if html == "" {
		return pickSkipped, errors.New("container vanished")
	}

	m, err := extractor.ParseMatchupBase(html)
	if err != nil {
		return pickSkipped, err
	}

	if want != m.AwayTeam && want != m.HomeTeam {
		return pickSkipped, fmt.Errorf("predicted team %s not in matchup %s @ %s",
			want, m.AwayTeam, m.HomeTeam)
	}
	if m.PickedTeam == want {
		slog.Info("Pick already set", "matchup", index+1, "team", want)
		return pickAlreadySet, nil
	}

	side := extractor.HomeSideSelector
	if want == m.AwayTeam {
		side = extractor.AwaySideSelector
	}
	if err := a.drv.ClickIn(ctx, extractor.ContainerSelector, index, side); err != nil {
		return pickSkipped, fmt.Errorf("clicking team: %w", err)
	}
	slog.Info("Pick applied", "matchup", index+1, "team", want, "was", m.PickedTeam)

	// Give the page time to register the selection before the next click.
	time.Sleep(a.cfg.ClickDelay)
	return pickApplied, nil
}
