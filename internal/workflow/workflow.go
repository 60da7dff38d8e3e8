package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/extractor"
	"github.com/grace-raper/cbs-pickems-agent/internal/notify"
	"github.com/grace-raper/cbs-pickems-agent/internal/picks"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/storage"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
	"github.com/grace-raper/cbs-pickems-agent/internal/predictor"
	"github.com/grace-raper/cbs-pickems-agent/internal/preview"
)

// ErrSessionExpired reports that the saved CBS session no longer reaches the
// logged-in pool page. Recovery is manual: run the login tool.
var ErrSessionExpired = errors.New("saved session is expired or missing")

// Workflow runs the whole weekly pipeline in one shot: session check,
// extraction, prediction, pick application, previews, optional git sync and
// a Telegram summary. Each stage logs its outcome; preview and git failures
// are warnings, everything before them is fatal.
type Workflow struct {
	cfg      *config.Config
	notifier *notify.TelegramNotifier
}

func New(cfg *config.Config, notifier *notify.TelegramNotifier) *Workflow {
	return &Workflow{cfg: cfg, notifier: notifier}
}

func (w *Workflow) Run(ctx context.Context) error {
	session, err := browser.NewSession(&w.cfg.Browser, w.cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	if !session.HasState() {
		w.notifier.NotifySessionExpired()
		return fmt.Errorf("%w: no saved state at %s", ErrSessionExpired, w.cfg.Pool.StateFile)
	}
	if err := session.RestoreState(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	drv := session.Driver()
	if err := drv.Navigate(ctx, w.cfg.Pool.URL); err != nil {
		return fmt.Errorf("opening pool page: %w", err)
	}

	// Extract. A page with no matchup containers means the session bounced
	// to the login page, not an off-season week.
	reg := teams.NewRegistryWithOverrides(w.cfg.Teams.Overrides)
	schedule, err := extractor.New(drv, reg, w.cfg.Extractor).Extract(ctx)
	if err != nil {
		if errors.Is(err, extractor.ErrNoMatchups) {
			w.notifier.NotifySessionExpired()
			return fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		w.notifier.NotifyError("extraction", err)
		return fmt.Errorf("extracting matchups: %w", err)
	}
	slog.Info("Extraction complete", "matchups", len(schedule.Matchups))

	// Persist the schedule, archiving as a side channel.
	store := storage.NewFileStore(w.cfg.Storage.RootDir)
	schedulePath := store.DefaultSchedulePath()
	if err := store.SaveSchedule(schedulePath, schedule); err != nil {
		w.notifier.NotifyError("saving schedule", err)
		return fmt.Errorf("saving schedule: %w", err)
	}
	slog.Info("Schedule saved", "path", schedulePath)
	w.archive(ctx, func(a storage.Archive) error { return a.ArchiveSchedule(ctx, schedule) })

	// Predict and persist.
	predictions := predictor.New(w.cfg.Predictor).Predict(schedule)
	predictionsPath := storage.PredictionsPathFor(schedulePath)
	if err := store.SavePredictions(predictionsPath, predictions); err != nil {
		w.notifier.NotifyError("saving predictions", err)
		return fmt.Errorf("saving predictions: %w", err)
	}
	slog.Info("Predictions saved", "path", predictionsPath)
	w.archive(ctx, func(a storage.Archive) error { return a.ArchivePredictions(ctx, schedule, predictions) })

	// Apply picks on the already-open page.
	result, err := picks.New(drv, w.cfg.Picks).Apply(ctx, predictions)
	if err != nil {
		w.notifier.NotifyError("applying picks", err)
		return fmt.Errorf("applying picks: %w", err)
	}

	if err := session.SaveState(ctx); err != nil {
		slog.Warn("Failed to refresh saved session", "error", err)
	}

	// Previews and git sync are best effort after picks are in.
	weekDir := filepath.Dir(schedulePath)
	icons := preview.NewIconStore(w.cfg.Preview.IconsDir, reg)
	if _, err := icons.Fetch(ctx); err != nil {
		slog.Warn("Icon refresh failed", "error", err)
	}
	if err := preview.New(drv, icons).Generate(ctx, schedule, predictions, weekDir); err != nil {
		slog.Warn("Preview generation failed", "error", err)
	}
	if w.cfg.Workflow.GitCommit {
		if err := w.gitSync(ctx, weekDir); err != nil {
			slog.Warn("Git sync failed", "error", err)
		}
	}

	w.notifier.NotifyWeekComplete(schedule, predictions, result)
	slog.Info("Workflow complete",
		"matchups", len(schedule.Matchups),
		"applied", result.Applied, "already_set", result.AlreadySet, "skipped", result.Skipped)
	return nil
}

// archive runs fn against the Postgres archive when one is configured.
// Archive failures never fail the run; the file store is the document of
// record.
func (w *Workflow) archive(ctx context.Context, fn func(storage.Archive) error) {
	if w.cfg.Postgres.DSN == "" {
		return
	}
	arch, err := storage.NewPostgresArchive(&w.cfg.Postgres)
	if err != nil {
		slog.Warn("Postgres archive unavailable", "error", err)
		return
	}
	defer arch.Close()
	if err := fn(arch); err != nil {
		slog.Warn("Postgres archive write failed", "error", err)
	}
}

// gitSync commits the week folder and optionally pushes.
func (w *Workflow) gitSync(ctx context.Context, weekDir string) error {
	status, err := gitOutput(ctx, "status", "--porcelain", weekDir)
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		slog.Info("No changes to commit")
		return nil
	}

	if _, err := gitOutput(ctx, "add", weekDir); err != nil {
		return err
	}
	message := fmt.Sprintf("Update picks for %s", filepath.ToSlash(weekDir))
	if _, err := gitOutput(ctx, "commit", "-m", message); err != nil {
		return err
	}
	slog.Info("Committed week folder", "dir", weekDir)

	if w.cfg.Workflow.GitPush {
		if _, err := gitOutput(ctx, "push"); err != nil {
			return err
		}
		slog.Info("Pushed to remote")
	}
	return nil
}

func gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
