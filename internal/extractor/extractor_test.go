package extractor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// fakeDriver simulates the pool page: a list of container HTML fragments and
// an optional analysis panel per container. It tracks the open panel so the
// open-read-close discipline is observable.
type fakeDriver struct {
	containers []string
	panels     map[int]string

	openPanel   int // -1 when closed
	closeClicks int
	failRead    map[int]bool // OuterHTML errors for these container indexes
}

func newFakeDriver(containers []string, panels map[int]string) *fakeDriver {
	return &fakeDriver{containers: containers, panels: panels, openPanel: -1}
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error { return nil }

func (d *fakeDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	switch selector {
	case ContainerSelector:
		if len(d.containers) == 0 {
			return fmt.Errorf("%s: %w", selector, browser.ErrWaitTimeout)
		}
		return nil
	case PanelSelector:
		if d.openPanel < 0 {
			return fmt.Errorf("%s: %w", selector, browser.ErrWaitTimeout)
		}
		return nil
	}
	return nil
}

func (d *fakeDriver) Count(ctx context.Context, selector string) (int, error) {
	return len(d.containers), nil
}

func (d *fakeDriver) OuterHTML(ctx context.Context, selector string, index int) (string, error) {
	if selector == PanelSelector {
		if d.openPanel < 0 {
			return "", nil
		}
		return d.panels[d.openPanel], nil
	}
	if d.failRead[index] {
		return "", errors.New("read failed")
	}
	if index < 0 || index >= len(d.containers) {
		return "", nil
	}
	return d.containers[index], nil
}

func (d *fakeDriver) Click(ctx context.Context, selector string, index int) error {
	if selector == PanelCloseSelector {
		d.openPanel = -1
		d.closeClicks++
	}
	return nil
}

func (d *fakeDriver) ClickIn(ctx context.Context, selector string, index int, inner string) error {
	if inner == AnalysisButtonSelector {
		if _, ok := d.panels[index]; !ok {
			return errors.New("no analysis button")
		}
		d.openPanel = index
	}
	return nil
}

func (d *fakeDriver) Screenshot(ctx context.Context, path string) error { return nil }

func containerFor(away, home string) string {
	return fmt.Sprintf(`
<div class="MuiStack-root" data-cy="m">
  <h6 class="MuiTypography-subtitle2">Sun 1:00 PM</h6>
  <div class="MuiStack-root left-side"><h3 class="MuiTypography-h3">%s</h3><span class="MuiTypography-misc">1-0</span></div>
  <div class="MuiStack-root right-side"><h3 class="MuiTypography-h3">%s</h3><span class="MuiTypography-misc">0-1</span></div>
</div>`, away, home)
}

func testExtractor(drv browser.Driver) *Extractor {
	return New(drv, teams.NewRegistry(), config.ExtractorConfig{
		PageTimeout:  time.Second,
		PanelTimeout: time.Second,
	})
}

func TestExtract(t *testing.T) {
	drv := newFakeDriver(
		[]string{
			containerFor("SEAHAWKS", "RAMS"),
			containerFor("BILLS", "JETS"),
		},
		map[int]string{0: oddsPanelHTML},
	)

	schedule, err := testExtractor(drv).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(schedule.Matchups) != 2 {
		t.Fatalf("len(Matchups) = %d, want 2", len(schedule.Matchups))
	}
	if schedule.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	first := schedule.Matchups[0]
	if first.AwayTeam != "SEAHAWKS" || first.HomeTeam != "RAMS" {
		t.Errorf("matchup 0 = %s @ %s, want SEAHAWKS @ RAMS", first.AwayTeam, first.HomeTeam)
	}
	if first.Odds == nil || first.Odds.Current == nil {
		t.Error("matchup 0 missing enriched odds")
	}

	second := schedule.Matchups[1]
	if second.AwayTeam != "BILLS" || second.HomeTeam != "JETS" {
		t.Errorf("matchup 1 = %s @ %s, want BILLS @ JETS", second.AwayTeam, second.HomeTeam)
	}
	if second.Odds != nil {
		t.Error("matchup 1 has odds from another matchup's panel")
	}

	if drv.openPanel != -1 {
		t.Error("panel left open after extraction")
	}
	if drv.closeClicks != 1 {
		t.Errorf("closeClicks = %d, want 1", drv.closeClicks)
	}
}

// A failing container must not disturb its neighbors.
func TestExtractIsolation(t *testing.T) {
	drv := newFakeDriver(
		[]string{
			containerFor("SEAHAWKS", "RAMS"),
			containerFor("BILLS", "JETS"),
			containerFor("LIONS", "BEARS"),
		},
		nil,
	)
	drv.failRead = map[int]bool{1: true}

	schedule, err := testExtractor(drv).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(schedule.Matchups) != 2 {
		t.Fatalf("len(Matchups) = %d, want 2", len(schedule.Matchups))
	}
	if schedule.Matchups[0].AwayTeam != "SEAHAWKS" || schedule.Matchups[1].AwayTeam != "LIONS" {
		t.Errorf("surviving matchups = %s, %s; want SEAHAWKS, LIONS",
			schedule.Matchups[0].AwayTeam, schedule.Matchups[1].AwayTeam)
	}
}

func TestExtractDropsUnresolvedTeams(t *testing.T) {
	drv := newFakeDriver(
		[]string{
			`<div class="MuiStack-root" data-cy="m"><h6 class="MuiTypography-subtitle2">Sun</h6></div>`,
			containerFor("BILLS", "JETS"),
		},
		nil,
	)

	schedule, err := testExtractor(drv).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(schedule.Matchups) != 1 || schedule.Matchups[0].AwayTeam != "BILLS" {
		t.Fatalf("Matchups = %+v, want only BILLS @ JETS", schedule.Matchups)
	}
}

func TestExtractNoMatchups(t *testing.T) {
	drv := newFakeDriver(nil, nil)

	_, err := testExtractor(drv).Extract(context.Background())
	if !errors.Is(err, ErrNoMatchups) {
		t.Fatalf("Extract() error = %v, want ErrNoMatchups", err)
	}
}
