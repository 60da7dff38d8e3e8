package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

const containerHTML = `
<div class="MuiStack-root" data-cy="matchup-0">
  <div class="MuiBox-root">
    <h6 class="MuiTypography-subtitle2">Sun 1:00 PM</h6>
    <h6 class="MuiTypography-subtitle2">|</h6>
    <h6 class="MuiTypography-subtitle2">CBS</h6>
  </div>
  <div class="MuiStack-root left-side">
    <h3 class="MuiTypography-h3">SEAHAWKS</h3>
    <span class="MuiTypography-misc">3-1</span>
  </div>
  <div class="MuiStack-root right-side item-selected">
    <h3 class="MuiTypography-h3">RAMS</h3>
    <span class="MuiTypography-misc">2-2</span>
  </div>
  <button data-cy="matchup-analysis">Analysis</button>
</div>`

func TestParseMatchupBase(t *testing.T) {
	m, err := ParseMatchupBase(containerHTML)
	if err != nil {
		t.Fatalf("ParseMatchupBase() error: %v", err)
	}

	if m.GameTime != "Sun 1:00 PM" {
		t.Errorf("GameTime = %q, want %q", m.GameTime, "Sun 1:00 PM")
	}
	if m.Network != "CBS" {
		t.Errorf("Network = %q, want CBS", m.Network)
	}
	if m.AwayTeam != "SEAHAWKS" || m.AwayRecord != "3-1" {
		t.Errorf("away = (%q, %q), want (SEAHAWKS, 3-1)", m.AwayTeam, m.AwayRecord)
	}
	if m.HomeTeam != "RAMS" || m.HomeRecord != "2-2" {
		t.Errorf("home = (%q, %q), want (RAMS, 2-2)", m.HomeTeam, m.HomeRecord)
	}
	if m.PickedTeam != "RAMS" {
		t.Errorf("PickedTeam = %q, want RAMS", m.PickedTeam)
	}
}

func TestParseMatchupBaseSentinels(t *testing.T) {
	m, err := ParseMatchupBase(`<div class="MuiStack-root" data-cy="matchup-0"></div>`)
	if err != nil {
		t.Fatalf("ParseMatchupBase() error: %v", err)
	}

	if m.GameTime != models.TimeNotFound {
		t.Errorf("GameTime = %q, want sentinel", m.GameTime)
	}
	if m.AwayTeam != models.TeamNotFound || m.HomeTeam != models.TeamNotFound {
		t.Errorf("teams = (%q, %q), want sentinels", m.AwayTeam, m.HomeTeam)
	}
	if m.AwayRecord != models.RecordNotFound {
		t.Errorf("AwayRecord = %q, want sentinel", m.AwayRecord)
	}
	if m.PickedTeam != "" {
		t.Errorf("PickedTeam = %q, want empty", m.PickedTeam)
	}
}

func TestHasDecidableTeams(t *testing.T) {
	tests := []struct {
		name string
		away teams.Code
		home teams.Code
		want bool
	}{
		{"both resolved", "SEAHAWKS", "RAMS", true},
		{"away sentinel", models.TeamNotFound, "RAMS", false},
		{"home sentinel", "SEAHAWKS", models.TeamNotFound, false},
		{"away empty", "", "RAMS", false},
		{"same team twice", "RAMS", "RAMS", false},
	}
	for _, tt := range tests {
		m := models.Matchup{AwayTeam: tt.away, HomeTeam: tt.home}
		if got := HasDecidableTeams(m); got != tt.want {
			t.Errorf("%s: HasDecidableTeams() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

const oddsPanelHTML = `
<div class="MuiDialog-root">
  <div class="MuiStack-root latest-odds">
    <div class="MuiStack-root">
      <p class="MuiTypography-body1">SEA</p>
    </div>
    <div class="MuiStack-root">
      <p class="MuiTypography-body1">LAR</p>
    </div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">+3.5</p><p class="MuiTypography-body1">-110</p></div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">+150</p></div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">o47.5</p><p class="MuiTypography-body1">-105</p></div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">-3.5</p><p class="MuiTypography-body1">-110</p></div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">-180</p></div>
    <div class="MuiBox-root mui-style-1wwjoop"><p class="MuiTypography-body1">u47.5</p><p class="MuiTypography-body1">-115</p></div>
  </div>
  <div class="MuiStack-root table-footer">
    <div class="MuiStack-root">
      <p class="MuiTypography-body1">Opening</p>
      <p class="MuiTypography-body1">-3</p>
      <p class="MuiTypography-body1">46.5</p>
    </div>
  </div>
</div>`

func TestParseOdds(t *testing.T) {
	doc := mustDoc(t, oddsPanelHTML)

	block := ParseOdds(doc)
	if block == nil {
		t.Fatal("ParseOdds() = nil, want block")
	}
	if block.AwayTeamOdds != "SEA" || block.HomeTeamOdds != "LAR" {
		t.Errorf("team labels = (%q, %q), want (SEA, LAR)", block.AwayTeamOdds, block.HomeTeamOdds)
	}
	if block.Current == nil {
		t.Fatal("Current = nil, want parsed odds")
	}
	if block.Current.Away.Spread != "+3.5" || block.Current.Away.SpreadOdds != "-110" {
		t.Errorf("away spread = (%q, %q)", block.Current.Away.Spread, block.Current.Away.SpreadOdds)
	}
	if block.Current.Away.Money != "+150" {
		t.Errorf("away money = %q, want +150", block.Current.Away.Money)
	}
	if block.Current.Home.Spread != "-3.5" || block.Current.Home.Money != "-180" {
		t.Errorf("home = (%q, %q), want (-3.5, -180)", block.Current.Home.Spread, block.Current.Home.Money)
	}
	if block.Current.Home.Total != "u47.5" || block.Current.Home.TotalOdds != "-115" {
		t.Errorf("home total = (%q, %q), want (u47.5, -115)", block.Current.Home.Total, block.Current.Home.TotalOdds)
	}
	if block.Opening == nil || block.Opening.Spread != "-3" || block.Opening.Total != "46.5" {
		t.Errorf("Opening = %+v, want (-3, 46.5)", block.Opening)
	}
}

func TestParseOddsAbsent(t *testing.T) {
	doc := mustDoc(t, `<div class="MuiDialog-root"><p>nothing here</p></div>`)
	if block := ParseOdds(doc); block != nil {
		t.Errorf("ParseOdds() = %+v, want nil", block)
	}
}

const expertPanelHTML = `
<div class="MuiDialog-root">
  <h3 class="MuiTypography-h3">Expert Picks</h3>
  <div class="MuiStack-root">
    <div class="MuiStack-root">
      <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/430.svg"/></div>
      <p class="MuiTypography-body1">9 Picks</p>
    </div>
    <div class="MuiStack-root">
      <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/427.svg"/></div>
      <p class="MuiTypography-body1">3 Picks</p>
    </div>
  </div>
  <div class="MuiTabs-list">
    <div class="MuiStack-root" id="expert-1">
      <h6 class="MuiTypography-subtitle1">Pete Prisco</h6>
      <span class="MuiTypography-misc">Senior NFL Columnist</span>
      <span class="MuiTypography-menu">42-21</span>
      <div class="MuiStack-root">
        <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/430.svg"/></div>
        <span class="MuiTypography-misc">SEA -3.5</span>
      </div>
    </div>
    <div class="MuiStack-root" id="expert-2">
      <h6 class="MuiTypography-subtitle1">Jared Dubin</h6>
      <span class="MuiTypography-misc">NFL Writer</span>
      <span class="MuiTypography-menu">40-23</span>
      <div class="MuiStack-root">
        <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/427.svg"/></div>
        <span class="MuiTypography-misc">LAR +3.5</span>
      </div>
    </div>
  </div>
</div>`

func TestParseExpertPicks(t *testing.T) {
	doc := mustDoc(t, expertPanelHTML)
	reg := teams.NewRegistry()

	block := ParseExpertPicks(doc, reg)
	if block == nil {
		t.Fatal("ParseExpertPicks() = nil, want block")
	}

	if got := block.TeamPicks["SEAHAWKS"]; got != "9 Picks" {
		t.Errorf("TeamPicks[SEAHAWKS] = %q, want 9 Picks", got)
	}
	if got := block.TeamPicks["RAMS"]; got != "3 Picks" {
		t.Errorf("TeamPicks[RAMS] = %q, want 3 Picks", got)
	}

	if len(block.Experts) != 2 {
		t.Fatalf("len(Experts) = %d, want 2", len(block.Experts))
	}
	first := block.Experts[0]
	if first.Name != "Pete Prisco" || first.Role != "Senior NFL Columnist" || first.Record != "42-21" {
		t.Errorf("expert header = (%q, %q, %q)", first.Name, first.Role, first.Record)
	}
	if first.Pick != "SEA -3.5" || first.PickTeam != "SEAHAWKS" {
		t.Errorf("expert pick = (%q, %q), want (SEA -3.5, SEAHAWKS)", first.Pick, first.PickTeam)
	}
	if block.Experts[1].PickTeam != "RAMS" {
		t.Errorf("second expert PickTeam = %q, want RAMS", block.Experts[1].PickTeam)
	}
}

func TestParseExpertPicksAbsent(t *testing.T) {
	doc := mustDoc(t, `<div class="MuiDialog-root"><h3 class="MuiTypography-h3">Latest Odds</h3></div>`)
	if block := ParseExpertPicks(doc, teams.NewRegistry()); block != nil {
		t.Errorf("ParseExpertPicks() = %+v, want nil", block)
	}
}

const statsPanelHTML = `
<div class="MuiDialog-root">
  <h3 class="MuiTypography-h3">Matchup</h3>
  <div class="MuiStack-root mui-style-1i67s9">
    <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/430.svg"/></div>
  </div>
  <div class="MuiStack-root mui-style-1sqwbr3">
    <div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/427.svg"/></div>
  </div>
  <div class="MuiStack-root mui-style-10p98jm">
    <div class="MuiStack-root mui-style-13na5pa">
      <div class="MuiStack-root"><span>12</span><p class="MuiTypography-body2">358.2</p></div>
      <p class="MuiTypography-body1">Total Yds</p>
      <div class="MuiStack-root"><span>5</span><p class="MuiTypography-body2">301.4</p></div>
    </div>
  </div>
  <div class="MuiStack-root mui-style-10p98jm">
    <div class="MuiStack-root mui-style-13na5pa">
      <div class="MuiStack-root"><span>20</span><p class="MuiTypography-body2">211.9</p></div>
      <p class="MuiTypography-body1">Pass Yds</p>
      <div class="MuiStack-root"><span>9</span><p class="MuiTypography-body2">188.3</p></div>
    </div>
  </div>
  <div class="MuiStack-root mui-style-1i67s9"><div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/427.svg"/></div></div>
  <div class="MuiStack-root mui-style-1sqwbr3"><div class="MuiAvatar-root"><img src="https://sports.cbsimg.net/fly/images/nfl/logos/team/430.svg"/></div></div>
</div>`

func TestParseMatchupStats(t *testing.T) {
	doc := mustDoc(t, statsPanelHTML)

	block := ParseMatchupStats(doc, teams.NewRegistry())
	if block == nil {
		t.Fatal("ParseMatchupStats() = nil, want block")
	}

	if block.Teams == nil || block.Teams.Team1 != "SEAHAWKS" || block.Teams.Team2 != "RAMS" {
		t.Fatalf("Teams = %+v, want SEAHAWKS/RAMS", block.Teams)
	}
	if block.OffenseDefense == nil {
		t.Fatal("OffenseDefense = nil, want tables")
	}

	row, ok := block.OffenseDefense.Team1OffenseVsTeam2Defense["Total Yds"]
	if !ok {
		t.Fatal("missing Total Yds row in first table")
	}
	if row.Team1.Rank != "12" || row.Team1.Value != "358.2" {
		t.Errorf("Team1 cell = %+v, want rank 12 value 358.2", row.Team1)
	}
	if row.Team2.Rank != "5" || row.Team2.Value != "301.4" {
		t.Errorf("Team2 cell = %+v, want rank 5 value 301.4", row.Team2)
	}

	if _, ok := block.OffenseDefense.Team2OffenseVsTeam1Defense["Pass Yds"]; !ok {
		t.Error("missing Pass Yds row in second table")
	}
}

func TestParseMatchupStatsAbsent(t *testing.T) {
	doc := mustDoc(t, `<div class="MuiDialog-root"><h3 class="MuiTypography-h3">Expert Picks</h3></div>`)
	if block := ParseMatchupStats(doc, teams.NewRegistry()); block != nil {
		t.Errorf("ParseMatchupStats() = %+v, want nil", block)
	}
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}
