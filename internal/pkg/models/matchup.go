package models

import (
	"time"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// Sentinel values recorded when an optional base field cannot be read.
// They mirror what ends up in the schedule document, so downstream consumers
// can tell "absent" from a real value.
const (
	TimeNotFound   = "Time not found"
	TeamNotFound   = "Team not found"
	RecordNotFound = "Record not found"
)

// Schedule is one capture of the weekly matchup list. Ordering of Matchups is
// significant: it is the display order and the pick-application order.
// A schedule is never edited in place; a re-capture produces a new one.
type Schedule struct {
	Timestamp time.Time `json:"timestamp"`
	Matchups  []Matchup `json:"matchups"`
}

// Matchup is one scheduled game, optionally enriched with the analysis-panel
// sub-blocks. A matchup with an unresolved team on either side is discarded
// before it reaches a Schedule.
type Matchup struct {
	GameTime     string           `json:"game_time"`
	Network      string           `json:"network,omitempty"`
	AwayTeam     teams.Code       `json:"away_team"`
	AwayRecord   string           `json:"away_record"`
	HomeTeam     teams.Code       `json:"home_team"`
	HomeRecord   string           `json:"home_record"`
	PickedTeam   teams.Code       `json:"picked_team,omitempty"`
	Odds         *OddsBlock       `json:"odds,omitempty"`
	ExpertPicks  *ExpertPickBlock `json:"expert_picks,omitempty"`
	MatchupStats *StatsBlock      `json:"matchup_stats,omitempty"`
}

// OddsBlock holds the latest-odds section of the analysis panel. All values
// are the raw page strings; numeric interpretation happens in the predictor.
type OddsBlock struct {
	AwayTeamOdds string       `json:"away_team_odds,omitempty"`
	HomeTeamOdds string       `json:"home_team_odds,omitempty"`
	Current      *CurrentOdds `json:"current_odds,omitempty"`
	Opening      *OpeningOdds `json:"opening_odds,omitempty"`
}

type CurrentOdds struct {
	Away TeamOdds `json:"away"`
	Home TeamOdds `json:"home"`
}

// TeamOdds is one side of the current-odds table. Spread strings starting
// with "o" or "u" are over/under lines, not team spreads.
type TeamOdds struct {
	Spread     string `json:"spread"`
	SpreadOdds string `json:"spread_odds"`
	Money      string `json:"money"`
	Total      string `json:"total"`
	TotalOdds  string `json:"total_odds"`
}

type OpeningOdds struct {
	Spread string `json:"spread"`
	Total  string `json:"total"`
}

// ExpertPickBlock holds the Expert Picks section. TeamPicks keeps the raw
// count labels ("7 Picks") keyed by team; parsing is the predictor's concern.
type ExpertPickBlock struct {
	TeamPicks map[teams.Code]string `json:"team_picks,omitempty"`
	Experts   []ExpertPick          `json:"experts,omitempty"`
}

// ExpertPick is a single pundit's pick, in panel order.
type ExpertPick struct {
	Name     string     `json:"name"`
	Role     string     `json:"role,omitempty"`
	Record   string     `json:"record,omitempty"`
	Pick     string     `json:"pick,omitempty"`
	PickTeam teams.Code `json:"pick_team"`
}

// StatsBlock holds the offense-vs-defense matchup section.
type StatsBlock struct {
	Teams          *StatTeams           `json:"teams,omitempty"`
	OffenseDefense *OffenseDefenseStats `json:"offense_defense_stats,omitempty"`
}

type StatTeams struct {
	Team1 teams.Code `json:"team1"`
	Team2 teams.Code `json:"team2"`
}

type OffenseDefenseStats struct {
	Team1OffenseVsTeam2Defense StatTable `json:"team1_offense_vs_team2_defense"`
	Team2OffenseVsTeam1Defense StatTable `json:"team2_offense_vs_team1_defense"`
}

// StatTable maps a stat name ("Total Yds") to the two teams' rank and value.
type StatTable map[string]StatRow

type StatRow struct {
	Team1 StatCell `json:"team1"`
	Team2 StatCell `json:"team2"`
}

type StatCell struct {
	Rank  string `json:"rank"`
	Value string `json:"value"`
}

// Predictions is one predicted winner per matchup, positionally aligned with
// the schedule's matchup list. The document form is a flat JSON array.
type Predictions []teams.Code
