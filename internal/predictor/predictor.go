package predictor

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

var leadingIntPattern = regexp.MustCompile(`(\d+)`)

// Engine derives one predicted winner per matchup. Predict is pure: the same
// schedule always yields the same predictions, in the same order.
//
// The cascade is evaluated in fixed priority, first match wins:
//
//  1. the always-pick team, unconditionally
//  2. a preferred team, when it is the spread favorite, no favorite is
//     known, or the spread is within the reasonable threshold
//  3. strong expert consensus
//  4. the spread favorite
//  5. the home team
//
// Preferred teams are checked before expert consensus on purpose: user team
// preference dominates expert opinion. Do not "fix" this ordering.
type Engine struct {
	alwaysPick       teams.Code
	preferred        []teams.Code
	reasonableSpread float64
	strongConsensus  float64
}

func New(cfg config.PredictorConfig) *Engine {
	preferred := make([]teams.Code, 0, len(cfg.PreferredTeams))
	for _, t := range cfg.PreferredTeams {
		preferred = append(preferred, teams.Code(t))
	}
	return &Engine{
		alwaysPick:       teams.Code(cfg.AlwaysPick),
		preferred:        preferred,
		reasonableSpread: cfg.ReasonableSpread,
		strongConsensus:  cfg.StrongConsensus,
	}
}

// Predict maps the schedule to predictions positionally: the result has
// exactly one entry per matchup, mirroring the schedule's order.
func (e *Engine) Predict(schedule *models.Schedule) models.Predictions {
	predictions := make(models.Predictions, 0, len(schedule.Matchups))
	for i, m := range schedule.Matchups {
		winner := e.predictOne(m)
		slog.Info("Predicted winner",
			"matchup", i+1, "away", m.AwayTeam, "home", m.HomeTeam, "pick", winner)
		predictions = append(predictions, winner)
	}
	return predictions
}

func (e *Engine) predictOne(m models.Matchup) teams.Code {
	// Rule 1: the always-pick team.
	if m.AwayTeam == e.alwaysPick || m.HomeTeam == e.alwaysPick {
		return e.alwaysPick
	}

	consensusTeam, consensusShare := ExpertConsensus(m)
	favorite, spread := SpreadFavorite(m)

	// Rule 2: preferred teams, in preference order. A preferred team is
	// picked when it is the favorite, no favorite is known, or it is an
	// underdog by no more than the reasonable spread.
	for _, team := range e.preferred {
		if team != m.AwayTeam && team != m.HomeTeam {
			continue
		}
		if favorite == "" || favorite == team || spread <= e.reasonableSpread {
			return team
		}
	}

	// Rule 3: strong expert consensus.
	if consensusTeam != "" && consensusShare >= e.strongConsensus {
		return consensusTeam
	}

	// Rule 4: the spread favorite.
	if favorite != "" {
		return favorite
	}

	// Rule 5: home field advantage.
	return m.HomeTeam
}

// ExpertConsensus returns the team with the most expert picks and its share
// of all recorded picks. Returns ("", 0) when no counts are recorded. Ties
// resolve to the lexically smaller team so the result is deterministic.
func ExpertConsensus(m models.Matchup) (teams.Code, float64) {
	if m.ExpertPicks == nil || len(m.ExpertPicks.TeamPicks) == 0 {
		return "", 0
	}

	codes := make([]teams.Code, 0, len(m.ExpertPicks.TeamPicks))
	for team := range m.ExpertPicks.TeamPicks {
		codes = append(codes, team)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var best teams.Code
	bestCount, total := 0, 0
	for _, team := range codes {
		count := ParsePickCount(m.ExpertPicks.TeamPicks[team])
		total += count
		if count > bestCount {
			best = team
			bestCount = count
		}
	}
	if total == 0 || best == "" {
		return "", 0
	}
	return best, float64(bestCount) / float64(total)
}

// SpreadFavorite returns the team favored by the current spread and the
// spread magnitude. A negative spread marks the favorite; strings starting
// with "o" or "u" are totals lines and never count as team spreads.
func SpreadFavorite(m models.Matchup) (teams.Code, float64) {
	if m.Odds == nil || m.Odds.Current == nil {
		return "", 0
	}

	awaySpread := ParseSpread(m.Odds.Current.Away.Spread)
	homeSpread := ParseSpread(m.Odds.Current.Home.Spread)

	switch {
	case awaySpread < 0:
		return m.AwayTeam, math.Abs(awaySpread)
	case homeSpread < 0:
		return m.HomeTeam, math.Abs(homeSpread)
	default:
		return "", 0
	}
}

// ParseSpread parses a team spread string. Over/under prefixed values and
// anything unparseable are zero (treated as field-absent).
func ParseSpread(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == 'o' || s[0] == 'u' {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParsePickCount extracts the integer from a count label like "7 Picks".
func ParsePickCount(label string) int {
	m := leadingIntPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
