package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// The parsers below are pure functions over captured HTML. Each read step is
// independently fallible: a field that cannot be located degrades to its
// sentinel or to absence, never to a parse abort.

// ParseMatchupBase reads the base fields from one matchup container's HTML.
func ParseMatchupBase(html string) (models.Matchup, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Matchup{}, fmt.Errorf("failed to parse container HTML: %w", err)
	}

	m := models.Matchup{
		GameTime:   textOr(doc.Find(gameTimeSelector).First(), models.TimeNotFound),
		Network:    textOr(doc.Find(networkSelector).First(), ""),
		AwayTeam:   teams.Code(textOr(doc.Find(AwaySideSelector+" "+teamNameSelector).First(), models.TeamNotFound)),
		AwayRecord: textOr(doc.Find(AwaySideSelector+" "+teamRecordSelector).First(), models.RecordNotFound),
		HomeTeam:   teams.Code(textOr(doc.Find(HomeSideSelector+" "+teamNameSelector).First(), models.TeamNotFound)),
		HomeRecord: textOr(doc.Find(HomeSideSelector+" "+teamRecordSelector).First(), models.RecordNotFound),
	}

	if doc.Find(AwaySelectedSelector).Length() > 0 {
		m.PickedTeam = m.AwayTeam
	} else if doc.Find(HomeSelectedSelector).Length() > 0 {
		m.PickedTeam = m.HomeTeam
	}

	return m, nil
}

// HasDecidableTeams reports whether both sides of a matchup were resolved.
// A matchup failing this carries no decidable information and is dropped.
func HasDecidableTeams(m models.Matchup) bool {
	if m.AwayTeam == "" || m.HomeTeam == "" {
		return false
	}
	if m.AwayTeam == models.TeamNotFound || m.HomeTeam == models.TeamNotFound {
		return false
	}
	return m.AwayTeam != m.HomeTeam
}

// ParseOdds reads the latest-odds section from the analysis panel HTML.
// Returns nil when the section is absent or carries no data.
func ParseOdds(doc *goquery.Document) *models.OddsBlock {
	section := doc.Find(latestOddsSelector)
	if section.Length() == 0 {
		return nil
	}

	block := &models.OddsBlock{}

	teamNames := section.Find("div.MuiStack-root div.MuiStack-root " + bodyTextSelector)
	if teamNames.Length() >= 2 {
		block.AwayTeamOdds = trimmed(teamNames.Eq(0))
		block.HomeTeamOdds = trimmed(teamNames.Eq(1))
	}

	// Six boxes: away spread/money/total then home spread/money/total.
	boxes := section.Find(oddsBoxSelector)
	if boxes.Length() >= 6 {
		current := &models.CurrentOdds{}
		current.Away.Spread, current.Away.SpreadOdds = parseOddsBox(boxes.Eq(0))
		current.Away.Money, _ = parseOddsBox(boxes.Eq(1))
		current.Away.Total, current.Away.TotalOdds = parseOddsBox(boxes.Eq(2))
		current.Home.Spread, current.Home.SpreadOdds = parseOddsBox(boxes.Eq(3))
		current.Home.Money, _ = parseOddsBox(boxes.Eq(4))
		current.Home.Total, current.Home.TotalOdds = parseOddsBox(boxes.Eq(5))
		block.Current = current
	}

	opening := doc.Find(openingOddsSelector).First().Find(bodyTextSelector)
	if opening.Length() >= 3 {
		// Index 0 is the "Opening" label.
		block.Opening = &models.OpeningOdds{
			Spread: trimmed(opening.Eq(1)),
			Total:  trimmed(opening.Eq(2)),
		}
	}

	if block.AwayTeamOdds == "" && block.Current == nil && block.Opening == nil {
		return nil
	}
	return block
}

func parseOddsBox(box *goquery.Selection) (value, subOdds string) {
	ps := box.Find(bodyTextSelector)
	if ps.Length() > 0 {
		value = trimmed(ps.Eq(0))
	}
	if ps.Length() > 1 {
		subOdds = trimmed(ps.Eq(1))
	}
	return value, subOdds
}

// ParseExpertPicks reads the Expert Picks section: per-team pick counts
// (identified by logo URL) and the individual pundit entries in panel order.
// Returns nil when the section is absent.
func ParseExpertPicks(doc *goquery.Document, reg *teams.Registry) *models.ExpertPickBlock {
	heading := findHeading(doc, "Expert Picks")
	if heading == nil {
		return nil
	}

	block := &models.ExpertPickBlock{}

	entries := heading.NextFiltered("div.MuiStack-root").ChildrenFiltered("div.MuiStack-root")
	if entries.Length() >= 2 {
		picks := make(map[teams.Code]string, 2)
		entries.Slice(0, 2).Each(func(_ int, entry *goquery.Selection) {
			src, _ := entry.Find(avatarImageSelector).First().Attr("src")
			team := reg.ResolveImageURL(src)
			count := trimmed(entry.Find(bodyTextSelector).First())
			if team != "" && count != "" {
				picks[team] = count
			}
		})
		if len(picks) > 0 {
			block.TeamPicks = picks
		}
	}

	// Within an entry the headshot avatar and role span come first, the pick
	// logo and pick text last.
	doc.Find(expertEntrySelector).Each(func(_ int, entry *goquery.Selection) {
		name := trimmed(entry.Find(expertNameSelector).First())
		pickSrc, hasPick := entry.Find(expertPickImageSelector).Last().Attr("src")
		if name == "" || !hasPick {
			return
		}
		block.Experts = append(block.Experts, models.ExpertPick{
			Name:     name,
			Role:     trimmed(entry.Find(expertRoleSelector).First()),
			Record:   trimmed(entry.Find(expertRecordSelector).First()),
			Pick:     trimmed(entry.Find(expertPickTextSelector).Last()),
			PickTeam: reg.ResolveImageURL(pickSrc),
		})
	})

	if block.TeamPicks == nil && len(block.Experts) == 0 {
		return nil
	}
	return block
}

// ParseMatchupStats reads the two symmetric offense-vs-defense tables from
// the analysis panel HTML. Returns nil when the section is absent.
func ParseMatchupStats(doc *goquery.Document, reg *teams.Registry) *models.StatsBlock {
	if findHeading(doc, "Matchup") == nil {
		return nil
	}

	block := &models.StatsBlock{}

	teamSections := doc.Find(statTeamSectionSelector)
	if teamSections.Length() >= 4 {
		team1Src, _ := teamSections.Eq(0).Find(avatarImageSelector).First().Attr("src")
		team2Src, _ := teamSections.Eq(1).Find(avatarImageSelector).First().Attr("src")
		team1 := reg.ResolveImageURL(team1Src)
		team2 := reg.ResolveImageURL(team2Src)
		if team1 != "" && team2 != "" {
			block.Teams = &models.StatTeams{Team1: team1, Team2: team2}
		}
	}

	sections := doc.Find(statSectionSelector)
	if sections.Length() >= 2 {
		block.OffenseDefense = &models.OffenseDefenseStats{
			Team1OffenseVsTeam2Defense: parseStatTable(sections.Eq(0)),
			Team2OffenseVsTeam1Defense: parseStatTable(sections.Eq(1)),
		}
	}

	if block.Teams == nil && block.OffenseDefense == nil {
		return nil
	}
	return block
}

func parseStatTable(section *goquery.Selection) models.StatTable {
	table := models.StatTable{}
	section.Find(statRowSelector).Each(func(_ int, row *goquery.Selection) {
		name := trimmed(row.Find(bodyTextSelector).First())
		if name == "" {
			return
		}
		cells := row.ChildrenFiltered("div.MuiStack-root")
		table[name] = models.StatRow{
			Team1: parseStatCell(cells.First()),
			Team2: parseStatCell(cells.Last()),
		}
	})
	return table
}

func parseStatCell(cell *goquery.Selection) models.StatCell {
	return models.StatCell{
		Rank:  trimmed(cell.Children().First()),
		Value: trimmed(cell.Find(statValueSelector).First()),
	}
}

// findHeading locates an h3 section heading by its exact text.
func findHeading(doc *goquery.Document, title string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("h3.MuiTypography-h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if trimmed(h) == title {
			found = h
			return false
		}
		return true
	})
	return found
}

func trimmed(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func textOr(s *goquery.Selection, fallback string) string {
	if s.Length() == 0 {
		return fallback
	}
	if t := strings.TrimSpace(s.Text()); t != "" {
		return t
	}
	return fallback
}
