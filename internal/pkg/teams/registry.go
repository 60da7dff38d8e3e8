package teams

import (
	"regexp"
	"sort"
)

// Code is a canonical team identifier as displayed on the pick'em page,
// e.g. "SEAHAWKS". Unrecognized raw identifiers resolve to a "TEAM-<id>"
// placeholder so extraction never drops a team silently.
type Code string

// UnknownPrefix marks codes produced for unmapped raw identifiers.
const UnknownPrefix = "TEAM-"

// defaultCodeNames maps CBS image resource ids to team codes. The ids come
// from logo URLs like .../nfl/logos/team/430.svg.
var defaultCodeNames = map[string]Code{
	"404":    "CARDINALS",
	"405":    "FALCONS",
	"406":    "RAVENS",
	"407":    "BILLS",
	"408":    "PANTHERS",
	"409":    "BEARS",
	"410":    "BENGALS",
	"411":    "COWBOYS",
	"412":    "BRONCOS",
	"413":    "LIONS",
	"414":    "PACKERS",
	"415":    "COLTS",
	"416":    "JAGUARS",
	"417":    "CHIEFS",
	"418":    "DOLPHINS",
	"419":    "VIKINGS",
	"420":    "PATRIOTS",
	"421":    "SAINTS",
	"422":    "GIANTS",
	"423":    "JETS",
	"424":    "RAIDERS",
	"425":    "EAGLES",
	"426":    "STEELERS",
	"427":    "RAMS",
	"428":    "CHARGERS",
	"429":    "49ERS",
	"430":    "SEAHAWKS",
	"431":    "BUCCANEERS",
	"432":    "TITANS",
	"433":    "COMMANDERS",
	"434":    "BROWNS",
	"247415": "TEXANS",
}

var iconIDPattern = regexp.MustCompile(`team/([^.]+)`)

// Registry resolves raw team identifiers (image resource ids) to Codes.
// The table is data, not control flow: overrides from config replace or
// extend the built-in mapping without touching extraction logic.
type Registry struct {
	byID   map[string]Code
	byCode map[Code]string
}

// NewRegistry returns a registry with the built-in NFL mapping.
func NewRegistry() *Registry {
	return NewRegistryWithOverrides(nil)
}

// NewRegistryWithOverrides returns a registry with the built-in mapping plus
// the given id -> code overrides applied on top.
func NewRegistryWithOverrides(overrides map[string]string) *Registry {
	byID := make(map[string]Code, len(defaultCodeNames)+len(overrides))
	for id, code := range defaultCodeNames {
		byID[id] = code
	}
	for id, code := range overrides {
		byID[id] = Code(code)
	}
	byCode := make(map[Code]string, len(byID))
	for id, code := range byID {
		byCode[code] = id
	}
	return &Registry{byID: byID, byCode: byCode}
}

// Resolve maps a raw identifier to a Code. Total: unmapped identifiers yield
// a deterministic placeholder that retains the raw id.
func (r *Registry) Resolve(rawID string) Code {
	if rawID == "" {
		return ""
	}
	if code, ok := r.byID[rawID]; ok {
		return code
	}
	return Code(UnknownPrefix + rawID)
}

// ResolveImageURL extracts the team id from a logo URL and resolves it.
// Returns "" when the URL carries no team id.
func (r *Registry) ResolveImageURL(url string) Code {
	m := iconIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return r.Resolve(m[1])
}

// IDFor returns the raw identifier for a code, for building icon URLs.
func (r *Registry) IDFor(code Code) (string, bool) {
	id, ok := r.byCode[code]
	return id, ok
}

// Codes returns all known team codes in sorted order.
func (r *Registry) Codes() []Code {
	out := make([]Code, 0, len(r.byCode))
	for code := range r.byCode {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
