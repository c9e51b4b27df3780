package domain

import "strings"

// Basis selects how a raw counting stat is turned into a comparable value.
type Basis string

const (
	BasisTotal       Basis = "total"
	BasisPer90       Basis = "per90"
	BasisTeamPercent Basis = "teamPercent"
)

// DefaultBasis is the basis a fresh comparison starts with
const DefaultBasis = BasisPer90

// AllBases contains every basis in toggle order
var AllBases = []Basis{BasisTotal, BasisPer90, BasisTeamPercent}

func (b Basis) IsValid() bool {
	switch b {
	case BasisTotal, BasisPer90, BasisTeamPercent:
		return true
	}
	return false
}

func (b Basis) String() string {
	return string(b)
}

// Label returns the toggle label for the basis
func (b Basis) Label() string {
	switch b {
	case BasisTotal:
		return "Total"
	case BasisPer90:
		return "Per 90"
	case BasisTeamPercent:
		return "Team %"
	default:
		return string(b)
	}
}

// ParseBasis accepts the canonical names plus the legacy "team_pct" spelling.
// Unknown input resolves to DefaultBasis.
func ParseBasis(s string) Basis {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "total":
		return BasisTotal
	case "per90":
		return BasisPer90
	case "teampercent", "team_pct", "team":
		return BasisTeamPercent
	}
	return DefaultBasis
}
