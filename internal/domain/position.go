package domain

import "strings"

// Position is a player position group as recorded in player meta.
type Position string

const (
	PositionGoalkeeper Position = "G"
	PositionDefender   Position = "D"
	PositionMidfielder Position = "M"
	PositionForward    Position = "F"
	PositionAll        Position = "ALL"

	// PositionTeam marks team entries in search results.
	PositionTeam Position = "TEAM"
)

// AllPositions contains every selectable position in display order
var AllPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
	PositionAll,
}

// IsValid checks if a position is one of the selectable position groups
func (p Position) IsValid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward, PositionAll:
		return true
	}
	return false
}

// String returns the string representation of the position
func (p Position) String() string {
	return string(p)
}

// Label returns the short label shown on position toggles
func (p Position) Label() string {
	switch p {
	case PositionGoalkeeper:
		return "GK"
	case PositionDefender:
		return "DF"
	case PositionMidfielder:
		return "MF"
	case PositionForward:
		return "FW"
	default:
		return string(p)
	}
}

// ParsePosition maps free-form input onto a selectable position.
// Anything unrecognised resolves to PositionAll.
func ParsePosition(s string) Position {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if p.IsValid() {
		return p
	}
	return PositionAll
}
