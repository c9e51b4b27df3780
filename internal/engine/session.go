package engine

import (
	"slices"

	"github.com/dom/worldcup-stats/internal/domain"
)

// ComparisonSession is the ordered subject set of one radar comparison.
// It is not safe for concurrent use; one actor owns it.
type ComparisonSession struct {
	position domain.Position
	basis    domain.Basis
	subjects []Subject
}

func NewComparisonSession(position domain.Position, basis domain.Basis) *ComparisonSession {
	s := &ComparisonSession{basis: domain.DefaultBasis}
	s.SetPosition(position)
	s.SetBasis(basis)
	return s
}

func (s *ComparisonSession) Position() domain.Position {
	return s.position
}

func (s *ComparisonSession) Basis() domain.Basis {
	return s.basis
}

// Subjects returns a copy of the current subjects in insertion order
func (s *ComparisonSession) Subjects() []Subject {
	return slices.Clone(s.subjects)
}

func (s *ComparisonSession) Len() int {
	return len(s.subjects)
}

// Contains reports whether a subject with this id or name is already selected
func (s *ComparisonSession) Contains(id, name string) bool {
	return slices.ContainsFunc(s.subjects, func(existing Subject) bool {
		return existing.ID == id || (name != "" && existing.Name == name)
	})
}

// Add appends a subject and assigns its colour. Returns false when the
// subject duplicates an existing one by id or by player name.
func (s *ComparisonSession) Add(subject Subject) (Subject, bool) {
	if s.Contains(subject.ID, subject.Name) {
		return Subject{}, false
	}
	subject.Color = Palette[len(s.subjects)%len(Palette)]
	s.subjects = append(s.subjects, subject)
	return subject, true
}

// Remove drops the subject with id and reports whether it was present
func (s *ComparisonSession) Remove(id string) bool {
	n := len(s.subjects)
	s.subjects = slices.DeleteFunc(s.subjects, func(existing Subject) bool {
		return existing.ID == id
	})
	return len(s.subjects) != n
}

// SetPosition switches schema and clears the subjects.
// Goalkeepers are always compared per 90.
func (s *ComparisonSession) SetPosition(position domain.Position) {
	if !position.IsValid() {
		position = domain.PositionAll
	}
	s.position = position
	s.subjects = nil
	if position == domain.PositionGoalkeeper {
		s.basis = domain.BasisPer90
	}
}

// SetBasis changes the basis. A basis the position does not offer is ignored.
func (s *ComparisonSession) SetBasis(basis domain.Basis) bool {
	if !slices.Contains(AvailableBases(s.position), basis) {
		return false
	}
	s.basis = basis
	return true
}

// Result computes the chart and table for the current state
func (s *ComparisonSession) Result() RadarResult {
	return ResolveAndScore(s.Subjects(), s.position, s.basis)
}
