package engine_test

import (
	"testing"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonSession_Add(t *testing.T) {
	s := engine.NewComparisonSession(domain.PositionForward, domain.BasisPer90)

	first, ok := s.Add(engine.Subject{ID: "2022_Argentina_messi", Name: "Lionel Messi"})
	require.True(t, ok)
	assert.Equal(t, engine.Palette[0], first.Color)

	second, ok := s.Add(engine.Subject{ID: "2022_France_mbappe", Name: "Kylian Mbappe"})
	require.True(t, ok)
	assert.Equal(t, engine.Palette[1], second.Color)

	_, ok = s.Add(engine.Subject{ID: "2022_Argentina_messi", Name: "Someone Else"})
	assert.False(t, ok, "duplicate id")

	_, ok = s.Add(engine.Subject{ID: "2018_Argentina_messi", Name: "Lionel Messi"})
	assert.False(t, ok, "duplicate name")

	assert.Equal(t, 2, s.Len())
}

func TestComparisonSession_ColorsWrap(t *testing.T) {
	s := engine.NewComparisonSession(domain.PositionAll, domain.BasisTotal)
	for i := 0; i < len(engine.Palette)+1; i++ {
		sub, ok := s.Add(engine.Subject{ID: string(rune('a' + i)), Name: string(rune('A' + i))})
		require.True(t, ok)
		assert.Equal(t, engine.Palette[i%len(engine.Palette)], sub.Color)
	}
}

func TestComparisonSession_Remove(t *testing.T) {
	s := engine.NewComparisonSession(domain.PositionAll, domain.BasisTotal)
	s.Add(engine.Subject{ID: "a", Name: "A"})
	s.Add(engine.Subject{ID: "b", Name: "B"})

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	require.Len(t, s.Subjects(), 1)
	assert.Equal(t, "b", s.Subjects()[0].ID)
}

func TestComparisonSession_SetPosition(t *testing.T) {
	s := engine.NewComparisonSession(domain.PositionDefender, domain.BasisTeamPercent)
	s.Add(engine.Subject{ID: "a", Name: "A"})
	require.Equal(t, domain.BasisTeamPercent, s.Basis())

	s.SetPosition(domain.PositionGoalkeeper)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, domain.PositionGoalkeeper, s.Position())
	assert.Equal(t, domain.BasisPer90, s.Basis())
	assert.False(t, s.SetBasis(domain.BasisTeamPercent))
	assert.Equal(t, domain.BasisPer90, s.Basis())
	assert.True(t, s.SetBasis(domain.BasisTotal))
}

func TestComparisonSession_InvalidPosition(t *testing.T) {
	s := engine.NewComparisonSession("Z", "")

	assert.Equal(t, domain.PositionAll, s.Position())
	assert.Equal(t, domain.DefaultBasis, s.Basis())
	assert.Len(t, s.Result().Axes, 12)
}
