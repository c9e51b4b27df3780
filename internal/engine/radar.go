package engine

import (
	"math"
	"strconv"

	"github.com/dom/worldcup-stats/internal/domain"
)

const (
	// FullMark is the outer ring of the radar
	FullMark = 100.0
	// placeholderScore outlines the empty chart when nothing is selected
	placeholderScore = 100.0
)

// Palette holds subject colours, assigned round-robin
var Palette = []string{"#4285F4", "#FF007F", "#00CC66", "#FF8800", "#9933CC"}

// Score maps a basis-transformed value onto [0, 100].
// Inverted metrics score higher the lower the value.
func Score(value, bound float64, inverted bool) float64 {
	if bound <= 0 {
		return 0
	}
	if inverted {
		return math.Max(0, (bound-value)/bound*100)
	}
	return math.Min(100, value/bound*100)
}

// Subject is one player in a radar comparison
type Subject struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Year      string            `json:"year"`
	Team      string            `json:"team"`
	Position  domain.Position   `json:"position"`
	Color     string            `json:"color"`
	Stats     domain.StatRecord `json:"-"`
	TeamStats domain.StatRecord `json:"-"`
}

// Minutes returns the subject's minutes played
func (s *Subject) Minutes() float64 {
	return s.Stats.Get(domain.KeyMinutesPlayed)
}

// Cell is one subject's value on one metric
type Cell struct {
	Value   float64 `json:"value"`
	Score   float64 `json:"score"`
	Display string  `json:"display"`
}

// RadarAxis is one spoke of the chart
type RadarAxis struct {
	Key         domain.MetricKey `json:"key"`
	Label       string           `json:"label"`
	FullMark    float64          `json:"fullMark"`
	Placeholder *float64         `json:"placeholder,omitempty"`
	Inverted    bool             `json:"inverted,omitempty"`
	Values      map[string]Cell  `json:"values"`
}

type TableColumn struct {
	Key   domain.MetricKey `json:"key"`
	Label string           `json:"label"`
}

type TableRow struct {
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Year      string `json:"year"`
	Team      string `json:"team"`
	Color     string `json:"color"`
	Minutes   string `json:"minutes"`
	Cells     []Cell `json:"cells"`
}

// RadarTable is the comparison table under the chart
type RadarTable struct {
	Columns []TableColumn `json:"columns"`
	Rows    []TableRow    `json:"rows"`
}

// RadarResult is everything needed to draw a comparison
type RadarResult struct {
	Position       domain.Position `json:"position"`
	Basis          domain.Basis    `json:"basis"`
	AvailableBases []domain.Basis  `json:"availableBases"`
	Subjects       []Subject       `json:"subjects"`
	Axes           []RadarAxis     `json:"axes"`
	Table          RadarTable      `json:"table"`
}

// Evaluate resolves one metric for one subject and scores it
func Evaluate(s *Subject, metric domain.MetricDescriptor, basis domain.Basis) Cell {
	resolved := ResolveRaw(s.Stats, metric.Key)
	scaled := ApplyBasis(resolved, metric, basis, s.Minutes(), s.TeamStats)
	return Cell{
		Value:   scaled.Value,
		Score:   Score(scaled.Value, scaled.Bound, metric.Inverted),
		Display: FormatValue(scaled.Value, basis, resolved.IsPercentage),
	}
}

// ResolveAndScore computes the chart and table for subjects under the
// position's schema. The basis is normalised for the position first.
func ResolveAndScore(subjects []Subject, position domain.Position, basis domain.Basis) RadarResult {
	schema := SchemaFor(position)
	basis = NormalizeBasis(position, basis)

	result := RadarResult{
		Position:       position,
		Basis:          basis,
		AvailableBases: AvailableBases(position),
		Subjects:       subjects,
		Axes:           make([]RadarAxis, len(schema)),
		Table: RadarTable{
			Columns: make([]TableColumn, len(schema)),
			Rows:    make([]TableRow, len(subjects)),
		},
	}
	if result.Subjects == nil {
		result.Subjects = []Subject{}
	}

	for i, m := range schema {
		result.Axes[i] = RadarAxis{
			Key:      m.Key,
			Label:    m.Label,
			FullMark: FullMark,
			Inverted: m.Inverted,
			Values:   make(map[string]Cell, len(subjects)),
		}
		if len(subjects) == 0 {
			p := placeholderScore
			result.Axes[i].Placeholder = &p
		}
		result.Table.Columns[i] = TableColumn{Key: m.Key, Label: m.ColumnLabel()}
	}

	for j := range subjects {
		s := &subjects[j]
		row := TableRow{
			SubjectID: s.ID,
			Name:      s.Name,
			Year:      s.Year,
			Team:      s.Team,
			Color:     s.Color,
			Minutes:   formatMinutes(s.Minutes()),
			Cells:     make([]Cell, len(schema)),
		}
		for i, m := range schema {
			cell := Evaluate(s, m, basis)
			result.Axes[i].Values[s.ID] = cell
			row.Cells[i] = cell
		}
		result.Table.Rows[j] = row
	}

	return result
}

func formatMinutes(minutes float64) string {
	if minutes == 0 {
		return "-"
	}
	return strconv.FormatFloat(minutes, 'f', -1, 64)
}
