package engine

import (
	"math"
	"slices"
	"strings"

	"github.com/dom/worldcup-stats/internal/domain"
)

// MinMinutesThreshold is the floor applied by the minimum-minutes toggle
const MinMinutesThreshold = 300.0

// invertedAxes render with their direction reversed
var invertedAxes = map[domain.MetricKey]bool{
	domain.KeyGoalsConceded: true,
}

var percentageTicks = []float64{0, 20, 40, 60, 80, 100}

// ScatterFilter selects the population before any transform
type ScatterFilter struct {
	Position   domain.Position `json:"position"`
	MinMinutes bool            `json:"minMinutes"`
}

// Match reports whether a population row passes the filter
func (f ScatterFilter) Match(row *domain.PopulationRow) bool {
	if f.Position != "" && f.Position != domain.PositionAll && row.Position != f.Position {
		return false
	}
	if f.MinMinutes && row.Minutes < MinMinutesThreshold {
		return false
	}
	return true
}

// ScatterPoint is one player on the scatter chart
type ScatterPoint struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	Year     string          `json:"year"`
	Filename string          `json:"filename"`
	Position domain.Position `json:"position"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Minutes  float64         `json:"minutes"`
}

// ScatterBasis limits a basis to the ones the scatter view offers
func ScatterBasis(basis domain.Basis) domain.Basis {
	if basis == domain.BasisTotal {
		return domain.BasisTotal
	}
	return domain.BasisPer90
}

// AxisValue computes one axis coordinate of a population row
func AxisValue(row *domain.PopulationRow, key domain.MetricKey, basis domain.Basis) float64 {
	v := ResolveRaw(row.Stats, key).Value
	if basis == domain.BasisPer90 {
		v = ScatterPer90.Per90(key, v, row.Minutes)
	}
	return v
}

// ComputeScatterPoints filters rows, transforms both axes and drops the
// points that carry no information on either axis. Coordinates are rounded
// to two decimals.
func ComputeScatterPoints(rows []domain.PopulationRow, xKey, yKey domain.MetricKey, basis domain.Basis, filter ScatterFilter) []ScatterPoint {
	basis = ScatterBasis(basis)
	points := make([]ScatterPoint, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if !filter.Match(row) {
			continue
		}
		x := round2(AxisValue(row, xKey, basis))
		y := round2(AxisValue(row, yKey, basis))
		if x == 0 && y == 0 {
			continue
		}
		points = append(points, ScatterPoint{
			ID:       row.ID,
			Name:     row.Name,
			Team:     row.Team,
			Year:     row.Year,
			Filename: row.Filename,
			Position: row.Position,
			X:        x,
			Y:        y,
			Minutes:  row.Minutes,
		})
	}
	return points
}

// AxisSpec describes how to draw one scatter axis
type AxisSpec struct {
	Key         domain.MetricKey `json:"key"`
	Label       string           `json:"label"`
	Percentage  bool             `json:"percentage"`
	Domain      [2]float64       `json:"domain"`
	Ticks       []float64        `json:"ticks,omitempty"`
	Reversed    bool             `json:"reversed"`
	Per90Suffix bool             `json:"per90Suffix"`
}

// IsPercentageAxis reports whether the axis is drawn on a fixed 0-100 scale
func IsPercentageAxis(key domain.MetricKey) bool {
	return strings.Contains(strings.ToLower(string(key)), "percentage")
}

// AxisRange is the dynamic domain of a non-percentage axis: half-unit
// rounding, one extra unit of room below the minimum, never below 0.
func AxisRange(values []float64) [2]float64 {
	if len(values) == 0 {
		return [2]float64{0, 0}
	}
	lo, hi := slices.Min(values), slices.Max(values)
	return [2]float64{
		math.Max(0, math.Floor(lo*2)/2-1),
		math.Ceil(hi*2) / 2,
	}
}

// DescribeAxis builds the axis spec for key over the plotted values
func DescribeAxis(position domain.Position, key domain.MetricKey, basis domain.Basis, values []float64) AxisSpec {
	spec := AxisSpec{
		Key:         key,
		Label:       axisLabel(position, key),
		Percentage:  IsPercentageAxis(key),
		Reversed:    invertedAxes[key],
		Per90Suffix: ScatterBasis(basis) == domain.BasisPer90 && !ScatterPer90.Excluded[key],
	}
	if spec.Percentage {
		spec.Domain = [2]float64{0, 100}
		spec.Ticks = slices.Clone(percentageTicks)
	} else {
		spec.Domain = AxisRange(values)
	}
	return spec
}

// ReconcileAxes keeps x and y when the position offers them, otherwise
// substitutes the first option for x and the second for y.
func ReconcileAxes(position domain.Position, x, y domain.MetricKey) (domain.MetricKey, domain.MetricKey) {
	options := AxisOptionsFor(position)
	valid := func(k domain.MetricKey) bool {
		return slices.ContainsFunc(options, func(o AxisOption) bool { return o.Key == k })
	}
	if !valid(x) {
		x = options[0].Key
	}
	if !valid(y) {
		if len(options) > 1 {
			y = options[1].Key
		} else {
			y = options[0].Key
		}
	}
	return x, y
}

// ScatterQuery is one scatter selection
type ScatterQuery struct {
	Position   domain.Position  `json:"position"`
	XKey       domain.MetricKey `json:"xKey"`
	YKey       domain.MetricKey `json:"yKey"`
	Basis      domain.Basis     `json:"basis"`
	MinMinutes bool             `json:"minMinutes"`
}

// ScatterResult is everything needed to draw a scatter chart
type ScatterResult struct {
	Position    domain.Position `json:"position"`
	Basis       domain.Basis    `json:"basis"`
	Options     []AxisOption    `json:"options"`
	X           AxisSpec        `json:"x"`
	Y           AxisSpec        `json:"y"`
	Points      []ScatterPoint  `json:"points"`
	Correlation *float64        `json:"correlation"`
}

// BuildScatter reconciles the query against the position and computes the
// chart over rows.
func BuildScatter(rows []domain.PopulationRow, q ScatterQuery) ScatterResult {
	position := q.Position
	if !position.IsValid() {
		position = domain.PositionAll
	}
	basis := ScatterBasis(q.Basis)
	xKey, yKey := ReconcileAxes(position, q.XKey, q.YKey)

	points := ComputeScatterPoints(rows, xKey, yKey, basis, ScatterFilter{
		Position:   position,
		MinMinutes: q.MinMinutes,
	})

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	return ScatterResult{
		Position:    position,
		Basis:       basis,
		Options:     AxisOptionsFor(position),
		X:           DescribeAxis(position, xKey, basis, xs),
		Y:           DescribeAxis(position, yKey, basis, ys),
		Points:      points,
		Correlation: Pearson(xs, ys),
	}
}
