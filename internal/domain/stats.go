package domain

import "encoding/json"

// StatRecord holds the raw numeric stats of one player or team.
// Missing fields read as zero.
type StatRecord map[MetricKey]float64

// Get returns the value of a field, or 0 when it is absent
func (r StatRecord) Get(key MetricKey) float64 {
	return r[key]
}

// Has reports whether the field is present
func (r StatRecord) Has(key MetricKey) bool {
	_, ok := r[key]
	return ok
}

// UnmarshalJSON keeps numeric fields and silently drops anything else,
// so a single malformed value never fails a whole document.
func (r *StatRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(StatRecord, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			continue
		}
		out[MetricKey(k)] = f
	}
	*r = out
	return nil
}

// PlayerDocument is the on-disk shape of a player stats file
type PlayerDocument struct {
	Meta  map[string]any `json:"meta"`
	Stats StatRecord     `json:"stats"`
}

// MetaString returns a string meta field, or fallback when absent or not a string
func (d *PlayerDocument) MetaString(key, fallback string) string {
	if d.Meta == nil {
		return fallback
	}
	if s, ok := d.Meta[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// TeamDocument is the on-disk shape of a team stats file
type TeamDocument struct {
	Stats StatRecord `json:"stats"`
}
