package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Dataset is one named numeric series of a chart. Styling keys sent by the
// server are passed through untouched.
type Dataset struct {
	Label           string          `json:"label"`
	Data            []float64       `json:"data"`
	BackgroundColor json.RawMessage `json:"backgroundColor,omitempty"`
	BorderColor     json.RawMessage `json:"borderColor,omitempty"`
	BorderWidth     json.RawMessage `json:"borderWidth,omitempty"`
}

// RawPeriod is one per-period row of an aggregation, e.g.
// {"period":"2025-01","totalCustomers":3}
type RawPeriod struct {
	Period string
	Values map[string]float64
}

func (p *RawPeriod) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p.Values = make(map[string]float64, len(fields))
	for key, raw := range fields {
		if key == "period" || key == "_id" {
			var label string
			if err := json.Unmarshal(raw, &label); err == nil && p.Period == "" {
				p.Period = label
			}
			continue
		}
		var n float64
		if err := json.Unmarshal(bytes.TrimSpace(raw), &n); err == nil {
			p.Values[key] = n
		}
	}
	return nil
}

func (p RawPeriod) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Values)+1)
	for k, v := range p.Values {
		out[k] = v
	}
	out["period"] = p.Period
	return json.Marshal(out)
}

// Value returns the numeric value for key, zero when absent
func (p RawPeriod) Value(key string) float64 {
	return p.Values[key]
}

// ValueKeys returns the numeric keys of the row in sorted order
func (p RawPeriod) ValueKeys() []string {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Series is a chart-ready reduction of raw per-period rows
type Series struct {
	Labels   []string    `json:"labels"`
	Datasets []Dataset   `json:"datasets"`
	Raw      []RawPeriod `json:"raw,omitempty"`
	Total    *float64    `json:"total"` // nil when the server sent no raw rows
}

// TotalValue returns the total, zero when it is unknown
func (s *Series) TotalValue() float64 {
	if s == nil || s.Total == nil {
		return 0
	}
	return *s.Total
}

// HasData is false when there is nothing to plot for the selected range
func (s *Series) HasData() bool {
	return s != nil && len(s.Labels) > 0 && len(s.Datasets) > 0
}

// Report is a per-status series plus the flat reservation rows behind it
type Report struct {
	Series
	Status    ReservationStatus `json:"status"`
	TableData []Reservation     `json:"tableData"`
}
