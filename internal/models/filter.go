package models

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Filter is the year and month window every metric and report query is scoped to
type Filter struct {
	FromYear  int    `json:"fromYear"`
	ToYear    int    `json:"toYear"`
	FromMonth string `json:"fromMonth"`
	ToMonth   string `json:"toMonth"`
}

// MonthPreset is a named month window offered by the filter controls
type MonthPreset struct {
	Label     string `json:"label"`
	FromMonth string `json:"fromMonth"`
	ToMonth   string `json:"toMonth"`
}

const AllMonthsLabel = "All Months"

// MonthPresets is the closed preset table in dropdown order
var MonthPresets = []MonthPreset{
	{Label: "Jan - Jun", FromMonth: "01", ToMonth: "06"},
	{Label: "Jul - Nov", FromMonth: "07", ToMonth: "11"},
	{Label: "Dec - Apr", FromMonth: "12", ToMonth: "04"},
	{Label: "May - Sep", FromMonth: "05", ToMonth: "09"},
	{Label: AllMonthsLabel, FromMonth: "01", ToMonth: "12"},
}

var ErrUnknownPreset = errors.New("unknown month preset")

const (
	firstSelectableYear = 2025
	lastSelectableYear  = 2030
)

// DefaultDashboardFilter is the window the dashboard opens with
func DefaultDashboardFilter() Filter {
	return Filter{FromYear: 2024, ToYear: 2025, FromMonth: "01", ToMonth: "12"}
}

// DefaultReportFilter is the window the reports page opens with
func DefaultReportFilter() Filter {
	return Filter{FromYear: 2025, ToYear: 2026, FromMonth: "01", ToMonth: "12"}
}

// YearOptions lists the years selectable in the year dropdown
func YearOptions() []int {
	years := make([]int, 0, lastSelectableYear-firstSelectableYear+1)
	for y := firstSelectableYear; y <= lastSelectableYear; y++ {
		years = append(years, y)
	}
	return years
}

// ApplyYear narrows the window to a single calendar year
func (f *Filter) ApplyYear(year int) {
	f.FromYear = year
	f.ToYear = year
}

// ApplyMonthPreset sets the month window from the preset table.
// A window that wraps past December ends in the following year.
func (f *Filter) ApplyMonthPreset(label string) error {
	for _, p := range MonthPresets {
		if p.Label != label {
			continue
		}
		f.FromMonth, f.ToMonth = p.FromMonth, p.ToMonth
		if monthNumber(p.FromMonth) > monthNumber(p.ToMonth) {
			f.ToYear = f.FromYear + 1
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPreset, label)
}

// PresetLabel returns the preset matching the current months, or All Months
func (f Filter) PresetLabel() string {
	for _, p := range MonthPresets {
		if p.FromMonth == f.FromMonth && p.ToMonth == f.ToMonth {
			return p.Label
		}
	}
	return AllMonthsLabel
}

// Validate checks the month codes are two-digit months and the years are set
func (f Filter) Validate() error {
	if f.FromYear <= 0 || f.ToYear <= 0 {
		return errors.New("fromYear and toYear are required")
	}
	for _, m := range []string{f.FromMonth, f.ToMonth} {
		if len(m) != 2 || monthNumber(m) < 1 || monthNumber(m) > 12 {
			return fmt.Errorf("invalid month code %q", m)
		}
	}
	return nil
}

// QueryParams renders the filter as the remote API's query string
func (f Filter) QueryParams() url.Values {
	v := url.Values{}
	v.Set("fromYear", strconv.Itoa(f.FromYear))
	v.Set("toYear", strconv.Itoa(f.ToYear))
	v.Set("fromMonth", f.FromMonth)
	v.Set("toMonth", f.ToMonth)
	return v
}

func monthNumber(code string) int {
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0
	}
	return n
}
