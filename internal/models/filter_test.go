package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyYear(t *testing.T) {
	f := DefaultDashboardFilter()
	f.ApplyYear(2027)

	assert.Equal(t, 2027, f.FromYear)
	assert.Equal(t, 2027, f.ToYear)
	assert.Equal(t, "01", f.FromMonth)
	assert.Equal(t, "12", f.ToMonth)
}

func TestApplyMonthPreset(t *testing.T) {
	tests := []struct {
		name       string
		start      Filter
		label      string
		wantFrom   string
		wantTo     string
		wantToYear int
	}{
		{"Jan - Jun keeps toYear", Filter{2025, 2025, "01", "12"}, "Jan - Jun", "01", "06", 2025},
		{"Jul - Nov keeps toYear", Filter{2025, 2026, "01", "12"}, "Jul - Nov", "07", "11", 2026},
		{"Dec - Apr wraps into next year", Filter{2025, 2025, "01", "12"}, "Dec - Apr", "12", "04", 2026},
		{"May - Sep", Filter{2026, 2026, "12", "04"}, "May - Sep", "05", "09", 2026},
		{"All Months", Filter{2025, 2025, "05", "09"}, "All Months", "01", "12", 2025},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.start
			require.NoError(t, f.ApplyMonthPreset(tc.label))
			assert.Equal(t, tc.wantFrom, f.FromMonth)
			assert.Equal(t, tc.wantTo, f.ToMonth)
			assert.Equal(t, tc.wantToYear, f.ToYear)
			assert.Equal(t, tc.start.FromYear, f.FromYear)
		})
	}
}

func TestApplyMonthPreset_Unknown(t *testing.T) {
	f := DefaultReportFilter()
	err := f.ApplyMonthPreset("Feb - Mar")

	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, DefaultReportFilter(), f)
}

func TestPresetLabel(t *testing.T) {
	assert.Equal(t, "Dec - Apr", Filter{2025, 2026, "12", "04"}.PresetLabel())
	assert.Equal(t, AllMonthsLabel, Filter{2025, 2026, "02", "03"}.PresetLabel())
	assert.Equal(t, AllMonthsLabel, DefaultDashboardFilter().PresetLabel())
}

func TestYearOptions(t *testing.T) {
	assert.Equal(t, []int{2025, 2026, 2027, 2028, 2029, 2030}, YearOptions())
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, DefaultDashboardFilter().Validate())
	assert.Error(t, Filter{2025, 2025, "1", "12"}.Validate())
	assert.Error(t, Filter{2025, 2025, "01", "13"}.Validate())
	assert.Error(t, Filter{0, 2025, "01", "12"}.Validate())
}

func TestQueryParams(t *testing.T) {
	q := Filter{2025, 2026, "12", "04"}.QueryParams()

	assert.Equal(t, "2025", q.Get("fromYear"))
	assert.Equal(t, "2026", q.Get("toYear"))
	assert.Equal(t, "12", q.Get("fromMonth"))
	assert.Equal(t, "04", q.Get("toMonth"))
}
