package services

import (
	"fmt"
	"sync"

	"github.com/lakeview/cottage-admin-console/internal/models"
)

// FilterView names a page that owns its own filter
type FilterView string

const (
	FilterViewDashboard FilterView = "dashboard"
	FilterViewReports   FilterView = "reports"
)

// ParseFilterView validates a view name
func ParseFilterView(s string) (FilterView, error) {
	switch FilterView(s) {
	case FilterViewDashboard, FilterViewReports:
		return FilterView(s), nil
	}
	return "", fmt.Errorf("unknown filter view %q", s)
}

func defaultFilter(view FilterView) models.Filter {
	if view == FilterViewReports {
		return models.DefaultReportFilter()
	}
	return models.DefaultDashboardFilter()
}

// FilterStore holds the filter of each view. Changing a filter does not
// fetch anything; consumers fetch again with the new value.
type FilterStore struct {
	mu      sync.RWMutex
	filters map[FilterView]models.Filter
}

// NewFilterStore creates a store with every view at its default
func NewFilterStore() *FilterStore {
	return &FilterStore{
		filters: map[FilterView]models.Filter{
			FilterViewDashboard: defaultFilter(FilterViewDashboard),
			FilterViewReports:   defaultFilter(FilterViewReports),
		},
	}
}

// Get returns the current filter of view
func (s *FilterStore) Get(view FilterView) models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.filters[view]; ok {
		return f
	}
	return defaultFilter(view)
}

// Set replaces the filter of view after validating it
func (s *FilterStore) Set(view FilterView, f models.Filter) (models.Filter, error) {
	if err := f.Validate(); err != nil {
		return s.Get(view), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[view] = f
	return f, nil
}

// Reset restores the default filter of view
func (s *FilterStore) Reset(view FilterView) models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := defaultFilter(view)
	s.filters[view] = f
	return f
}

// ApplyYear narrows view to a single year
func (s *FilterStore) ApplyYear(view FilterView, year int) models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.current(view)
	f.ApplyYear(year)
	s.filters[view] = f
	return f
}

// ApplyMonthPreset applies a preset to view. Unknown labels leave the filter unchanged.
func (s *FilterStore) ApplyMonthPreset(view FilterView, label string) (models.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.current(view)
	if err := f.ApplyMonthPreset(label); err != nil {
		return s.current(view), err
	}
	s.filters[view] = f
	return f, nil
}

func (s *FilterStore) current(view FilterView) models.Filter {
	if f, ok := s.filters[view]; ok {
		return f
	}
	return defaultFilter(view)
}
