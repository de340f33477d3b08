package services

import (
	"strings"

	"github.com/lakeview/cottage-admin-console/internal/models"
)

// DefaultPageSize is the number of rows a partition table shows
const DefaultPageSize = 5

// FilterReservations keeps reservations where any searchable field contains
// query, ignoring case. An empty query returns list unchanged.
func FilterReservations(list []models.Reservation, query string) []models.Reservation {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return list
	}

	matched := make([]models.Reservation, 0, len(list))
	for i := range list {
		for _, value := range list[i].SearchableText() {
			if strings.Contains(strings.ToLower(value), needle) {
				matched = append(matched, list[i])
				break
			}
		}
	}
	return matched
}

// PartitionView is the search and pagination state of one partition table
type PartitionView struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// NewPartitionView starts at page 1 with no query
func NewPartitionView(pageSize int) PartitionView {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PartitionView{Page: 1, PageSize: pageSize}
}

// SetQuery changes the search text and returns to page 1
func (v *PartitionView) SetQuery(query string) {
	v.Query = query
	v.Page = 1
}

// TotalPages is max(1, ceil(n / page size))
func (v PartitionView) TotalPages(n int) int {
	size := v.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// SetPage moves to page p. Pages outside [1, TotalPages(n)] leave the view unchanged.
func (v *PartitionView) SetPage(p, n int) bool {
	if p < 1 || p > v.TotalPages(n) {
		return false
	}
	v.Page = p
	return true
}

// NextPage advances one page if possible
func (v *PartitionView) NextPage(n int) bool {
	return v.SetPage(v.Page+1, n)
}

// PrevPage goes back one page if possible
func (v *PartitionView) PrevPage(n int) bool {
	return v.SetPage(v.Page-1, n)
}

// Clamp pulls the page back into [1, TotalPages(n)], e.g. after the list
// shrank underneath the view. It reports whether the page changed.
func (v *PartitionView) Clamp(n int) bool {
	page := v.Page
	if total := v.TotalPages(n); page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	if page == v.Page {
		return false
	}
	v.Page = page
	return true
}

// Slice returns the rows of the current page
func (v PartitionView) Slice(list []models.Reservation) []models.Reservation {
	size := v.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	start := (v.Page - 1) * size
	if start < 0 || start >= len(list) {
		return []models.Reservation{}
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// PartitionPage is one rendered page of a filtered partition
type PartitionPage struct {
	Partition
	View          PartitionView `json:"view"`
	TotalMatching int           `json:"total_matching"`
	TotalPages    int           `json:"total_pages"`
	HasNext       bool          `json:"has_next"`
	HasPrev       bool          `json:"has_prev"`
}

// Render filters the partition by the view's query and slices the current
// page. A page past the end renders the last page instead.
func (v PartitionView) Render(p Partition) PartitionPage {
	filtered := FilterReservations(p.Reservations, v.Query)
	v.Clamp(len(filtered))
	total := v.TotalPages(len(filtered))
	page := p
	page.Reservations = v.Slice(filtered)
	return PartitionPage{
		Partition:     page,
		View:          v,
		TotalMatching: len(filtered),
		TotalPages:    total,
		HasNext:       v.Page < total,
		HasPrev:       v.Page > 1,
	}
}
