package models

import "time"

// ActivityEntry is one recorded admin action
type ActivityEntry struct {
	ID        string    `json:"_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLogGroup is the activity of one admin account
type ActivityLogGroup struct {
	Name         string          `json:"name"`
	Role         AdminRole       `json:"role"`
	ActivityLogs []ActivityEntry `json:"activityLogs"`
}

// VisibleActivity keeps only the groups viewer may see, preserving order
func VisibleActivity(groups []ActivityLogGroup, viewer AdminRole) []ActivityLogGroup {
	visible := make([]ActivityLogGroup, 0, len(groups))
	for _, g := range groups {
		if viewer.CanSeeRow(g.Role) {
			visible = append(visible, g)
		}
	}
	return visible
}
