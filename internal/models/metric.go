package models

import (
	"errors"
	"fmt"
)

// MetricKind identifies one dashboard aggregation
type MetricKind string

const (
	MetricTotalCustomers    MetricKind = "totalCustomers"
	MetricRepeatedGuests    MetricKind = "repeatedGuests"
	MetricTotalReservations MetricKind = "totalReservations"
	MetricTotalRevenue      MetricKind = "totalRevenue"
)

// AllMetricKinds lists the dashboard metrics in display order
var AllMetricKinds = []MetricKind{
	MetricTotalCustomers,
	MetricRepeatedGuests,
	MetricTotalReservations,
	MetricTotalRevenue,
}

type metricDescriptor struct {
	path        string
	envelopeKey string
	valueKey    string
	label       string
}

var metricDescriptors = map[MetricKind]metricDescriptor{
	MetricTotalCustomers:    {"total-customers", "customers", "totalCustomers", "Total Customers"},
	MetricRepeatedGuests:    {"repeated-guests", "repeatedGuests", "totalRepeatedGuests", "Repeated Guests"},
	MetricTotalReservations: {"total-reservations", "totalReservations", "totalReservations", "Total Reservations"},
	MetricTotalRevenue:      {"total-revenue", "totalRevenue", "totalRevenue", "Total Revenue"},
}

// ErrUnknownMetric is returned for a metric name that is not one of the four kinds
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetricKind accepts either the kind name or its endpoint path
func ParseMetricKind(s string) (MetricKind, error) {
	for kind, d := range metricDescriptors {
		if s == string(kind) || s == d.path {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Path is the remote endpoint suffix under /reservations
func (k MetricKind) Path() string { return metricDescriptors[k].path }

// EnvelopeKey is the top-level response key holding the series
func (k MetricKind) EnvelopeKey() string { return metricDescriptors[k].envelopeKey }

// ValueKey is the per-period raw field summed into the total
func (k MetricKind) ValueKey() string { return metricDescriptors[k].valueKey }

// Label is the chart title
func (k MetricKind) Label() string { return metricDescriptors[k].label }

// ReportValueKey is the per-period raw field of status reports
const ReportValueKey = "count"

// ReportEnvelopeKey returns the response key holding a status report series
func ReportEnvelopeKey(status ReservationStatus) string {
	return string(status) + "Reports"
}
