package services

import (
	"context"
	"sync"
	"time"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/sirupsen/logrus"
)

// ReduceSeries turns a server aggregation into a chart-ready series. Labels
// and datasets sent by the server are used as-is when both are present;
// otherwise they are rebuilt from the raw rows. Total is the sum of valueKey
// over the raw rows, or nil when the server sent none. The result depends
// only on the payload.
func ReduceSeries(payload *adminapi.SeriesPayload, valueKey, label string) (*models.Series, error) {
	op := adminapi.Operation("reduce_" + valueKey)
	if payload == nil {
		return nil, &adminapi.SchemaError{Op: op, Field: "<series>"}
	}

	series := &models.Series{
		Raw: append([]models.RawPeriod(nil), payload.Raw...),
	}
	if payload.Raw != nil {
		var total float64
		for _, row := range payload.Raw {
			total += row.Value(valueKey)
		}
		series.Total = &total
	}

	if len(payload.Labels) > 0 && len(payload.Datasets) > 0 {
		for _, ds := range payload.Datasets {
			if len(ds.Data) != len(payload.Labels) {
				return nil, &adminapi.SchemaError{Op: op, Field: "datasets"}
			}
		}
		series.Labels = append([]string(nil), payload.Labels...)
		series.Datasets = append([]models.Dataset(nil), payload.Datasets...)
		return series, nil
	}

	series.Labels = []string{}
	series.Datasets = []models.Dataset{}
	if len(payload.Raw) == 0 {
		return series, nil
	}
	data := make([]float64, 0, len(payload.Raw))
	for _, row := range payload.Raw {
		series.Labels = append(series.Labels, row.Period)
		data = append(data, row.Value(valueKey))
	}
	series.Datasets = []models.Dataset{{Label: label, Data: data}}
	return series, nil
}

// ReduceReport reduces a status report. The server's total wins over the raw sum.
func ReduceReport(status models.ReservationStatus, payload *adminapi.ReportPayload) (*models.Report, error) {
	if payload == nil {
		return nil, &adminapi.SchemaError{Op: adminapi.Operation("report_" + string(status)), Field: models.ReportEnvelopeKey(status)}
	}

	series, err := ReduceSeries(&payload.SeriesPayload, models.ReportValueKey, reportLabel(status))
	if err != nil {
		return nil, err
	}
	if payload.Total != nil {
		total := *payload.Total
		series.Total = &total
	}

	table := payload.TableData
	if table == nil {
		table = []models.Reservation{}
	}
	return &models.Report{Series: *series, Status: status, TableData: table}, nil
}

func copyTotal(total *float64) *float64 {
	if total == nil {
		return nil
	}
	v := *total
	return &v
}

func reportLabel(status models.ReservationStatus) string {
	switch status {
	case models.ReservationStatusPending:
		return "Pending Reservations"
	case models.ReservationStatusConfirmed:
		return "Confirmed Reservations"
	case models.ReservationStatusCancelled:
		return "Cancelled Reservations"
	default:
		return "Completed Reservations"
	}
}

// MetricResult is the held state of one dashboard metric. A nil Total means
// no data, which is different from zero.
type MetricResult struct {
	Kind      models.MetricKind `json:"kind"`
	Label     string            `json:"label"`
	Series    *models.Series    `json:"series,omitempty"`
	Total     *float64          `json:"total"`
	HasData   bool              `json:"has_data"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
	Filter    *models.Filter    `json:"filter,omitempty"`
	FetchedAt *time.Time        `json:"fetched_at,omitempty"`
}

// ReportResult is the held state of one status report
type ReportResult struct {
	Status    models.ReservationStatus `json:"status"`
	Report    *models.Report           `json:"report,omitempty"`
	HasData   bool                     `json:"has_data"`
	Loading   bool                     `json:"loading"`
	Error     string                   `json:"error,omitempty"`
	Filter    *models.Filter           `json:"filter,omitempty"`
	FetchedAt *time.Time               `json:"fetched_at,omitempty"`
}

// fetchSlot guards one metric or report against out-of-order responses
type fetchSlot struct {
	seq       uint64
	pending   int
	err       error
	filter    *models.Filter
	fetchedAt time.Time
}

func (f *fetchSlot) begin() uint64 {
	f.seq++
	f.pending++
	return f.seq
}

// finish reports whether the response for seq is still the latest
func (f *fetchSlot) finish(seq uint64) bool {
	f.pending--
	return seq == f.seq
}

type metricState struct {
	fetchSlot
	series *models.Series
}

type reportState struct {
	fetchSlot
	report *models.Report
}

// ReportingStore holds the dashboard metrics and status reports of one workspace
type ReportingStore struct {
	api     ReportingAPI
	logger  *logrus.Logger
	mu      sync.Mutex
	metrics map[models.MetricKind]*metricState
	reports map[models.ReservationStatus]*reportState
}

// NewReportingStore creates an empty store
func NewReportingStore(api ReportingAPI, logger *logrus.Logger) *ReportingStore {
	s := &ReportingStore{
		api:     api,
		logger:  logger,
		metrics: make(map[models.MetricKind]*metricState, len(models.AllMetricKinds)),
		reports: make(map[models.ReservationStatus]*reportState, len(models.AllReservationStatuses)),
	}
	for _, kind := range models.AllMetricKinds {
		s.metrics[kind] = &metricState{}
	}
	for _, status := range models.AllReservationStatuses {
		s.reports[status] = &reportState{}
	}
	return s
}

// FetchMetric queries one metric for filter and stores the reduction. On
// failure the error is stored, the previous value is kept and nil is returned.
func (s *ReportingStore) FetchMetric(ctx context.Context, kind models.MetricKind, filter models.Filter) (*models.Series, error) {
	state, ok := s.metrics[kind]
	if !ok {
		return nil, models.ErrUnknownMetric
	}

	s.mu.Lock()
	seq := state.begin()
	s.mu.Unlock()

	var series *models.Series
	payload, err := s.api.Metric(ctx, kind, filter)
	if err == nil {
		series, err = ReduceSeries(payload, kind.ValueKey(), kind.Label())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !state.finish(seq) {
		s.logger.WithFields(logrus.Fields{"metric": kind, "seq": seq}).Debug("Discarding stale metric response")
		return state.series, state.err
	}
	if err != nil {
		state.err = err
		s.logger.WithFields(logrus.Fields{
			"metric": kind,
			"error":  err.Error(),
		}).Warn("Failed to fetch metric")
		return nil, err
	}
	f := filter
	state.series = series
	state.err = nil
	state.filter = &f
	state.fetchedAt = time.Now()
	return series, nil
}

// FetchReport queries one status report for filter and stores the reduction
func (s *ReportingStore) FetchReport(ctx context.Context, status models.ReservationStatus, filter models.Filter) (*models.Report, error) {
	state, ok := s.reports[status]
	if !ok {
		return nil, models.ErrUnknownStatus
	}

	s.mu.Lock()
	seq := state.begin()
	s.mu.Unlock()

	var report *models.Report
	payload, err := s.api.StatusReport(ctx, status, filter)
	if err == nil {
		report, err = ReduceReport(status, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !state.finish(seq) {
		s.logger.WithFields(logrus.Fields{"report": status, "seq": seq}).Debug("Discarding stale report response")
		return state.report, state.err
	}
	if err != nil {
		state.err = err
		s.logger.WithFields(logrus.Fields{
			"report": status,
			"error":  err.Error(),
		}).Warn("Failed to fetch report")
		return nil, err
	}
	f := filter
	state.report = report
	state.err = nil
	state.filter = &f
	state.fetchedAt = time.Now()
	return report, nil
}

// Metric returns the held state of one metric
func (s *ReportingStore) Metric(kind models.MetricKind) MetricResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := MetricResult{Kind: kind, Label: kind.Label()}
	state, ok := s.metrics[kind]
	if !ok {
		return result
	}
	result.Loading = state.pending > 0
	result.Error = errorMessage(state.err)
	result.Filter = state.filter
	if state.series != nil {
		result.Series = state.series
		result.Total = copyTotal(state.series.Total)
		result.HasData = state.series.HasData()
		at := state.fetchedAt
		result.FetchedAt = &at
	}
	return result
}

// Report returns the held state of one status report
func (s *ReportingStore) Report(status models.ReservationStatus) ReportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := ReportResult{Status: status}
	state, ok := s.reports[status]
	if !ok {
		return result
	}
	result.Loading = state.pending > 0
	result.Error = errorMessage(state.err)
	result.Filter = state.filter
	if state.report != nil {
		result.Report = state.report
		result.HasData = state.report.HasData()
		at := state.fetchedAt
		result.FetchedAt = &at
	}
	return result
}

// DashboardResult is the four dashboard metrics for one filter
type DashboardResult struct {
	Filter  models.Filter  `json:"filter"`
	Metrics []MetricResult `json:"metrics"`
}

// Dashboard fetches every metric concurrently. A failed metric is reported
// in its own result and does not fail the others.
func (s *ReportingStore) Dashboard(ctx context.Context, filter models.Filter) DashboardResult {
	results := make([]MetricResult, len(models.AllMetricKinds))

	var wg sync.WaitGroup
	for i, kind := range models.AllMetricKinds {
		wg.Add(1)
		go func(i int, kind models.MetricKind) {
			defer wg.Done()
			series, err := s.FetchMetric(ctx, kind, filter)
			result := MetricResult{Kind: kind, Label: kind.Label()}
			if err != nil {
				result.Error = errorMessage(err)
			} else if series != nil {
				result.Series = series
				result.Total = copyTotal(series.Total)
				result.HasData = series.HasData()
			}
			results[i] = result
		}(i, kind)
	}
	wg.Wait()

	return DashboardResult{Filter: filter, Metrics: results}
}
