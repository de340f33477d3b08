package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(label, key string, value float64) models.RawPeriod {
	return models.RawPeriod{Period: label, Values: map[string]float64{key: value}}
}

func TestReduceSeries(t *testing.T) {
	t.Run("builds labels and data from raw rows", func(t *testing.T) {
		payload := &adminapi.SeriesPayload{Raw: []models.RawPeriod{
			period("2025-01", "totalCustomers", 3),
			period("2025-02", "totalCustomers", 5),
		}}

		series, err := ReduceSeries(payload, "totalCustomers", "Total Customers")
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-01", "2025-02"}, series.Labels)
		require.Len(t, series.Datasets, 1)
		assert.Equal(t, []float64{3, 5}, series.Datasets[0].Data)
		assert.Equal(t, "Total Customers", series.Datasets[0].Label)
		assert.Equal(t, float64(8), series.TotalValue())
		assert.Len(t, series.Datasets[0].Data, len(series.Labels))
		assert.True(t, series.HasData())
	})

	t.Run("uses server labels and datasets when both are sent", func(t *testing.T) {
		payload := &adminapi.SeriesPayload{
			Labels:   []string{"Jan", "Feb"},
			Datasets: []models.Dataset{{Label: "Revenue", Data: []float64{100, 250}}},
			Raw: []models.RawPeriod{
				period("2025-01", "totalRevenue", 100),
				period("2025-02", "totalRevenue", 250),
			},
		}

		series, err := ReduceSeries(payload, "totalRevenue", "Total Revenue")
		require.NoError(t, err)
		assert.Equal(t, []string{"Jan", "Feb"}, series.Labels)
		assert.Equal(t, "Revenue", series.Datasets[0].Label)
		assert.Equal(t, float64(350), series.TotalValue())
	})

	t.Run("dataset length mismatch is a schema error", func(t *testing.T) {
		payload := &adminapi.SeriesPayload{
			Labels:   []string{"Jan", "Feb", "Mar"},
			Datasets: []models.Dataset{{Label: "Guests", Data: []float64{1, 2}}},
		}

		_, err := ReduceSeries(payload, "totalCustomers", "Total Customers")
		var schemaErr *adminapi.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "datasets", schemaErr.Field)
	})

	t.Run("missing value key counts as zero", func(t *testing.T) {
		payload := &adminapi.SeriesPayload{Raw: []models.RawPeriod{
			period("2025-01", "other", 9),
			period("2025-02", "totalReservations", 4),
		}}

		series, err := ReduceSeries(payload, "totalReservations", "Total Reservations")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 4}, series.Datasets[0].Data)
		assert.Equal(t, float64(4), series.TotalValue())
	})

	t.Run("empty payload has no data", func(t *testing.T) {
		series, err := ReduceSeries(&adminapi.SeriesPayload{}, "totalCustomers", "Total Customers")
		require.NoError(t, err)
		assert.False(t, series.HasData())
		assert.Nil(t, series.Total)
		assert.Empty(t, series.Labels)
	})

	t.Run("empty raw rows total zero", func(t *testing.T) {
		series, err := ReduceSeries(&adminapi.SeriesPayload{Raw: []models.RawPeriod{}}, "totalCustomers", "Total Customers")
		require.NoError(t, err)
		require.NotNil(t, series.Total)
		assert.Zero(t, *series.Total)
	})

	t.Run("server chart without raw rows has no total", func(t *testing.T) {
		payload := &adminapi.SeriesPayload{
			Labels:   []string{"Jan", "Feb"},
			Datasets: []models.Dataset{{Label: "Guests", Data: []float64{2, 3}}},
		}

		series, err := ReduceSeries(payload, "totalCustomers", "Total Customers")
		require.NoError(t, err)
		assert.True(t, series.HasData())
		assert.Nil(t, series.Total)
	})

	t.Run("nil payload", func(t *testing.T) {
		_, err := ReduceSeries(nil, "totalCustomers", "Total Customers")
		assert.Error(t, err)
	})
}

func TestReduceReport(t *testing.T) {
	raw := []models.RawPeriod{period("2025-01", "count", 2), period("2025-02", "count", 4)}
	serverTotal := float64(10)

	tests := []struct {
		name      string
		total     *float64
		wantTotal float64
	}{
		{"raw sum without a server total", nil, 6},
		{"server total wins", &serverTotal, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &adminapi.ReportPayload{
				SeriesPayload: adminapi.SeriesPayload{Raw: raw},
				Total:         tt.total,
			}
			report, err := ReduceReport(models.ReservationStatusCancelled, payload)
			require.NoError(t, err)
			require.NotNil(t, report.Total)
			assert.Equal(t, tt.wantTotal, *report.Total)
			assert.Equal(t, models.ReservationStatusCancelled, report.Status)
			assert.Equal(t, "Cancelled Reservations", report.Datasets[0].Label)
			assert.NotNil(t, report.TableData)
		})
	}

	t.Run("table rows are passed through", func(t *testing.T) {
		payload := &adminapi.ReportPayload{TableData: []models.Reservation{{ID: "r1"}}}
		report, err := ReduceReport(models.ReservationStatusCompleted, payload)
		require.NoError(t, err)
		require.Len(t, report.TableData, 1)
		assert.False(t, report.HasData())
	})
}

func TestReportingStore_FetchMetric(t *testing.T) {
	ctx := context.Background()
	filter := models.DefaultDashboardFilter()

	t.Run("success is held", func(t *testing.T) {
		api := newFakeAPI()
		api.metrics[models.MetricTotalCustomers] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{
			period("2025-01", "totalCustomers", 3),
			period("2025-02", "totalCustomers", 5),
		}}
		store := NewReportingStore(api, quietLogger())

		series, err := store.FetchMetric(ctx, models.MetricTotalCustomers, filter)
		require.NoError(t, err)
		assert.Equal(t, float64(8), series.TotalValue())

		held := store.Metric(models.MetricTotalCustomers)
		require.NotNil(t, held.Total)
		assert.Equal(t, float64(8), *held.Total)
		assert.True(t, held.HasData)
		assert.Equal(t, &filter, held.Filter)
	})

	t.Run("failure keeps the previous value", func(t *testing.T) {
		api := newFakeAPI()
		api.metrics[models.MetricTotalRevenue] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2025-01", "totalRevenue", 500)}}
		store := NewReportingStore(api, quietLogger())
		_, err := store.FetchMetric(ctx, models.MetricTotalRevenue, filter)
		require.NoError(t, err)

		api.metricErr[models.MetricTotalRevenue] = &adminapi.RemoteError{Op: "metric_totalRevenue", Status: http.StatusInternalServerError, Message: "Failed to fetch total revenue"}
		series, err := store.FetchMetric(ctx, models.MetricTotalRevenue, filter)
		require.Error(t, err)
		assert.Nil(t, series)

		held := store.Metric(models.MetricTotalRevenue)
		assert.Equal(t, "Failed to fetch total revenue", held.Error)
		require.NotNil(t, held.Total)
		assert.Equal(t, float64(500), *held.Total)
	})

	t.Run("never fetched has no total", func(t *testing.T) {
		store := NewReportingStore(newFakeAPI(), quietLogger())
		held := store.Metric(models.MetricRepeatedGuests)
		assert.Nil(t, held.Total)
		assert.False(t, held.HasData)
	})

	t.Run("unknown metric", func(t *testing.T) {
		store := NewReportingStore(newFakeAPI(), quietLogger())
		_, err := store.FetchMetric(ctx, models.MetricKind("bogus"), filter)
		assert.ErrorIs(t, err, models.ErrUnknownMetric)
	})
}

func TestReportingStore_StaleMetricDiscarded(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	store := NewReportingStore(api, quietLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	api.metricHook = func(models.MetricKind) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.FetchMetric(ctx, models.MetricTotalReservations, models.DefaultDashboardFilter())
	}()
	<-entered

	newer := models.Filter{FromYear: 2025, ToYear: 2025, FromMonth: "01", ToMonth: "06"}
	api.mu.Lock()
	api.metrics[models.MetricTotalReservations] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2025-01", "totalReservations", 7)}}
	api.mu.Unlock()
	_, err := store.FetchMetric(ctx, models.MetricTotalReservations, newer)
	require.NoError(t, err)

	api.mu.Lock()
	api.metrics[models.MetricTotalReservations] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2024-01", "totalReservations", 99)}}
	api.mu.Unlock()
	close(release)
	<-done

	held := store.Metric(models.MetricTotalReservations)
	require.NotNil(t, held.Total)
	assert.Equal(t, float64(7), *held.Total)
	assert.Equal(t, &newer, held.Filter)
}

func TestReportingStore_Dashboard(t *testing.T) {
	api := newFakeAPI()
	api.metrics[models.MetricTotalCustomers] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2025-01", "totalCustomers", 3)}}
	api.metrics[models.MetricRepeatedGuests] = &adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2025-01", "totalRepeatedGuests", 1)}}
	api.metrics[models.MetricTotalReservations] = &adminapi.SeriesPayload{}
	api.metricErr[models.MetricTotalRevenue] = &adminapi.RemoteError{Op: "metric_totalRevenue", Status: http.StatusBadGateway, Message: "Failed to fetch total revenue"}
	store := NewReportingStore(api, quietLogger())

	result := store.Dashboard(context.Background(), models.DefaultDashboardFilter())
	require.Len(t, result.Metrics, 4)

	byKind := map[models.MetricKind]MetricResult{}
	for _, m := range result.Metrics {
		byKind[m.Kind] = m
	}
	assert.Equal(t, float64(3), *byKind[models.MetricTotalCustomers].Total)
	assert.Equal(t, float64(1), *byKind[models.MetricRepeatedGuests].Total)
	assert.False(t, byKind[models.MetricTotalReservations].HasData)
	assert.Equal(t, "Failed to fetch total revenue", byKind[models.MetricTotalRevenue].Error)
	assert.Nil(t, byKind[models.MetricTotalRevenue].Total)

	for _, kind := range models.AllMetricKinds {
		assert.Equal(t, 1, api.callCount("metric_"+string(kind)))
	}
}

func TestReportingStore_FetchReport(t *testing.T) {
	api := newFakeAPI()
	total := float64(3)
	api.reports[models.ReservationStatusConfirmed] = &adminapi.ReportPayload{
		SeriesPayload: adminapi.SeriesPayload{Raw: []models.RawPeriod{period("2025-04", "count", 3)}},
		TableData:     []models.Reservation{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}},
		Total:         &total,
	}
	store := NewReportingStore(api, quietLogger())

	report, err := store.FetchReport(context.Background(), models.ReservationStatusConfirmed, models.DefaultReportFilter())
	require.NoError(t, err)
	assert.Equal(t, float64(3), report.TotalValue())
	assert.Len(t, report.TableData, 3)

	held := store.Report(models.ReservationStatusConfirmed)
	assert.True(t, held.HasData)
	assert.NotNil(t, held.FetchedAt)

	_, err = store.FetchReport(context.Background(), models.ReservationStatus("unknown"), models.DefaultReportFilter())
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}
