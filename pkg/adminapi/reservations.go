package adminapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lakeview/cottage-admin-console/internal/models"
)

var transitionMessages = map[models.ReservationAction]string{
	models.ActionConfirm:  "Reservation confirmed successfully",
	models.ActionCancel:   "Reservation canceled successfully",
	models.ActionComplete: "Reservation completed successfully",
}

// CreateReservation submits a validated draft and returns the server message
func (c *Client) CreateReservation(ctx context.Context, draft models.ReservationDraft) (string, error) {
	body, err := c.do(ctx, request{
		op:     OpCreateReservation,
		method: http.MethodPost,
		path:   "/admin/create-reservation",
		body:   draft,
	})
	if err != nil {
		return "", err
	}
	return successMessage(body, "Reservation created successfully"), nil
}

// TransitionReservation applies confirm, cancel or complete to one reservation
func (c *Client) TransitionReservation(ctx context.Context, action models.ReservationAction, reservationID string) (string, error) {
	op := Operation(string(action) + "_reservation")
	body, err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   fmt.Sprintf("/admin/%s-reservation/%s", action, reservationID),
		body:   struct{}{},
	})
	if err != nil {
		return "", err
	}
	return successMessage(body, transitionMessages[action]), nil
}

// ListReservations returns every reservation in one status partition
func (c *Client) ListReservations(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	op := Operation(fmt.Sprintf("list_%s_reservations", status))
	body, err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/reservations/%s-reservations", status),
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(op, body)
	if err != nil {
		return nil, err
	}
	var reservations []models.Reservation
	if err := field(op, fields, "reservations", &reservations); err != nil {
		return nil, err
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}

// SeriesPayload is an aggregation as sent by the server, before reduction
type SeriesPayload struct {
	Labels   []string           `json:"labels"`
	Datasets []models.Dataset   `json:"datasets"`
	Raw      []models.RawPeriod `json:"raw"`
	Total    *float64           `json:"total"`
}

// ReportPayload is a status report as sent by the server
type ReportPayload struct {
	SeriesPayload
	TableData []models.Reservation
	Total     *float64 // top-level total, falling back to the series total
}

// Metric fetches one dashboard aggregation for filter
func (c *Client) Metric(ctx context.Context, kind models.MetricKind, filter models.Filter) (*SeriesPayload, error) {
	op := Operation("metric_" + string(kind))
	body, err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/reservations/" + kind.Path(),
		query:  filter.QueryParams(),
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(op, body)
	if err != nil {
		return nil, err
	}
	var series SeriesPayload
	if err := field(op, fields, kind.EnvelopeKey(), &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// StatusReport fetches the report of one status partition for filter
func (c *Client) StatusReport(ctx context.Context, status models.ReservationStatus, filter models.Filter) (*ReportPayload, error) {
	op := Operation("report_" + string(status))
	body, err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/reservations/%s-report", status),
		query:  filter.QueryParams(),
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(op, body)
	if err != nil {
		return nil, err
	}

	var report ReportPayload
	if err := field(op, fields, models.ReportEnvelopeKey(status), &report.SeriesPayload); err != nil {
		return nil, err
	}
	if _, err := optionalField(op, fields, "tableData", &report.TableData); err != nil {
		return nil, err
	}
	var total float64
	found, err := optionalField(op, fields, "total", &total)
	if err != nil {
		return nil, err
	}
	if found {
		report.Total = &total
	} else {
		report.Total = report.SeriesPayload.Total
	}
	return &report, nil
}

func successMessage(body []byte, fallback string) string {
	fields, err := envelope("", body)
	if err != nil {
		return fallback
	}
	var msg string
	if found, err := optionalField("", fields, "message", &msg); err != nil || !found || msg == "" {
		return fallback
	}
	return msg
}
