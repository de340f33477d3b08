package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/reports"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/sirupsen/logrus"
)

// ReportingHandler serves the dashboard metrics and the status reports.
// Every request fetches again with the view's current filter.
type ReportingHandler struct {
	exporter reports.ReportExporter
	logger   *logrus.Logger
}

// NewReportingHandler creates a new reporting handler
func NewReportingHandler(exporter reports.ReportExporter, logger *logrus.Logger) *ReportingHandler {
	return &ReportingHandler{exporter: exporter, logger: logger}
}

// Dashboard handles GET /api/v1/dashboard
// @Summary Dashboard metrics
// @Description Fetches the four dashboard metrics for the dashboard filter. A failing metric carries its own error.
// @Tags Reporting
// @Produce json
// @Success 200 {object} services.DashboardResult
// @Router /dashboard [get]
func (h *ReportingHandler) Dashboard(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	filter := ws.Filters.Get(services.FilterViewDashboard)
	c.JSON(http.StatusOK, ws.Reporting.Dashboard(c.Request.Context(), filter))
}

// Metric handles GET /api/v1/metrics/:kind
func (h *ReportingHandler) Metric(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	kind, err := models.ParseMetricKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filter := ws.Filters.Get(services.FilterViewDashboard)
	_, err = ws.Reporting.FetchMetric(c.Request.Context(), kind, filter)
	held := ws.Reporting.Metric(kind)
	if err != nil && held.Series == nil {
		respondError(c, h.logger, err)
		return
	}
	// a failed refresh keeps the last good series and carries the error
	c.JSON(http.StatusOK, held)
}

// Report handles GET /api/v1/reports/:status
func (h *ReportingHandler) Report(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	status, err := models.ParseReservationStatus(c.Param("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filter := ws.Filters.Get(services.FilterViewReports)
	_, err = ws.Reporting.FetchReport(c.Request.Context(), status, filter)
	held := ws.Reporting.Report(status)
	if err != nil && held.Report == nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, held)
}

// ExportReport handles GET /api/v1/reports/:status/export
// @Summary Printable report
// @Tags Reporting
// @Produce application/pdf
// @Param status path string true "reservation status"
// @Param format query string false "pdf, xlsx or csv"
// @Router /reports/{status}/export [get]
func (h *ReportingHandler) ExportReport(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	status, err := models.ParseReservationStatus(c.Param("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	format, ok := parseExportFormat(c)
	if !ok {
		return
	}

	filter := ws.Filters.Get(services.FilterViewReports)
	report, err := ws.Reporting.FetchReport(c.Request.Context(), status, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data, filename, contentType, err := h.exporter.ExportReport(format, report, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"session_id": ws.ID.String(),
		"status":     status,
		"format":     format,
		"rows":       len(report.TableData),
	}).Info("Report exported")

	sendExport(c, data, filename, contentType)
}
