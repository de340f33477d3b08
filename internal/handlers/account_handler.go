package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/reports"
	"github.com/sirupsen/logrus"
)

// AccountHandler serves the account manager and the activity log
type AccountHandler struct {
	exporter reports.ReportExporter
	logger   *logrus.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(exporter reports.ReportExporter, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{exporter: exporter, logger: logger}
}

// ListAdmins handles GET /api/v1/admins
func (h *AccountHandler) ListAdmins(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	list, err := ws.Accounts.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateAdmin handles POST /api/v1/admins
// @Summary Create admin account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param form body models.AdminForm true "Account form"
// @Success 201 {object} services.AccountList
// @Failure 400 {object} ErrorResponse
// @Router /admins [post]
func (h *AccountHandler) CreateAdmin(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

// UpdateAdmin handles PUT /api/v1/admins/:id
func (h *AccountHandler) UpdateAdmin(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *AccountHandler) save(c *gin.Context, selectedID string, status int) {
	ws := middleware.MustGetWorkspace(c)

	var form models.AdminForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	list, err := ws.Accounts.Save(c.Request.Context(), selectedID, form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(status, list)
}

// ActivityLogs handles GET /api/v1/activity-logs
func (h *AccountHandler) ActivityLogs(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	if err := ws.Activity.Fetch(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ws.Activity.Visible(ws.Admin().Role))
}

// ExportActivityLogs handles GET /api/v1/activity-logs/export
func (h *AccountHandler) ExportActivityLogs(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	format, ok := parseExportFormat(c)
	if !ok {
		return
	}
	if err := ws.Activity.Fetch(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	visible := ws.Activity.Visible(ws.Admin().Role)
	data, filename, contentType, err := h.exporter.ExportActivityLogs(format, visible.Groups)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	sendExport(c, data, filename, contentType)
}
