package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/sirupsen/logrus"
)

// FilterHandler exposes the per-view year/month filters
type FilterHandler struct {
	logger *logrus.Logger
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(logger *logrus.Logger) *FilterHandler {
	return &FilterHandler{logger: logger}
}

// FilterResponse is the current filter of one view
type FilterResponse struct {
	View        services.FilterView `json:"view"`
	Filter      models.Filter       `json:"filter"`
	PresetLabel string              `json:"preset_label"`
}

// YearRequest selects a single calendar year
type YearRequest struct {
	Year int `json:"year" binding:"required,min=1"`
}

// MonthPresetRequest selects a month preset by label
type MonthPresetRequest struct {
	Label string `json:"label" binding:"required"`
}

func filterResponse(view services.FilterView, f models.Filter) FilterResponse {
	return FilterResponse{View: view, Filter: f, PresetLabel: f.PresetLabel()}
}

func (h *FilterHandler) view(c *gin.Context) (services.FilterView, bool) {
	view, err := services.ParseFilterView(c.Param("view"))
	if err != nil {
		badRequest(c, err.Error(), "UNKNOWN_VIEW")
		return "", false
	}
	return view, true
}

// Options handles GET /api/v1/filters/options
func (h *FilterHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"years":         models.YearOptions(),
		"month_presets": models.MonthPresets,
	})
}

// Get handles GET /api/v1/filters/:view
func (h *FilterHandler) Get(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, filterResponse(view, ws.Filters.Get(view)))
}

// Set handles PUT /api/v1/filters/:view
func (h *FilterHandler) Set(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	view, ok := h.view(c)
	if !ok {
		return
	}

	var f models.Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	updated, err := ws.Filters.Set(view, f)
	if err != nil {
		badRequest(c, err.Error(), "INVALID_FILTER")
		return
	}
	c.JSON(http.StatusOK, filterResponse(view, updated))
}

// Reset handles DELETE /api/v1/filters/:view
func (h *FilterHandler) Reset(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, filterResponse(view, ws.Filters.Reset(view)))
}

// ApplyYear handles POST /api/v1/filters/:view/year
func (h *FilterHandler) ApplyYear(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	view, ok := h.view(c)
	if !ok {
		return
	}

	var req YearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A year is required", "INVALID_REQUEST")
		return
	}
	c.JSON(http.StatusOK, filterResponse(view, ws.Filters.ApplyYear(view, req.Year)))
}

// ApplyMonthPreset handles POST /api/v1/filters/:view/month-preset
func (h *FilterHandler) ApplyMonthPreset(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	view, ok := h.view(c)
	if !ok {
		return
	}

	var req MonthPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A month preset label is required", "INVALID_REQUEST")
		return
	}

	updated, err := ws.Filters.ApplyMonthPreset(view, req.Label)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, filterResponse(view, updated))
}
