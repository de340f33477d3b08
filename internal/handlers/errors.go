package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/reports"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/lakeview/cottage-admin-console/pkg/validator"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// SuccessResponse represents a plain success message
type SuccessResponse struct {
	Message string `json:"message"`
}

// remote statuses passed through to the caller as-is
var passthroughStatuses = map[int]bool{
	http.StatusBadRequest:   true,
	http.StatusUnauthorized: true,
	http.StatusForbidden:    true,
	http.StatusNotFound:     true,
	http.StatusConflict:     true,
}

// classifyError maps a service error to the HTTP status and body returned to the console
func classifyError(err error) (int, ErrorResponse) {
	var validationErr *validator.ValidationError
	var invalidTransition *models.InvalidTransitionError
	var remoteErr *adminapi.RemoteError
	var schemaErr *adminapi.SchemaError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: validationErr.Message, Code: "VALIDATION_ERROR", Field: validationErr.Field}
	case errors.As(err, &invalidTransition):
		return http.StatusConflict, ErrorResponse{Error: "invalid_transition", Message: invalidTransition.Error(), Code: "INVALID_TRANSITION"}
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway, ErrorResponse{Error: "schema_error", Message: schemaErr.Error(), Code: "REMOTE_SCHEMA"}
	case errors.As(err, &remoteErr):
		status := http.StatusBadGateway
		if passthroughStatuses[remoteErr.Status] {
			status = remoteErr.Status
		}
		return status, ErrorResponse{Error: "remote_error", Message: remoteErr.Message, Code: string(remoteErr.Op)}
	case errors.Is(err, models.ErrUnknownPreset),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrUnknownMetric):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: err.Error()}
	}
}

// respondError logs err and writes the mapped error response
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status, body := classifyError(err)

	entry := logger.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	_ = c.Error(err)
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: message, Code: details})
}

// sendExport writes an exported file as a download
func sendExport(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func parseExportFormat(c *gin.Context) (string, bool) {
	format, err := reports.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err.Error(), "UNSUPPORTED_FORMAT")
		return "", false
	}
	return format, true
}
