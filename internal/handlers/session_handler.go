package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/lakeview/cottage-admin-console/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// SessionHandler handles console login, logout and session checks
type SessionHandler struct {
	sessions   *services.SessionService
	jwtService *jwt.Service
	cfg        config.SessionConfig
	logger     *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, jwtService *jwt.Service, cfg config.SessionConfig, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		jwtService: jwtService,
		cfg:        cfg,
		logger:     logger,
	}
}

// SessionResponse is returned by login and session checks
type SessionResponse struct {
	Admin     models.AdminAccount   `json:"admin"`
	Nav       models.NavPermissions `json:"nav"`
	SessionID string                `json:"session_id,omitempty"`
	ExpiresAt *time.Time            `json:"expires_at,omitempty"`
}

// Login handles POST /api/v1/session/login
// @Summary Console login
// @Description Log in to the remote reservation API and open a console session
// @Tags Session
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required", "INVALID_REQUEST")
		return
	}

	middleware.AttachRequestMeta(c)
	ws, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	admin := ws.Admin()
	token, err := h.jwtService.GenerateSessionToken(ws.ID, admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		h.sessions.Registry().Delete(ws.ID)
		respondError(c, h.logger, err)
		return
	}

	expiresAt := time.Now().Add(h.jwtService.Expiry())
	h.setCookie(c, token, int(h.jwtService.Expiry().Seconds()))

	c.JSON(http.StatusOK, SessionResponse{
		Admin:     admin,
		Nav:       models.NavFor(admin.Role),
		SessionID: ws.ID.String(),
		ExpiresAt: &expiresAt,
	})
}

// Logout handles POST /api/v1/session/logout. The console session ends even
// when the remote logout fails.
func (h *SessionHandler) Logout(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	err := h.sessions.Logout(c.Request.Context(), ws)
	h.setCookie(c, "", -1)

	if err != nil {
		_, body := classifyError(err)
		c.JSON(http.StatusOK, gin.H{
			"message":      "Logged out",
			"remote_error": body.Message,
		})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/v1/session/me
func (h *SessionHandler) Me(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	admin, err := h.sessions.CheckAuth(c.Request.Context(), ws)
	if err != nil {
		if adminapi.IsUnauthorized(err) {
			h.setCookie(c, "", -1)
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Admin:     *admin,
		Nav:       models.NavFor(admin.Role),
		SessionID: ws.ID.String(),
	})
}

func (h *SessionHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", "", h.cfg.CookieSecure, true)
}
