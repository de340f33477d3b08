package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/internal/utils"
	"github.com/lakeview/cottage-admin-console/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// WorkspaceContextKey is the key used to store the session workspace in Gin context
const WorkspaceContextKey = "workspace"

// SessionClaimsContextKey holds the validated console session claims
const SessionClaimsContextKey = "session_claims"

// ConsoleSession resolves the console session token to its workspace. The
// token is read from the session cookie, or from a Bearer header for API clients.
func ConsoleSession(jwtService *jwt.Service, registry *services.SessionRegistry, cookieName string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c, cookieName)
		if tokenString == "" {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Debug("Missing console session")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Please log in to continue",
				"code":    "MISSING_SESSION",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			if jwt.IsExpiredError(err) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Your session has expired. Please log in again.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				logger.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"ip":    c.ClientIP(),
					"error": err.Error(),
				}).Warn("Invalid console session token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid session token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		ws, ok := registry.Get(claims.SessionID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "session_not_found",
				"message": "Your session has ended. Please log in again.",
				"code":    "SESSION_NOT_FOUND",
			})
			c.Abort()
			return
		}

		c.Set(SessionClaimsContextKey, claims)
		c.Set(WorkspaceContextKey, ws)
		AttachRequestMeta(c)

		c.Next()
	}
}

// AttachRequestMeta puts the client address and user agent on the request
// context for the audit trail
func AttachRequestMeta(c *gin.Context) {
	ctx := services.WithRequestMeta(c.Request.Context(), services.RequestMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	})
	c.Request = c.Request.WithContext(ctx)
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireRestrictedNav gates the Activity Logs and Account Manager sections
// to roles other than plain admin
func RequireRestrictedNav() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, exists := GetWorkspace(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Session not found. Session middleware may not be applied.",
				"code":    "MISSING_SESSION",
			})
			c.Abort()
			return
		}

		if !ws.Admin().Role.CanSeeRestrictedNav() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You don't have permission to access this resource",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetWorkspace retrieves the session workspace from Gin context
func GetWorkspace(c *gin.Context) (*services.Workspace, bool) {
	value, exists := c.Get(WorkspaceContextKey)
	if !exists {
		return nil, false
	}

	ws, ok := value.(*services.Workspace)
	if !ok || ws == nil {
		return nil, false
	}

	return ws, true
}

// MustGetWorkspace retrieves the workspace or panics (use only after ConsoleSession)
func MustGetWorkspace(c *gin.Context) *services.Workspace {
	ws, exists := GetWorkspace(c)
	if !exists {
		panic("workspace not found - ensure ConsoleSession is applied")
	}
	return ws
}
