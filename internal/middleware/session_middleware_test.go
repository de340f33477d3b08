package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/pkg/jwt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

const testCookie = "console_session"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTestJWTService() *jwt.Service {
	return jwt.NewService("test-session-secret-key-123456789", time.Hour)
}

func setupSession(t *testing.T, role models.AdminRole) (*jwt.Service, *services.SessionRegistry, *services.Workspace, string) {
	jwtService := setupTestJWTService()
	registry := services.NewSessionRegistry()
	ws := services.NewWorkspace(uuid.New(), nil, models.AdminAccount{ID: "a1", Email: "desk@example.com", Role: role}, services.WorkspaceDeps{Logger: quietLogger()})
	registry.Put(ws)

	token, err := jwtService.GenerateSessionToken(ws.ID, "a1", "desk@example.com", string(role))
	require.NoError(t, err)
	return jwtService, registry, ws, token
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestConsoleSession_Success(t *testing.T) {
	jwtService, registry, ws, token := setupSession(t, models.AdminRoleAdmin)
	router := setupTestRouter()

	router.GET("/protected", ConsoleSession(jwtService, registry, testCookie, quietLogger()), func(c *gin.Context) {
		got := MustGetWorkspace(c)
		c.JSON(http.StatusOK, gin.H{"session_id": got.ID.String()})
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ws.ID.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestConsoleSession_Rejections(t *testing.T) {
	jwtService, registry, ws, token := setupSession(t, models.AdminRoleAdmin)
	expired, err := jwt.NewService("test-session-secret-key-123456789", -time.Minute).
		GenerateSessionToken(ws.ID, "a1", "desk@example.com", "admin")
	require.NoError(t, err)
	foreign, err := jwt.NewService("another-secret-key-000000000000", time.Hour).
		GenerateSessionToken(ws.ID, "a1", "desk@example.com", "admin")
	require.NoError(t, err)
	orphan, err := jwtService.GenerateSessionToken(uuid.New(), "a1", "desk@example.com", "admin")
	require.NoError(t, err)

	router := setupTestRouter()
	router.GET("/protected", ConsoleSession(jwtService, registry, testCookie, quietLogger()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"missing", "", "MISSING_SESSION"},
		{"expired", expired, "TOKEN_EXPIRED"},
		{"wrong signature", foreign, "INVALID_TOKEN"},
		{"garbage", "not.a.token", "INVALID_TOKEN"},
		{"unknown workspace", orphan, "SESSION_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: testCookie, Value: tt.token})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}

	t.Run("valid token still works", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRestrictedNav(t *testing.T) {
	tests := []struct {
		role models.AdminRole
		want int
	}{
		{models.AdminRoleAdmin, http.StatusForbidden},
		{models.AdminRoleSuperAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			jwtService, registry, _, token := setupSession(t, tt.role)
			router := setupTestRouter()
			router.GET("/admins",
				ConsoleSession(jwtService, registry, testCookie, quietLogger()),
				RequireRestrictedNav(),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/admins", nil)
			req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("without session middleware", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/admins", RequireRestrictedNav(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admins", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	router := setupTestRouter()
	router.Use(RequestLogger(quietLogger()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})
}

func TestLoginRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{LoginRequests: 2, LoginWindowSeconds: 60}
	router := setupTestRouter()
	router.POST("/login", LoginRateLimiter(memory.NewStore(), cfg, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "198.51.100.4:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLoginRateLimiter_KeysOnForwardedClient(t *testing.T) {
	cfg := config.RateLimitConfig{LoginRequests: 1, LoginWindowSeconds: 60}
	router := setupTestRouter()
	router.POST("/login", LoginRateLimiter(memory.NewStore(), cfg, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.2:5000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// same private hop in front, different public clients behind it
	assert.Equal(t, http.StatusOK, login("192.168.1.5, 203.0.113.7"))
	assert.Equal(t, http.StatusOK, login("192.168.1.5, 198.51.100.9"))
	assert.Equal(t, http.StatusTooManyRequests, login("192.168.1.5, 203.0.113.7"))
}
