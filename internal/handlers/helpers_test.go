package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// remoteStub is a fake reservation API counting the calls it receives
type remoteStub struct {
	mux *http.ServeMux
	srv *httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

func newRemoteStub(t *testing.T) *remoteStub {
	t.Helper()
	stub := &remoteStub{mux: http.NewServeMux(), calls: map[string]int{}}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.calls[r.Method+" "+r.URL.Path]++
		stub.mu.Unlock()
		stub.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *remoteStub) handle(pattern string, status int, body interface{}) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (s *remoteStub) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *remoteStub) client(t *testing.T) *adminapi.Client {
	t.Helper()
	client, err := adminapi.New(adminapi.Config{BaseURL: s.srv.URL + "/api", Timeout: 5 * time.Second, Logger: quietLogger()})
	require.NoError(t, err)
	return client
}

func (s *remoteStub) workspace(t *testing.T, role models.AdminRole) *services.Workspace {
	t.Helper()
	admin := models.AdminAccount{ID: "a1", Name: "Front Desk", Email: "desk@example.com", Role: role}
	return services.NewWorkspace(uuid.New(), s.client(t), admin, services.WorkspaceDeps{Logger: quietLogger(), PageSize: 5})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setupWorkspaceContext creates a Gin context as ConsoleSession leaves it
func setupWorkspaceContext(ws *services.Workspace, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if ws != nil {
		c.Set(middleware.WorkspaceContextKey, ws)
	}
	return c, w
}

func pendingRows(n int) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, map[string]interface{}{
			"_id":           "r" + string(rune('a'+i-1)),
			"guestName":     "Guest " + string(rune('A'+i-1)),
			"cottageName":   "Kubo Cottage",
			"checkIn":       "2025-03-04",
			"checkOut":      "2025-03-06",
			"numberOfGuest": 2,
			"status":        "pending",
		})
	}
	return rows
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
