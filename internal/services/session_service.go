package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/lakeview/cottage-admin-console/pkg/validator"
	"github.com/sirupsen/logrus"
)

// WorkspaceDeps are the shared collaborators every workspace is built with
type WorkspaceDeps struct {
	Audit    AuditRecorder
	Logger   *logrus.Logger
	PageSize int
}

// Workspace is the state of one logged-in staff session: its remote API
// client and one store per concern. Workspaces share nothing with each other.
type Workspace struct {
	ID        uuid.UUID
	CreatedAt time.Time

	Lifecycle *LifecycleStore
	Reporting *ReportingStore
	Filters   *FilterStore
	Accounts  *AccountStore
	Activity  *ActivityLogStore

	api      RemoteAPI
	pageSize int

	mu       sync.Mutex
	admin    models.AdminAccount
	views    map[models.ReservationStatus]PartitionView
	lastSeen time.Time
}

// NewWorkspace wires the stores of one session around api
func NewWorkspace(id uuid.UUID, api RemoteAPI, admin models.AdminAccount, deps WorkspaceDeps) *Workspace {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	audit := deps.Audit
	if audit == nil {
		audit = NoopAuditRecorder{}
	}
	pageSize := deps.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	actor := Actor{SessionID: id.String(), AdminID: admin.ID, Email: admin.Email, Role: admin.Role}

	now := time.Now()
	return &Workspace{
		ID:        id,
		CreatedAt: now,
		Lifecycle: NewLifecycleStore(api, audit, actor, logger),
		Reporting: NewReportingStore(api, logger),
		Filters:   NewFilterStore(),
		Accounts:  NewAccountStore(api, audit, actor, logger),
		Activity:  NewActivityLogStore(api, logger),
		api:       api,
		pageSize:  pageSize,
		admin:     admin,
		views:     make(map[models.ReservationStatus]PartitionView),
		lastSeen:  now,
	}
}

// Admin returns the account the session belongs to
func (w *Workspace) Admin() models.AdminAccount {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.admin
}

// Actor identifies the session in the audit trail
func (w *Workspace) Actor() Actor {
	admin := w.Admin()
	return Actor{SessionID: w.ID.String(), AdminID: admin.ID, Email: admin.Email, Role: admin.Role}
}

// View returns the search and page state of one partition table
func (w *Workspace) View(status models.ReservationStatus) PartitionView {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.views[status]; ok {
		return v
	}
	return NewPartitionView(w.pageSize)
}

// UpdateView applies fn to the view of status and stores the result
func (w *Workspace) UpdateView(status models.ReservationStatus, fn func(v *PartitionView)) PartitionView {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.views[status]
	if !ok {
		v = NewPartitionView(w.pageSize)
	}
	fn(&v)
	w.views[status] = v
	return v
}

// Touch marks the workspace as used now
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

// LastSeen returns the last time the workspace was used
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) setAdmin(admin models.AdminAccount) {
	w.mu.Lock()
	w.admin = admin
	w.mu.Unlock()
}

// SessionRegistry maps console session ids to workspaces
type SessionRegistry struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*Workspace
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{workspaces: make(map[uuid.UUID]*Workspace)}
}

// Put registers ws under its id
func (r *SessionRegistry) Put(ws *Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces[ws.ID] = ws
}

// Get looks a workspace up and marks it used
func (r *SessionRegistry) Get(id uuid.UUID) (*Workspace, bool) {
	r.mu.RLock()
	ws, ok := r.workspaces[id]
	r.mu.RUnlock()
	if ok {
		ws.Touch()
	}
	return ws, ok
}

// Delete drops a workspace and all of its state
func (r *SessionRegistry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, id)
}

// PruneIdle drops workspaces unused for longer than maxIdle
func (r *SessionRegistry) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.workspaces {
		if ws.LastSeen().Before(cutoff) {
			delete(r.workspaces, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live workspaces
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// SessionService logs staff in and out of the remote API and owns the
// workspace lifecycle
type SessionService struct {
	newClient ClientFactory
	registry  *SessionRegistry
	deps      WorkspaceDeps
	logger    *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(newClient ClientFactory, registry *SessionRegistry, deps WorkspaceDeps) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if deps.Audit == nil {
		deps.Audit = NoopAuditRecorder{}
	}
	return &SessionService{
		newClient: newClient,
		registry:  registry,
		deps:      deps,
		logger:    logger,
	}
}

// Registry returns the workspace registry
func (s *SessionService) Registry() *SessionRegistry {
	return s.registry
}

// Login authenticates against the remote API with a fresh client and
// registers a new workspace for the session
func (s *SessionService) Login(ctx context.Context, email, password string) (*Workspace, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &validator.ValidationError{Field: "email", Message: "Email and password are required"}
	}

	client, err := s.newClient()
	if err != nil {
		return nil, err
	}

	admin, err := client.Login(ctx, email, password)
	if err != nil {
		s.deps.Audit.Record(ctx, Actor{Email: email}, AuditEvent{
			Action:     "login",
			EntityType: "session",
			Success:    false,
			Details:    resultDetails("", err),
		})
		s.logger.WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Warn("Console login failed")
		return nil, err
	}

	ws := NewWorkspace(uuid.New(), client, *admin, s.deps)
	s.registry.Put(ws)

	s.deps.Audit.Record(ctx, ws.Actor(), AuditEvent{Action: "login", EntityType: "session", EntityID: ws.ID.String(), Success: true})
	s.logger.WithFields(logrus.Fields{
		"session_id": ws.ID.String(),
		"admin_id":   admin.ID,
		"role":       admin.Role,
	}).Info("Console session started")

	return ws, nil
}

// Logout ends the remote session and drops the workspace even when the
// remote call fails
func (s *SessionService) Logout(ctx context.Context, ws *Workspace) error {
	err := ws.api.Logout(ctx)
	s.registry.Delete(ws.ID)

	s.deps.Audit.Record(ctx, ws.Actor(), AuditEvent{
		Action:     "logout",
		EntityType: "session",
		EntityID:   ws.ID.String(),
		Success:    err == nil,
		Details:    resultDetails("", err),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"session_id": ws.ID.String(),
			"error":      err.Error(),
		}).Warn("Remote logout failed")
	}
	return err
}

// CheckAuth asks the remote API whether the session is still valid. A
// rejected session is dropped from the registry.
func (s *SessionService) CheckAuth(ctx context.Context, ws *Workspace) (*models.AdminAccount, error) {
	user, err := ws.api.CheckAuth(ctx)
	if err != nil {
		if adminapi.IsUnauthorized(err) {
			s.registry.Delete(ws.ID)
		}
		return nil, err
	}

	// check-auth may omit fields login returned
	merged := ws.Admin()
	if user.ID != "" {
		merged.ID = user.ID
	}
	if user.Name != "" {
		merged.Name = user.Name
	}
	if user.Email != "" {
		merged.Email = user.Email
	}
	if user.Role != "" {
		merged.Role = user.Role
	}
	if user.LastLogin != nil {
		merged.LastLogin = user.LastLogin
	}
	ws.setAdmin(merged)
	return &merged, nil
}
