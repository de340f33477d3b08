package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/validator"
	"github.com/sirupsen/logrus"
)

// AccountStore backs the account manager. The list is always re-read from
// the server after a save; nothing is merged locally.
type AccountStore struct {
	api       AccountAPI
	validator *validator.FormValidator
	audit     AuditRecorder
	actor     Actor
	logger    *logrus.Logger

	mu       sync.Mutex
	admins   []models.AdminAccount
	err      error
	loadedAt time.Time
}

// AccountList is the held list of admin accounts
type AccountList struct {
	Admins   []models.AdminAccount `json:"admins"`
	Error    string                `json:"error,omitempty"`
	LoadedAt *time.Time            `json:"loaded_at,omitempty"`
}

// NewAccountStore creates an empty store
func NewAccountStore(api AccountAPI, audit AuditRecorder, actor Actor, logger *logrus.Logger) *AccountStore {
	if audit == nil {
		audit = NoopAuditRecorder{}
	}
	return &AccountStore{
		api:       api,
		validator: validator.NewFormValidator(),
		audit:     audit,
		actor:     actor,
		logger:    logger,
	}
}

// Refresh reloads the admin list
func (s *AccountStore) Refresh(ctx context.Context) (AccountList, error) {
	admins, err := s.api.ListAdmins(ctx)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.admins = admins
		s.err = nil
		s.loadedAt = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to fetch admin accounts")
	}
	return s.List(), err
}

// List returns the held admin list
func (s *AccountStore) List() AccountList {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := AccountList{Admins: append([]models.AdminAccount(nil), s.admins...), Error: errorMessage(s.err)}
	if out.Admins == nil {
		out.Admins = []models.AdminAccount{}
	}
	if !s.loadedAt.IsZero() {
		at := s.loadedAt
		out.LoadedAt = &at
	}
	return out
}

// Save creates an account when selectedID is empty and updates it otherwise.
// The list is re-fetched after a successful save.
func (s *AccountStore) Save(ctx context.Context, selectedID string, form models.AdminForm) (AccountList, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validator.ValidateAdminForm(&form); err != nil {
		return s.List(), err
	}

	action := "admin_create"
	var err error
	if selectedID == "" {
		_, err = s.api.RegisterAdmin(ctx, form)
	} else {
		action = "admin_update"
		err = s.api.UpdateAdmin(ctx, selectedID, form)
	}

	s.audit.Record(ctx, s.actor, AuditEvent{
		Action:     action,
		EntityType: "admin",
		EntityID:   selectedID,
		Success:    err == nil,
		Details: mergeDetails(resultDetails("", err), map[string]interface{}{
			"email": form.Email,
			"role":  string(form.Role),
		}),
	})
	if err != nil {
		return s.List(), err
	}

	list, refreshErr := s.Refresh(ctx)
	if refreshErr != nil {
		s.logger.WithFields(logrus.Fields{"error": refreshErr.Error()}).Warn("Re-fetch after admin save failed")
	}
	return list, nil
}

// ActivityLogStore holds the remote activity log
type ActivityLogStore struct {
	api    AccountAPI
	logger *logrus.Logger

	mu       sync.Mutex
	groups   []models.ActivityLogGroup
	err      error
	loadedAt time.Time
}

// ActivityLogView is the activity log as visible to one viewer
type ActivityLogView struct {
	Groups   []models.ActivityLogGroup `json:"groups"`
	Error    string                    `json:"error,omitempty"`
	LoadedAt *time.Time                `json:"loaded_at,omitempty"`
}

// NewActivityLogStore creates an empty store
func NewActivityLogStore(api AccountAPI, logger *logrus.Logger) *ActivityLogStore {
	return &ActivityLogStore{api: api, logger: logger}
}

// Fetch reloads the activity log; the previous log is kept on failure
func (s *ActivityLogStore) Fetch(ctx context.Context) error {
	groups, err := s.api.ActivityLogs(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to fetch activity logs")
		return err
	}
	s.groups = groups
	s.err = nil
	s.loadedAt = time.Now()
	return nil
}

// Visible returns the groups viewer may see. Superadmins see every row,
// everyone else sees the rows of non-superadmin accounts.
func (s *ActivityLogStore) Visible(viewer models.AdminRole) ActivityLogView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ActivityLogView{
		Groups: models.VisibleActivity(s.groups, viewer),
		Error:  errorMessage(s.err),
	}
	if !s.loadedAt.IsZero() {
		at := s.loadedAt
		out.LoadedAt = &at
	}
	return out
}
