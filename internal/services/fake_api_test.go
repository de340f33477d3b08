package services

import (
	"context"
	"io"
	"sync"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeAPI is an in-memory stand-in for the remote reservation API
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	partitions map[models.ReservationStatus][]models.Reservation
	listErr    map[models.ReservationStatus]error
	listHook   func(status models.ReservationStatus)

	transitionErr error
	createErr     error
	lastDraft     *models.ReservationDraft

	metrics    map[models.MetricKind]*adminapi.SeriesPayload
	metricErr  map[models.MetricKind]error
	metricHook func(kind models.MetricKind)
	reports    map[models.ReservationStatus]*adminapi.ReportPayload

	admin      *models.AdminAccount
	loginErr   error
	logoutErr  error
	checkErr   error
	admins     []models.AdminAccount
	saveErr    error
	lastUpdate string
	activity   []models.ActivityLogGroup
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:      map[string]int{},
		partitions: map[models.ReservationStatus][]models.Reservation{},
		listErr:    map[models.ReservationStatus]error{},
		metrics:    map[models.MetricKind]*adminapi.SeriesPayload{},
		metricErr:  map[models.MetricKind]error{},
		reports:    map[models.ReservationStatus]*adminapi.ReportPayload{},
	}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListReservations(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	f.count("list_" + string(status))
	if f.listHook != nil {
		f.listHook(status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[status]; err != nil {
		return nil, err
	}
	return append([]models.Reservation(nil), f.partitions[status]...), nil
}

func (f *fakeAPI) TransitionReservation(ctx context.Context, action models.ReservationAction, id string) (string, error) {
	f.count("transition")
	if f.transitionErr != nil {
		return "", f.transitionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	from := models.OriginStatus(action)
	to, _ := models.NextStatus(from, action)
	kept := f.partitions[from][:0:0]
	for _, r := range f.partitions[from] {
		if r.ID == id {
			r.Status = to
			f.partitions[to] = append(f.partitions[to], r)
			continue
		}
		kept = append(kept, r)
	}
	f.partitions[from] = kept
	return "", nil
}

func (f *fakeAPI) CreateReservation(ctx context.Context, draft models.ReservationDraft) (string, error) {
	f.count("create")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.lastDraft = &draft
	return "Reservation created successfully", nil
}

func (f *fakeAPI) Metric(ctx context.Context, kind models.MetricKind, filter models.Filter) (*adminapi.SeriesPayload, error) {
	f.count("metric_" + string(kind))
	if f.metricHook != nil {
		f.metricHook(kind)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.metricErr[kind]; err != nil {
		return nil, err
	}
	return f.metrics[kind], nil
}

func (f *fakeAPI) StatusReport(ctx context.Context, status models.ReservationStatus, filter models.Filter) (*adminapi.ReportPayload, error) {
	f.count("report_" + string(status))
	return f.reports[status], nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.AdminAccount, error) {
	f.count("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.admin, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.count("logout")
	return f.logoutErr
}

func (f *fakeAPI) CheckAuth(ctx context.Context) (*models.AdminAccount, error) {
	f.count("check_auth")
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.admin, nil
}

func (f *fakeAPI) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	f.count("list_admins")
	return f.admins, nil
}

func (f *fakeAPI) RegisterAdmin(ctx context.Context, form models.AdminForm) (*models.AdminAccount, error) {
	f.count("register_admin")
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	created := models.AdminAccount{ID: "new", Name: form.Name, Email: form.Email, Role: form.Role}
	f.admins = append(f.admins, created)
	return &created, nil
}

func (f *fakeAPI) UpdateAdmin(ctx context.Context, id string, form models.AdminForm) error {
	f.count("update_admin")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.lastUpdate = id
	for i := range f.admins {
		if f.admins[i].ID == id {
			f.admins[i].Name = form.Name
		}
	}
	return nil
}

func (f *fakeAPI) ActivityLogs(ctx context.Context) ([]models.ActivityLogGroup, error) {
	f.count("activity_logs")
	return f.activity, nil
}

// recordingAudit collects recorded events
type recordingAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (r *recordingAudit) Record(ctx context.Context, actor Actor, event AuditEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}
