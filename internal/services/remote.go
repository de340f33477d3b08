package services

import (
	"context"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
)

// ReservationAPI is the part of the remote API the lifecycle store uses
type ReservationAPI interface {
	ListReservations(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error)
	TransitionReservation(ctx context.Context, action models.ReservationAction, reservationID string) (string, error)
	CreateReservation(ctx context.Context, draft models.ReservationDraft) (string, error)
}

// ReportingAPI is the part of the remote API the reporting store uses
type ReportingAPI interface {
	Metric(ctx context.Context, kind models.MetricKind, filter models.Filter) (*adminapi.SeriesPayload, error)
	StatusReport(ctx context.Context, status models.ReservationStatus, filter models.Filter) (*adminapi.ReportPayload, error)
}

// AccountAPI covers session, admin account and activity log calls
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (*models.AdminAccount, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (*models.AdminAccount, error)
	ListAdmins(ctx context.Context) ([]models.AdminAccount, error)
	RegisterAdmin(ctx context.Context, form models.AdminForm) (*models.AdminAccount, error)
	UpdateAdmin(ctx context.Context, adminID string, form models.AdminForm) error
	ActivityLogs(ctx context.Context) ([]models.ActivityLogGroup, error)
}

// RemoteAPI is everything one staff session needs from the reservation system
type RemoteAPI interface {
	ReservationAPI
	ReportingAPI
	AccountAPI
}

var _ RemoteAPI = (*adminapi.Client)(nil)

// ClientFactory creates a remote API client with a fresh cookie jar
type ClientFactory func() (RemoteAPI, error)
