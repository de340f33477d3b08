package services

import (
	"context"
	"sync"
	"time"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Partition is a snapshot of the reservations held for one status
type Partition struct {
	Status       models.ReservationStatus `json:"status"`
	Reservations []models.Reservation     `json:"reservations"`
	Loading      bool                     `json:"loading"`
	Loaded       bool                     `json:"loaded"`
	Error        string                   `json:"error,omitempty"`
	LoadedAt     *time.Time               `json:"loaded_at,omitempty"`
}

type partitionState struct {
	mu           sync.Mutex
	reservations []models.Reservation
	loaded       bool
	loadedAt     time.Time
	err          error
	seq          uint64 // latest fetch issued
	pending      int
}

// LifecycleStore holds the four status partitions of one workspace and
// drives reservation transitions against the remote API
type LifecycleStore struct {
	api        ReservationAPI
	validator  *validator.FormValidator
	audit      AuditRecorder
	actor      Actor
	logger     *logrus.Logger
	partitions map[models.ReservationStatus]*partitionState
}

// NewLifecycleStore creates an empty store
func NewLifecycleStore(api ReservationAPI, audit AuditRecorder, actor Actor, logger *logrus.Logger) *LifecycleStore {
	if audit == nil {
		audit = NoopAuditRecorder{}
	}
	partitions := make(map[models.ReservationStatus]*partitionState, len(models.AllReservationStatuses))
	for _, status := range models.AllReservationStatuses {
		partitions[status] = &partitionState{}
	}
	return &LifecycleStore{
		api:        api,
		validator:  validator.NewFormValidator(),
		audit:      audit,
		actor:      actor,
		logger:     logger,
		partitions: partitions,
	}
}

// FetchPartition reloads one partition from the server. On failure the
// previous list is kept and the error is stored on the partition. A response
// that arrives after a newer fetch was issued is discarded.
func (s *LifecycleStore) FetchPartition(ctx context.Context, status models.ReservationStatus) (Partition, error) {
	p, ok := s.partitions[status]
	if !ok {
		return Partition{}, models.ErrUnknownStatus
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.pending++
	p.mu.Unlock()

	list, err := s.api.ListReservations(ctx, status)

	p.mu.Lock()
	p.pending--
	if seq != p.seq {
		p.mu.Unlock()
		s.logger.WithFields(logrus.Fields{
			"status": status,
			"seq":    seq,
		}).Debug("Discarding stale partition response")
		return s.Snapshot(status), nil
	}
	if err != nil {
		p.err = err
		p.mu.Unlock()
		s.logger.WithFields(logrus.Fields{
			"status": status,
			"error":  err.Error(),
		}).Warn("Failed to fetch reservation partition")
		return s.Snapshot(status), err
	}
	p.reservations = list
	p.loaded = true
	p.loadedAt = time.Now()
	p.err = nil
	p.mu.Unlock()

	return s.Snapshot(status), nil
}

// Snapshot returns a copy of the held partition
func (s *LifecycleStore) Snapshot(status models.ReservationStatus) Partition {
	p, ok := s.partitions[status]
	if !ok {
		return Partition{Status: status}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := Partition{
		Status:       status,
		Reservations: append([]models.Reservation(nil), p.reservations...),
		Loading:      p.pending > 0,
		Loaded:       p.loaded,
	}
	if out.Reservations == nil {
		out.Reservations = []models.Reservation{}
	}
	if p.err != nil {
		out.Error = errorMessage(p.err)
	}
	if p.loaded {
		at := p.loadedAt
		out.LoadedAt = &at
	}
	return out
}

// Locate returns the status of the partition currently holding id
func (s *LifecycleStore) Locate(id string) (models.ReservationStatus, bool) {
	for _, status := range models.AllReservationStatuses {
		p := s.partitions[status]
		p.mu.Lock()
		for i := range p.reservations {
			if p.reservations[i].ID == id {
				p.mu.Unlock()
				return status, true
			}
		}
		p.mu.Unlock()
	}
	return "", false
}

// Confirm moves a pending reservation to confirmed
func (s *LifecycleStore) Confirm(ctx context.Context, id string) (string, error) {
	return s.Transition(ctx, models.ActionConfirm, id)
}

// Cancel moves a pending reservation to cancelled
func (s *LifecycleStore) Cancel(ctx context.Context, id string) (string, error) {
	return s.Transition(ctx, models.ActionCancel, id)
}

// Complete moves a confirmed reservation to completed
func (s *LifecycleStore) Complete(ctx context.Context, id string) (string, error) {
	return s.Transition(ctx, models.ActionComplete, id)
}

// Transition applies action to the reservation with id. The reservation must
// be held in the action's origin partition; otherwise nothing is sent. After
// the server accepts the change the origin partition is fetched again, and
// no partition is edited locally.
func (s *LifecycleStore) Transition(ctx context.Context, action models.ReservationAction, id string) (string, error) {
	origin := models.OriginStatus(action)
	if origin == "" {
		return "", &models.InvalidTransitionError{ReservationID: id, Action: action}
	}

	current, _ := s.Locate(id)
	if current != origin {
		return "", &models.InvalidTransitionError{ReservationID: id, Action: action, From: current}
	}

	message, err := s.api.TransitionReservation(ctx, action, id)
	s.audit.Record(ctx, s.actor, AuditEvent{
		Action:     "reservation_" + string(action),
		EntityType: "reservation",
		EntityID:   id,
		Success:    err == nil,
		Details:    resultDetails(message, err),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action":         action,
			"reservation_id": id,
			"error":          err.Error(),
		}).Warn("Reservation transition rejected")
		return "", err
	}

	if _, err := s.FetchPartition(ctx, origin); err != nil {
		s.logger.WithFields(logrus.Fields{
			"status": origin,
			"error":  err.Error(),
		}).Warn("Re-fetch after transition failed")
	}

	return message, nil
}

// Create validates a draft and submits it. Invalid drafts never reach the
// network. No partition is changed; callers refresh the list they show.
func (s *LifecycleStore) Create(ctx context.Context, draft models.ReservationDraft) (string, error) {
	if draft.CottageName == "" || draft.CottagePrice == 0 {
		if c, ok := models.FindCottage(draft.CottageID); ok {
			draft.CottageName, draft.CottagePrice = c.Label, c.Price
		}
	}
	if err := s.validator.ValidateDraft(&draft); err != nil {
		return "", err
	}

	message, err := s.api.CreateReservation(ctx, draft)
	s.audit.Record(ctx, s.actor, AuditEvent{
		Action:     "reservation_create",
		EntityType: "reservation",
		Success:    err == nil,
		Details: mergeDetails(resultDetails(message, err), map[string]interface{}{
			"guest_name": draft.GuestName,
			"cottage_id": draft.CottageID,
			"check_in":   draft.CheckIn,
			"check_out":  draft.CheckOut,
		}),
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func resultDetails(message string, err error) map[string]interface{} {
	if err != nil {
		return map[string]interface{}{"error": errorMessage(err)}
	}
	return map[string]interface{}{"message": message}
}

func mergeDetails(a, b map[string]interface{}) map[string]interface{} {
	for k, v := range b {
		a[k] = v
	}
	return a
}
