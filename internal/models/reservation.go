package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// AllReservationStatuses lists every partition in display order
var AllReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
}

// ErrUnknownStatus is returned when a status string is not one of the four partitions
var ErrUnknownStatus = errors.New("unknown reservation status")

// ParseReservationStatus validates a status coming from a URL or payload
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllReservationStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ReservationAction is a staff action that moves a reservation between partitions
type ReservationAction string

const (
	ActionConfirm  ReservationAction = "confirm"
	ActionCancel   ReservationAction = "cancel"
	ActionComplete ReservationAction = "complete"
)

// ParseReservationAction validates an action name
func ParseReservationAction(s string) (ReservationAction, error) {
	switch ReservationAction(s) {
	case ActionConfirm, ActionCancel, ActionComplete:
		return ReservationAction(s), nil
	}
	return "", fmt.Errorf("unknown reservation action %q", s)
}

type transition struct {
	from ReservationStatus
	to   ReservationStatus
}

var transitions = map[ReservationAction]transition{
	ActionConfirm:  {from: ReservationStatusPending, to: ReservationStatusConfirmed},
	ActionCancel:   {from: ReservationStatusPending, to: ReservationStatusCancelled},
	ActionComplete: {from: ReservationStatusConfirmed, to: ReservationStatusCompleted},
}

// ErrInvalidTransition is matched by every InvalidTransitionError
var ErrInvalidTransition = errors.New("invalid reservation transition")

// InvalidTransitionError reports an action attempted from the wrong status
type InvalidTransitionError struct {
	ReservationID string
	Action        ReservationAction
	From          ReservationStatus // empty when the reservation is not loaded
}

func (e *InvalidTransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "unknown"
	}
	return fmt.Sprintf("cannot %s reservation %s from status %s", e.Action, e.ReservationID, from)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NextStatus returns the status reached by applying action to from
func NextStatus(from ReservationStatus, action ReservationAction) (ReservationStatus, error) {
	t, ok := transitions[action]
	if !ok || t.from != from {
		return "", &InvalidTransitionError{Action: action, From: from}
	}
	return t.to, nil
}

// OriginStatus returns the partition a reservation must be in for action to apply
func OriginStatus(action ReservationAction) ReservationStatus {
	return transitions[action].from
}

// IsTerminal reports whether no further staff action is possible
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// AvailableActions lists the actions the UI may offer for a status
func (s ReservationStatus) AvailableActions() []ReservationAction {
	switch s {
	case ReservationStatusPending:
		return []ReservationAction{ActionConfirm, ActionCancel}
	case ReservationStatusConfirmed:
		return []ReservationAction{ActionComplete}
	default:
		return nil
	}
}

// Reservation represents one cottage booking as held by the remote system of record
type Reservation struct {
	ID             string            `json:"_id"`
	GuestName      string            `json:"guestName"`
	Email          string            `json:"email"`
	ContactNumber  string            `json:"contactNumber"`
	Address        string            `json:"address"`
	CottageID      string            `json:"cottageId"`
	CottageName    string            `json:"cottageName"`
	CottagePrice   float64           `json:"cottagePrice"`
	NumberOfGuests int               `json:"numberOfGuest"`
	CheckIn        Date              `json:"checkIn"`
	CheckOut       Date              `json:"checkOut"`
	TotalAmount    float64           `json:"totalAmount"`
	Payment        string            `json:"payment,omitempty"`
	ProofOfPayment *string           `json:"proofOfPayment,omitempty"`
	Status         ReservationStatus `json:"status"`
	CreatedAt      *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time        `json:"updatedAt,omitempty"`
}

// displayDate mirrors the "Tue Mar 04 2025" style used by the dashboard tables
const displayDate = "Mon Jan 02 2006"

// SearchableText returns the values matched by the partition search box
func (r *Reservation) SearchableText() []string {
	values := []string{
		r.GuestName,
		r.CottageName,
		r.Email,
		r.ContactNumber,
		r.Address,
	}
	if !r.CheckIn.IsZero() {
		values = append(values, r.CheckIn.Format(displayDate))
	}
	if !r.CheckOut.IsZero() {
		values = append(values, r.CheckOut.Format(displayDate))
	}
	return values
}

// Nights returns the number of nights between check-in and check-out
func (r *Reservation) Nights() int {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn.Time).Hours() / 24)
}
