package adminapi

import (
	"errors"
	"fmt"
)

// Operation names one remote API call. It is used for logging, error
// reporting and the fallback message shown when the server sends none.
type Operation string

const (
	OpLogin             Operation = "login"
	OpLogout            Operation = "logout"
	OpCheckAuth         Operation = "check_auth"
	OpListAdmins        Operation = "list_admins"
	OpRegisterAdmin     Operation = "register_admin"
	OpUpdateAdmin       Operation = "update_admin"
	OpActivityLogs      Operation = "activity_logs"
	OpCreateReservation Operation = "create_reservation"
)

var fallbackMessages = map[Operation]string{
	OpLogin:             "Error logging in",
	OpLogout:            "Error logging out",
	OpCheckAuth:         "Error checking authentication",
	OpListAdmins:        "Error fetching admins",
	OpRegisterAdmin:     "Error signing up",
	OpUpdateAdmin:       "Error updating admin",
	OpActivityLogs:      "Error fetching activity logs",
	OpCreateReservation: "Error creating reservation",

	"confirm_reservation":  "Error confirming reservation",
	"cancel_reservation":   "Error canceling reservation",
	"complete_reservation": "Error completing reservation",

	"list_pending_reservations":   "Failed to fetch pending reservations",
	"list_confirmed_reservations": "Failed to fetch confirmed reservations",
	"list_cancelled_reservations": "Failed to fetch cancelled reservations",
	"list_completed_reservations": "Failed to fetch completed reservations",

	"metric_totalCustomers":    "Error fetching total customers",
	"metric_repeatedGuests":    "Error fetching repeated guests",
	"metric_totalReservations": "Error fetching total reservations",
	"metric_totalRevenue":      "Error fetching total revenue",

	"report_pending":   "Error fetching pending report",
	"report_confirmed": "Error fetching confirmed report",
	"report_cancelled": "Error fetching cancelled report",
	"report_completed": "Error fetching completed report",
}

// FallbackMessage returns the generic message for op
func FallbackMessage(op Operation) string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

// RemoteError is a non-2xx answer from the remote API
type RemoteError struct {
	Op      Operation
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// SchemaError reports a 2xx response whose body lacks an expected field
type SchemaError struct {
	Op    Operation
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response field %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: response is missing field %q", e.Op, e.Field)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// AsRemoteError unwraps a RemoteError from err
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsUnauthorized reports whether the remote API rejected the session
func IsUnauthorized(err error) bool {
	re, ok := AsRemoteError(err)
	return ok && (re.Status == 401 || re.Status == 403)
}
