package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lakeview/cottage-admin-console/internal/models"
)

// ValidationError is a pre-submit form error. Nothing is sent to the remote
// API while a form fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var draftMessages = map[string]string{
	"cottageId":     "Please select a cottage",
	"guestName":     "Full name is required",
	"email":         "Email is required",
	"contactNumber": "Phone number is required",
	"address":       "Address is required",
	"checkIn":       "Check-in date is required",
	"checkOut":      "Check-out date is required",
}

const adminFormMessage = "Name, email, and password are required"

// FormValidator validates the reservation and account forms
type FormValidator struct {
	validate *validator.Validate
	contact  *ContactValidator
}

// NewFormValidator creates a validator that reports json field names
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FormValidator{validate: v, contact: NewContactValidator()}
}

// ValidateDraft checks a reservation draft in form order and trims its
// contact number on success
func (fv *FormValidator) ValidateDraft(d *models.ReservationDraft) error {
	if err := fv.firstFieldError(d, draftMessages); err != nil {
		return err
	}

	contact, err := fv.contact.Validate(d.ContactNumber)
	if err != nil {
		return &ValidationError{Field: "contactNumber", Message: err.Error()}
	}

	if d.NumberOfGuests < 1 {
		return &ValidationError{Field: "numberOfGuest", Message: "Number of guests must be at least 1"}
	}

	checkIn, err := time.Parse(models.DateLayout, d.CheckIn)
	if err != nil {
		return &ValidationError{Field: "checkIn", Message: "Check-in date must be YYYY-MM-DD"}
	}
	checkOut, err := time.Parse(models.DateLayout, d.CheckOut)
	if err != nil {
		return &ValidationError{Field: "checkOut", Message: "Check-out date must be YYYY-MM-DD"}
	}
	if !checkOut.After(checkIn) {
		return &ValidationError{Field: "checkOut", Message: "Check-out must be after check-in"}
	}

	d.ContactNumber = contact
	return nil
}

// ValidateAdminForm checks the account manager form. Name, email and password
// are required for both create and update.
func (fv *FormValidator) ValidateAdminForm(f *models.AdminForm) error {
	if f.Role == "" {
		f.Role = models.AdminRoleAdmin
	}
	err := fv.validate.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate admin form: %w", err)
	}
	fe := fieldErrs[0]
	if fe.Tag() == "oneof" {
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("Role must be one of: %s", fe.Param())}
	}
	return &ValidationError{Field: fe.Field(), Message: adminFormMessage}
}

func (fv *FormValidator) firstFieldError(s interface{}, messages map[string]string) error {
	err := fv.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
