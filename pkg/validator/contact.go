package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyContact indicates the contact number is empty
	ErrEmptyContact = errors.New("Phone number is required")

	// ErrInvalidContactFormat indicates the contact number contains anything but digits
	ErrInvalidContactFormat = errors.New("Phone number can only contain digits")

	// ErrInvalidContactLength indicates the contact number is not 11 digits
	ErrInvalidContactLength = errors.New("Phone number must be 11 digits")
)

// ContactNumberLength is the required number of digits
const ContactNumberLength = 11

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ContactValidator validates guest contact numbers
type ContactValidator struct{}

// NewContactValidator creates a new contact number validator
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// Validate checks that a contact number is exactly 11 digits and returns it
// trimmed. Separators such as spaces or dashes are rejected.
func (v *ContactValidator) Validate(number string) (string, error) {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return "", ErrEmptyContact
	}

	if !digitsOnly.MatchString(trimmed) {
		return "", ErrInvalidContactFormat
	}
	if len(trimmed) != ContactNumberLength {
		return "", ErrInvalidContactLength
	}
	return trimmed, nil
}

// IsValid is a convenience method that returns true if number is valid
func (v *ContactValidator) IsValid(number string) bool {
	_, err := v.Validate(number)
	return err == nil
}
