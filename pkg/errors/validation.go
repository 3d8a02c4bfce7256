package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxSetNameLength bounds the length of a set name.
const MaxSetNameLength = 128

// ValidateSetName validates a single set name.
//
// Set names become parts of region keys, so they must not contain the key
// separator (a comma). Control characters are rejected because names end up
// in SVG text and log lines.
func ValidateSetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidRecords, "set name cannot be empty")
	}
	if len(name) > MaxSetNameLength {
		return New(ErrCodeInvalidRecords, "set name too long (max %d characters)", MaxSetNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecords, "set name %q contains control characters", name)
		}
	}
	if strings.Contains(name, ",") {
		return New(ErrCodeInvalidRecords, "set name %q cannot contain a comma", name)
	}
	return nil
}

// ValidateMemberships validates every set name of one record.
// An empty list is valid: such records are simply left out of the layout.
func ValidateMemberships(sets []string) error {
	for _, s := range sets {
		if err := ValidateSetName(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayoutID validates a stored layout identifier (a UUID).
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if err := uuid.Validate(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid layout id %q", id)
	}
	return nil
}
