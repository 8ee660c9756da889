package domain

import (
	"regexp"
	"strings"
)

// ValidationErrors maps a draft field to a human-readable message. An empty
// map means the draft is submittable.
type ValidationErrors map[string]string

// Loose phone format: optional leading +, then at least 10 digits, spaces,
// hyphens or parentheses.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)

// Validate checks every rule on every call; errors are returned as data,
// never raised. The result replaces any previous error set wholesale.
func Validate(draft DraftOrder) ValidationErrors {
	errs := make(ValidationErrors)

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		errs["name"] = "Name is required"
	} else if len(name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}

	address := strings.TrimSpace(draft.Address)
	if address == "" {
		errs["address"] = "Address is required"
	} else if len(address) < 10 {
		errs["address"] = "Please enter a complete address"
	}

	if strings.TrimSpace(draft.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(draft.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}

	return errs
}
