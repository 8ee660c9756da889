package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDraft() DraftOrder {
	return DraftOrder{
		Item:     "Pizza",
		Quantity: 2,
		Name:     "John Doe",
		Address:  "123 Main Street, Springfield",
		Phone:    "(555) 123-4567",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	errs := Validate(validDraft())
	assert.Empty(t, errs)
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DraftOrder)
		field   string
		message string
	}{
		{
			name:    "empty name",
			mutate:  func(d *DraftOrder) { d.Name = "" },
			field:   "name",
			message: "Name is required",
		},
		{
			name:    "whitespace-only name",
			mutate:  func(d *DraftOrder) { d.Name = "   " },
			field:   "name",
			message: "Name is required",
		},
		{
			name:    "one-character name",
			mutate:  func(d *DraftOrder) { d.Name = "J" },
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "empty address",
			mutate:  func(d *DraftOrder) { d.Address = "" },
			field:   "address",
			message: "Address is required",
		},
		{
			name:    "short address",
			mutate:  func(d *DraftOrder) { d.Address = "12 Main" },
			field:   "address",
			message: "Please enter a complete address",
		},
		{
			name:    "empty phone",
			mutate:  func(d *DraftOrder) { d.Phone = "" },
			field:   "phone",
			message: "Phone number is required",
		},
		{
			name:    "phone too short",
			mutate:  func(d *DraftOrder) { d.Phone = "555-1234" },
			field:   "phone",
			message: "Please enter a valid phone number",
		},
		{
			name:    "phone with letters",
			mutate:  func(d *DraftOrder) { d.Phone = "555-CALL-NOW" },
			field:   "phone",
			message: "Please enter a valid phone number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			errs := Validate(draft)

			assert.Len(t, errs, 1, "exactly the offending field should be reported")
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestValidate_PhoneFormats(t *testing.T) {
	accepted := []string{
		"+1 555 123 4567",
		"(555) 123-4567",
		"5551234567",
		"+49-151-1234-5678",
	}
	for _, phone := range accepted {
		draft := validDraft()
		draft.Phone = phone
		assert.Empty(t, Validate(draft), "expected %q to be accepted", phone)
	}
}

func TestValidate_ReportsAllOffendingFields(t *testing.T) {
	errs := Validate(DraftOrder{Quantity: 1})

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "address")
	assert.Contains(t, errs, "phone")
}
