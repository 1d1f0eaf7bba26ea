package domain

import "github.com/google/uuid"

// PhoneEntry is one recipient phone number with its derived classification.
// Entries are value snapshots: an edit produces a new PhoneEntry with the same ID.
type PhoneEntry struct {
	ID          uuid.UUID   `json:"id"`
	PhoneNumber string      `json:"phone_number"`
	Name        string      `json:"name,omitempty"`
	Operator    OperatorTag `json:"operator"`
	IsValid     bool        `json:"is_valid"`
}

// NewPhoneEntry builds an entry whose derived fields come from the classification
// of phoneNumber. ID is generated by the caller.
func NewPhoneEntry(id uuid.UUID, phoneNumber string, name string, c Classification) PhoneEntry {
	return PhoneEntry{
		ID:          id,
		PhoneNumber: phoneNumber,
		Name:        name,
		Operator:    c.Operator,
		IsValid:     c.IsValid(),
	}
}

// ExternalRecord is the seam through which contacts, groups and prefill feeds
// hand numbers to the registry. The registry does not care where it came from.
type ExternalRecord struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	Name        string `json:"name,omitempty" validate:"max=255"`
}
