package domain

import "fmt"

// OperatorTag identifies the carrier a number belongs to. Values are stable and
// safe to persist or compare across versions.
type OperatorTag string

const (
	OperatorA       OperatorTag = "OPERATOR_A"
	OperatorB       OperatorTag = "OPERATOR_B"
	OperatorC       OperatorTag = "OPERATOR_C"
	OperatorD       OperatorTag = "OPERATOR_D"
	OperatorUnknown OperatorTag = "UNKNOWN"
)

// ParseOperatorTag converts a stored or configured tag back into an OperatorTag.
func ParseOperatorTag(s string) (OperatorTag, error) {
	switch tag := OperatorTag(s); tag {
	case OperatorA, OperatorB, OperatorC, OperatorD, OperatorUnknown:
		return tag, nil
	default:
		return OperatorUnknown, fmt.Errorf("unknown operator tag: %q", s)
	}
}

// ValidationStatus is the classifier's verdict on a number's format.
// Only StatusCorrect is acceptable for sending.
type ValidationStatus string

const (
	StatusCorrect       ValidationStatus = "CORRECT"
	StatusTooShort      ValidationStatus = "TOO_SHORT"
	StatusTooLong       ValidationStatus = "TOO_LONG"
	StatusUnknownFormat ValidationStatus = "UNKNOWN_FORMAT"
)

// Classification is the classifier output for one input string.
type Classification struct {
	Operator OperatorTag      `json:"operator"`
	Status   ValidationStatus `json:"status"`
}

// IsValid reports whether the status is the canonical "correct" status.
func (c Classification) IsValid() bool {
	return c.Status == StatusCorrect
}

// Classifier resolves the operator and validation status of a phone number.
// Implementations must be pure: equal inputs give equal outputs, and malformed
// input never panics.
type Classifier interface {
	Classify(raw string) Classification
}
