package submission

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// MinCreationReasonLength is the shortest accepted free-text reason.
const MinCreationReasonLength = 10

// ValidationError reports a draft the UI must not send across the boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Schema resolves the extra field names declared for a reason type.
type Schema interface {
	FieldNames(reasonType string) ([]string, bool)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateIdentity checks the signed-in identity used as CreatedBy.
func ValidateIdentity(email string) error {
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "createdBy", Message: "Please enter a valid email address."}
	}
	return nil
}

// ValidateDraft applies the form rules to a draft: CreatedFor is required,
// ReasonType must name a known reason, ExtraFields keys must be declared by
// that reason and hold scalars, and a non-empty CreationReason must be at
// least MinCreationReasonLength characters.
func ValidateDraft(d Draft, schema Schema) error {
	if strings.TrimSpace(d.CreatedFor) == "" {
		return &ValidationError{Field: "createdFor", Message: `"Created For" is required.`}
	}

	if d.ReasonType == "" {
		return &ValidationError{Field: "reasonType", Message: "Reason type is required."}
	}
	names, ok := schema.FieldNames(d.ReasonType)
	if !ok {
		return &ValidationError{Field: "reasonType", Message: fmt.Sprintf("Unknown reason type %q.", d.ReasonType)}
	}

	if d.Amount != nil && (math.IsNaN(*d.Amount) || math.IsInf(*d.Amount, 0)) {
		return &ValidationError{Field: "amount", Message: "Amount must be a finite number."}
	}

	reason := strings.TrimSpace(d.CreationReason)
	if reason != "" && len([]rune(reason)) < MinCreationReasonLength {
		return &ValidationError{
			Field:   "creationReason",
			Message: fmt.Sprintf("Please provide a longer creation reason (at least %d characters).", MinCreationReasonLength),
		}
	}

	declared := make(map[string]bool, len(names))
	for _, n := range names {
		declared[n] = true
	}

	// Sorted so the reported field is stable.
	keys := make([]string, 0, len(d.ExtraFields))
	for k := range d.ExtraFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !declared[k] {
			return &ValidationError{Field: k, Message: fmt.Sprintf("Field %q is not used by reason %q.", k, d.ReasonType)}
		}
		if !isScalar(d.ExtraFields[k]) {
			return &ValidationError{Field: k, Message: fmt.Sprintf("Field %q must be a text, number or boolean value.", k)}
		}
	}

	return nil
}

func isScalar(v any) bool {
	switch x := jsonNumber(v).(type) {
	case nil, string, bool:
		return true
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return false
	}
}
