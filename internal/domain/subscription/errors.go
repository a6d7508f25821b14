package subscription

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidIdentifier    = errors.New("invalid ObjectId")
	ErrIDAlreadyAssigned    = errors.New("subscription id already assigned")
)

// FieldError describes a single rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError collects field level problems with a subscription payload.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError with a single field problem.
func NewValidationError(field, code, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, code, message)
	return v
}

// Add appends a field problem.
func (v *ValidationError) Add(field, code, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Code: code, Message: message})
}

// HasErrors reports whether any field problem was recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// ParseID converts the external string form of an identifier into an ObjectID.
// The parse failure reason is kept in the returned error.
func ParseID(raw string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return id, nil
}
