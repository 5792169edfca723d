package column

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"jamco/internal/domain"
)

type Column struct {
	ID           int64
	UserID       int64
	Name         string
	ColumnNumber int
}

// Defaults is the board every new account starts with.
var Defaults = []struct {
	Name         string
	ColumnNumber int
}{
	{Name: "To Apply", ColumnNumber: 0},
	{Name: "Application Submitted", ColumnNumber: 1},
	{Name: "OA", ColumnNumber: 2},
	{Name: "Interview", ColumnNumber: 3},
}

var ErrMissingField = fmt.Errorf("%w: column missing field", domain.ErrValidation)

// Spec is one element of a desired board state. ID may be present but null
// (or match no existing column), which creates a new column.
type Spec struct {
	ID           *int64
	Name         *string
	ColumnNumber *int

	idPresent bool
}

func NewSpec(name string, columnNumber int) Spec {
	return Spec{Name: &name, ColumnNumber: &columnNumber, idPresent: true}
}

func ExistingSpec(id int64, name string, columnNumber int) Spec {
	return Spec{ID: &id, Name: &name, ColumnNumber: &columnNumber, idPresent: true}
}

func (s *Spec) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: column spec must be an object", domain.ErrValidation)
	}

	*s = Spec{}
	if v, ok := raw["id"]; ok {
		s.idPresent = true
		if !isNull(v) {
			var id int64
			if err := json.Unmarshal(v, &id); err != nil {
				return fmt.Errorf("%w: column id must be an integer", domain.ErrValidation)
			}
			s.ID = &id
		}
	}
	if v, ok := raw["name"]; ok && !isNull(v) {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return fmt.Errorf("%w: column name must be a string", domain.ErrValidation)
		}
		s.Name = &name
	}
	if v, ok := raw["column_number"]; ok && !isNull(v) {
		// column_number is an INTEGER column.
		var n32 int32
		if err := json.Unmarshal(v, &n32); err != nil {
			return fmt.Errorf("%w: column_number must be a 32-bit integer", domain.ErrValidation)
		}
		n := int(n32)
		s.ColumnNumber = &n
	}
	return nil
}

func (s Spec) Validate() error {
	if !s.idPresent && s.ID == nil {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if s.Name == nil {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if s.ColumnNumber == nil {
		return fmt.Errorf("%w: column_number", ErrMissingField)
	}
	if n := *s.ColumnNumber; n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("%w: column_number out of range", domain.ErrValidation)
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
