package place

import (
	"github.com/google/uuid"
	"github.com/onnwee/places/internal/validate"
	"github.com/onnwee/places/internal/result"
)

// ID is the opaque identity of a Place.
type ID struct {
	value string
}

// NewID wraps existing, or generates a random UUID when existing is blank.
// It never fails; the Result keeps the factory signature uniform.
func NewID(existing string) result.Result[ID] {
	if validate.Blank(existing) {
		return result.Success(ID{value: uuid.NewString()})
	}
	return result.Success(ID{value: existing})
}

// String returns the identifier.
func (id ID) String() string { return id.value }

// Equals reports whether both identifiers are the same.
func (id ID) Equals(other ID) bool { return id.value == other.value }
