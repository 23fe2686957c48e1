package place

import (
	"github.com/onnwee/places/internal/result"
	"github.com/onnwee/places/internal/validate"
)

// ImageURL is an immutable reference to the place's image.
type ImageURL struct {
	value string
}

// NewImageURL accepts any non-blank absolute URL. The original string is
// kept as given.
func NewImageURL(s string) result.Result[ImageURL] {
	if validate.Blank(s) {
		return result.Failure[ImageURL](invalidImageURL(msgImageURLRequired))
	}
	if _, err := validate.URL(s, validate.AbsoluteURLConstraints); err != nil {
		return result.Failure[ImageURL](invalidImageURL(msgImageURLInvalid))
	}
	return result.Success(ImageURL{value: s})
}

// String returns the URL.
func (u ImageURL) String() string { return u.value }

// Equals reports whether both URLs are the same string.
func (u ImageURL) Equals(other ImageURL) bool { return u.value == other.value }
