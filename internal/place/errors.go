package place

import (
	"errors"
	"fmt"
)

// Kind tags a DomainError with the validation rule that failed.
type Kind string

// Domain error kinds.
const (
	KindInvalidName        Kind = "invalid_name"
	KindInvalidDescription Kind = "invalid_description"
	KindInvalidCoordinates Kind = "invalid_coordinates"
	KindInvalidImageURL    Kind = "invalid_image_url"
)

// Coordinate fields reported by KindInvalidCoordinates errors.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
)

// DomainError is a validation failure raised by a value object or the Place
// entity. Message is human readable and safe to return to clients.
type DomainError struct {
	Kind    Kind
	Field   string
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches sentinel DomainErrors by kind (and field, when the sentinel
// names one). A sentinel without a kind matches every DomainError.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return true
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &DomainError{Message: "validation failed"}
	ErrInvalidName        = &DomainError{Kind: KindInvalidName, Message: "invalid name"}
	ErrInvalidDescription = &DomainError{Kind: KindInvalidDescription, Message: "invalid description"}
	ErrInvalidCoordinates = &DomainError{Kind: KindInvalidCoordinates, Message: "invalid coordinates"}
	ErrInvalidLatitude    = &DomainError{Kind: KindInvalidCoordinates, Field: FieldLatitude, Message: "invalid latitude"}
	ErrInvalidLongitude   = &DomainError{Kind: KindInvalidCoordinates, Field: FieldLongitude, Message: "invalid longitude"}
	ErrInvalidImageURL    = &DomainError{Kind: KindInvalidImageURL, Message: "invalid image url"}
)

// Repository errors.
var (
	ErrNotFound      = errors.New("place not found")
	ErrAlreadyExists = errors.New("place already exists")
)

const (
	msgNameRequired        = "Nome é obrigatório"
	msgNameTooShort        = "Nome deve ter no mínimo %d caracteres"
	msgNameTooLong         = "Nome deve ter no máximo %d caracteres"
	msgDescriptionRequired = "Descrição é obrigatória"
	msgDescriptionTooLong  = "Descrição deve ter no máximo %d caracteres"
	msgInvalidLatitude     = "Latitude deve estar entre -90 e 90"
	msgInvalidLongitude    = "Longitude deve estar entre -180 e 180"
	msgImageURLRequired    = "URL da imagem é obrigatória"
	msgImageURLInvalid     = "URL da imagem inválida"
)

func invalidName(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidName, Message: fmt.Sprintf(format, args...)}
}

func invalidDescription(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidDescription, Message: fmt.Sprintf(format, args...)}
}

func invalidLatitude() *DomainError {
	return &DomainError{Kind: KindInvalidCoordinates, Field: FieldLatitude, Message: msgInvalidLatitude}
}

func invalidLongitude() *DomainError {
	return &DomainError{Kind: KindInvalidCoordinates, Field: FieldLongitude, Message: msgInvalidLongitude}
}

func invalidImageURL(message string) *DomainError {
	return &DomainError{Kind: KindInvalidImageURL, Message: message}
}
