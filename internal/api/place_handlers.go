package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/usecase"
)

// maxBodyBytes bounds request bodies for place writes.
const maxBodyBytes = 1 << 20

// CreatePlaceRequest represents the request body for creating a place.
// Coordinates are pointers so a missing value is distinguishable from zero.
type CreatePlaceRequest struct {
	Nome      string   `json:"nome"`
	Descricao string   `json:"descricao"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Imagem    string   `json:"imagem"`
}

// UpdatePlaceRequest represents the request body for updating a place.
// Absent fields are left unchanged. Coordinates are range checked even when
// sent alone, although only a complete pair relocates the place.
type UpdatePlaceRequest struct {
	Nome      *string  `json:"nome,omitempty"`
	Descricao *string  `json:"descricao,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Imagem    *string  `json:"imagem,omitempty"`
}

// PlaceHandlers holds dependencies for place HTTP handlers.
type PlaceHandlers struct {
	places   *usecase.Places
	validate *validator.Validate
}

// NewPlaceHandlers creates a new PlaceHandlers instance.
func NewPlaceHandlers(places *usecase.Places) *PlaceHandlers {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &PlaceHandlers{places: places, validate: v}
}

// jsonFieldName reports struct fields by their JSON name in validation errors.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// CreatePlace handles POST /places.
func (h *PlaceHandlers) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaceRequest
	if !h.decode(w, r, &req) {
		return
	}

	res := h.places.Create.Execute(r.Context(), usecase.CreatePlaceInput{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Imagem:    req.Imagem,
	})
	created, err := res.Unwrap()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

// ListPlaces handles GET /places.
func (h *PlaceHandlers) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.FindAll.Execute(r.Context()).Unwrap()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, places)
}

// GetPlace handles GET /places/{id}.
func (h *PlaceHandlers) GetPlace(w http.ResponseWriter, r *http.Request) {
	found, err := h.places.FindByID.Execute(r.Context(), chi.URLParam(r, "id")).Unwrap()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, found)
}

// UpdatePlace handles PATCH /places/{id}.
func (h *PlaceHandlers) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlaceRequest
	if !h.decode(w, r, &req) {
		return
	}

	res := h.places.Update.Execute(r.Context(), chi.URLParam(r, "id"), usecase.UpdatePlaceInput{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Imagem:    req.Imagem,
	})
	updated, err := res.Unwrap()
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

// DeletePlace handles DELETE /places/{id}.
func (h *PlaceHandlers) DeletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.places.Delete.Execute(r.Context(), chi.URLParam(r, "id")).Err(); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a single JSON object into dst, rejecting unknown fields, and
// validates it. It writes the error response and returns false on failure.
func (h *PlaceHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, decodeErrorMessage(err))
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, msgInvalidJSON)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, validationMessage(err))
		return false
	}
	return true
}

func decodeErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("Campo %q possui tipo inválido", typeErr.Field)
	case errors.As(err, &maxErr):
		return "Corpo da requisição excede o tamanho máximo"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("Campo %s não é permitido", field)
	default:
		return msgInvalidJSON
	}
}

// rangeMessages match the domain's coordinate messages.
var rangeMessages = map[string]string{
	"latitude":  "Latitude deve estar entre -90 e 90",
	"longitude": "Longitude deve estar entre -180 e 180",
}

// validationMessage reports the first failed request constraint.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidJSON
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Campo %q é obrigatório", fe.Field())
	case "gte", "lte":
		if msg, ok := rangeMessages[fe.Field()]; ok {
			return msg
		}
		return fmt.Sprintf("Campo %q está fora do intervalo permitido", fe.Field())
	default:
		return fmt.Sprintf("Campo %q é inválido", fe.Field())
	}
}

// writeFailure maps a use-case failure to the error envelope. Domain
// messages are passed through; unexpected failures get an opaque message.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrCodeInternal, msgUnexpected
	var domainErr *place.DomainError
	switch {
	case errors.Is(err, place.ErrNotFound):
		code, message = ErrCodeNotFound, err.Error()
	case errors.As(err, &domainErr):
		code, message = ErrCodeValidation, domainErr.Message
	}
	WriteError(w, r.Context(), StatusCodeMapping(code), code, message)
}
