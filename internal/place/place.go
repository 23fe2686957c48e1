// Package place holds the Place aggregate, its self-validating value objects
// and the persistence contract used by the application layer.
package place

import (
	"errors"

	"github.com/onnwee/places/internal/result"
	"github.com/onnwee/places/internal/validate"
)

// Field length limits, in characters.
const (
	MinNameLength        = 3
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Props carries the raw attributes of a Place.
type Props struct {
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	Image       string
}

// Patch lists optional changes for UpdateDetails. Nil fields are left alone.
// Coordinates only change when both Latitude and Longitude are set.
type Patch struct {
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Image       *string
}

// Place is a named point of interest. A *Place is always valid: it can only be
// built by New or Reconstitute and every mutator re-validates its input.
type Place struct {
	id          ID
	name        string
	description string
	coordinates Coordinates
	image       ImageURL
}

// New validates props and builds a Place with a freshly generated ID.
// Validation short-circuits in the order name, description, id, coordinates,
// image.
func New(props Props) result.Result[*Place] {
	if r := validateName(props.Name); r.IsFailure() {
		return result.FailAs[*Place](r)
	}
	if r := validateDescription(props.Description); r.IsFailure() {
		return result.FailAs[*Place](r)
	}
	return build(NewID(""), props)
}

// Reconstitute rebuilds a Place from persisted data. Name and description
// were validated on the way in and are trusted; coordinates and image are
// re-validated.
func Reconstitute(id string, props Props) result.Result[*Place] {
	return build(NewID(id), props)
}

func build(idResult result.Result[ID], props Props) result.Result[*Place] {
	id, ok := idResult.Value()
	if !ok {
		return result.FailAs[*Place](idResult)
	}

	coordsResult := NewCoordinates(props.Latitude, props.Longitude)
	coords, ok := coordsResult.Value()
	if !ok {
		return result.FailAs[*Place](coordsResult)
	}

	imageResult := NewImageURL(props.Image)
	image, ok := imageResult.Value()
	if !ok {
		return result.FailAs[*Place](imageResult)
	}

	return result.Success(&Place{
		id:          id,
		name:        props.Name,
		description: props.Description,
		coordinates: coords,
		image:       image,
	})
}

// ID returns the place identity.
func (p *Place) ID() ID { return p.id }

// Name returns the place name.
func (p *Place) Name() string { return p.name }

// Description returns the place description.
func (p *Place) Description() string { return p.description }

// Coordinates returns the place location.
func (p *Place) Coordinates() Coordinates { return p.coordinates }

// Latitude is shorthand for Coordinates().Latitude().
func (p *Place) Latitude() float64 { return p.coordinates.latitude }

// Longitude is shorthand for Coordinates().Longitude().
func (p *Place) Longitude() float64 { return p.coordinates.longitude }

// Image returns the image reference.
func (p *Place) Image() ImageURL { return p.image }

// Clone returns an independent copy of p.
func (p *Place) Clone() *Place {
	c := *p
	return &c
}

// ChangeName replaces the name if it is valid.
func (p *Place) ChangeName(name string) result.Result[result.Void] {
	if r := validateName(name); r.IsFailure() {
		return result.FailAs[result.Void](r)
	}
	p.name = name
	return result.Ok()
}

// ChangeDescription replaces the description if it is valid.
func (p *Place) ChangeDescription(description string) result.Result[result.Void] {
	if r := validateDescription(description); r.IsFailure() {
		return result.FailAs[result.Void](r)
	}
	p.description = description
	return result.Ok()
}

// Relocate moves the place to already validated coordinates.
func (p *Place) Relocate(coords Coordinates) result.Result[result.Void] {
	p.coordinates = coords
	return result.Ok()
}

// RelocateToCoordinates validates lat/lon and moves the place there.
func (p *Place) RelocateToCoordinates(lat, lon float64) result.Result[result.Void] {
	r := NewCoordinates(lat, lon)
	coords, ok := r.Value()
	if !ok {
		return result.FailAs[result.Void](r)
	}
	return p.Relocate(coords)
}

// ChangeImage replaces the image with an already validated URL.
func (p *Place) ChangeImage(image ImageURL) result.Result[result.Void] {
	p.image = image
	return result.Ok()
}

// ChangeImageURL validates url and replaces the image.
func (p *Place) ChangeImageURL(url string) result.Result[result.Void] {
	r := NewImageURL(url)
	image, ok := r.Value()
	if !ok {
		return result.FailAs[result.Void](r)
	}
	return p.ChangeImage(image)
}

// UpdateDetails applies the patch field by field in the order name,
// description, coordinates, image and stops at the first failure. Fields
// applied before the failure stay changed. Use UpdateDetailsAtomic when the
// patch must apply all or nothing.
func (p *Place) UpdateDetails(patch Patch) result.Result[result.Void] {
	if patch.Name != nil {
		if r := p.ChangeName(*patch.Name); r.IsFailure() {
			return r
		}
	}
	if patch.Description != nil {
		if r := p.ChangeDescription(*patch.Description); r.IsFailure() {
			return r
		}
	}
	if patch.Latitude != nil && patch.Longitude != nil {
		if r := p.RelocateToCoordinates(*patch.Latitude, *patch.Longitude); r.IsFailure() {
			return r
		}
	}
	if patch.Image != nil {
		if r := p.ChangeImageURL(*patch.Image); r.IsFailure() {
			return r
		}
	}
	return result.Ok()
}

// UpdateDetailsAtomic validates the whole patch against a staged copy and
// commits it only if every field is valid. On failure p is unchanged and the
// first failing field, in UpdateDetails order, is reported.
func (p *Place) UpdateDetailsAtomic(patch Patch) result.Result[result.Void] {
	staged := *p
	if r := staged.UpdateDetails(patch); r.IsFailure() {
		return r
	}
	*p = staged
	return result.Ok()
}

// DistanceTo returns the great-circle distance to other in kilometers.
func (p *Place) DistanceTo(other *Place) float64 {
	return p.coordinates.DistanceTo(other.coordinates)
}

// validateName requires a non-blank name whose trimmed length is at least
// MinNameLength and whose raw length is at most MaxNameLength.
func validateName(name string) result.Result[string] {
	if validate.Blank(name) {
		return result.Failure[string](invalidName(msgNameRequired))
	}
	if _, err := validate.String(name, validate.StringConstraints{MinLength: MinNameLength, TrimSpace: true}); errors.Is(err, validate.ErrStringTooShort) {
		return result.Failure[string](invalidName(msgNameTooShort, MinNameLength))
	}
	if _, err := validate.String(name, validate.StringConstraints{MaxLength: MaxNameLength}); err != nil {
		return result.Failure[string](invalidName(msgNameTooLong, MaxNameLength))
	}
	return result.Success(name)
}

func validateDescription(description string) result.Result[string] {
	if validate.Blank(description) {
		return result.Failure[string](invalidDescription(msgDescriptionRequired))
	}
	if _, err := validate.String(description, validate.StringConstraints{MaxLength: MaxDescriptionLength}); err != nil {
		return result.Failure[string](invalidDescription(msgDescriptionTooLong, MaxDescriptionLength))
	}
	return result.Success(description)
}
