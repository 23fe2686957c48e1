// Package usecase implements the place application services. Each use-case
// validates input through the place domain, calls the repository once per
// write and returns a result.Result carrying a PlaceResponse or a failure.
package usecase

import (
	"github.com/onnwee/places/internal/place"
	"github.com/samber/lo"
)

// PlaceResponse is the outward representation of a place. Coordinates are
// flattened into latitude and longitude.
type PlaceResponse struct {
	ID        string  `json:"id"`
	Nome      string  `json:"nome"`
	Descricao string  `json:"descricao"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Imagem    string  `json:"imagem"`
}

// NewPlaceResponse maps a place entity to its response record.
func NewPlaceResponse(p *place.Place) PlaceResponse {
	return PlaceResponse{
		ID:        p.ID().String(),
		Nome:      p.Name(),
		Descricao: p.Description(),
		Latitude:  p.Latitude(),
		Longitude: p.Longitude(),
		Imagem:    p.Image().String(),
	}
}

// NewPlaceResponses maps places in order. The result is never nil.
func NewPlaceResponses(places []*place.Place) []PlaceResponse {
	return lo.Map(places, func(p *place.Place, _ int) PlaceResponse {
		return NewPlaceResponse(p)
	})
}

// CreatePlaceInput carries the fields required to create a place.
type CreatePlaceInput struct {
	Nome      string
	Descricao string
	Latitude  float64
	Longitude float64
	Imagem    string
}

func (in CreatePlaceInput) props() place.Props {
	return place.Props{
		Name:        in.Nome,
		Description: in.Descricao,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Image:       in.Imagem,
	}
}

// UpdatePlaceInput carries optional changes. Nil fields are left unchanged;
// coordinates only change when both are present.
type UpdatePlaceInput struct {
	Nome      *string
	Descricao *string
	Latitude  *float64
	Longitude *float64
	Imagem    *string
}

func (in UpdatePlaceInput) patch() place.Patch {
	return place.Patch{
		Name:        in.Nome,
		Description: in.Descricao,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Image:       in.Imagem,
	}
}
