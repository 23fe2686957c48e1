package usecase

import (
	"log/slog"

	"github.com/onnwee/places/internal/place"
)

// Places bundles the place use-cases over a single repository.
type Places struct {
	Create   *CreatePlace
	FindAll  *FindAllPlaces
	FindByID *FindPlaceByID
	Update   *UpdatePlace
	Delete   *DeletePlace
}

// NewPlaces wires every place use-case to repo.
func NewPlaces(repo place.Repository, logger *slog.Logger) *Places {
	return &Places{
		Create:   NewCreatePlace(repo, logger),
		FindAll:  NewFindAllPlaces(repo, logger),
		FindByID: NewFindPlaceByID(repo, logger),
		Update:   NewUpdatePlace(repo, logger),
		Delete:   NewDeletePlace(repo, logger),
	}
}
