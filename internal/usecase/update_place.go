package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/result"
	"github.com/onnwee/places/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const opUpdatePlace = "update_place"

// UpdatePlace applies a partial change to an existing place.
type UpdatePlace struct {
	repo   place.Repository
	logger *slog.Logger
}

// NewUpdatePlace creates an UpdatePlace use-case.
func NewUpdatePlace(repo place.Repository, logger *slog.Logger) *UpdatePlace {
	return &UpdatePlace{repo: repo, logger: loggerOrDefault(logger)}
}

// Execute loads the place, applies in all-or-nothing and writes it back.
// The read and the write are separate repository calls, so concurrent
// updates of the same id race; the last write wins.
func (uc *UpdatePlace) Execute(ctx context.Context, id string, in UpdatePlaceInput) (res result.Result[PlaceResponse]) {
	ctx, endSpan := tracing.StartSpan(ctx, "usecase."+opUpdatePlace, attribute.String("place.id", id))
	defer func() { endSpan(spanError(res.Err())) }()
	defer recoverFailure(ctx, uc.logger, opUpdatePlace, &res)

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return result.Failure[PlaceResponse](unexpected(ctx, uc.logger, opUpdatePlace, err))
	}
	if p == nil {
		return result.Failure[PlaceResponse](&NotFoundError{ID: id})
	}

	if r := p.UpdateDetailsAtomic(in.patch()); r.IsFailure() {
		return result.FailAs[PlaceResponse](r)
	}

	updated, err := uc.repo.Update(ctx, id, p)
	if errors.Is(err, place.ErrNotFound) {
		return result.Failure[PlaceResponse](&NotFoundError{ID: id})
	}
	if err != nil {
		return result.Failure[PlaceResponse](unexpected(ctx, uc.logger, opUpdatePlace, err))
	}

	geohash := updated.Coordinates().Geohash(geohashPrecision)
	tracing.SetAttributes(ctx, attribute.String("place.geohash", geohash))
	uc.logger.InfoContext(ctx, "place updated", "place_id", id, "geohash", geohash)
	return result.Success(NewPlaceResponse(updated))
}
