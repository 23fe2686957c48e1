package usecase

import (
	"context"
	"log/slog"

	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/result"
	"github.com/onnwee/places/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const (
	opFindAllPlaces = "find_all_places"
	opFindPlaceByID = "find_place_by_id"
)

// FindAllPlaces lists every stored place.
type FindAllPlaces struct {
	repo   place.Repository
	logger *slog.Logger
}

// NewFindAllPlaces creates a FindAllPlaces use-case.
func NewFindAllPlaces(repo place.Repository, logger *slog.Logger) *FindAllPlaces {
	return &FindAllPlaces{repo: repo, logger: loggerOrDefault(logger)}
}

// Execute returns all places, possibly none.
func (uc *FindAllPlaces) Execute(ctx context.Context) (res result.Result[[]PlaceResponse]) {
	ctx, endSpan := tracing.StartSpan(ctx, "usecase."+opFindAllPlaces)
	defer func() { endSpan(spanError(res.Err())) }()
	defer recoverFailure(ctx, uc.logger, opFindAllPlaces, &res)

	places, err := uc.repo.FindAll(ctx)
	if err != nil {
		return result.Failure[[]PlaceResponse](unexpected(ctx, uc.logger, opFindAllPlaces, err))
	}

	tracing.SetAttributes(ctx, attribute.Int("place.count", len(places)))
	return result.Success(NewPlaceResponses(places))
}

// FindPlaceByID looks up a single place.
type FindPlaceByID struct {
	repo   place.Repository
	logger *slog.Logger
}

// NewFindPlaceByID creates a FindPlaceByID use-case.
func NewFindPlaceByID(repo place.Repository, logger *slog.Logger) *FindPlaceByID {
	return &FindPlaceByID{repo: repo, logger: loggerOrDefault(logger)}
}

// Execute returns the place stored under id or a *NotFoundError.
func (uc *FindPlaceByID) Execute(ctx context.Context, id string) (res result.Result[PlaceResponse]) {
	ctx, endSpan := tracing.StartSpan(ctx, "usecase."+opFindPlaceByID, attribute.String("place.id", id))
	defer func() { endSpan(spanError(res.Err())) }()
	defer recoverFailure(ctx, uc.logger, opFindPlaceByID, &res)

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return result.Failure[PlaceResponse](unexpected(ctx, uc.logger, opFindPlaceByID, err))
	}
	if p == nil {
		return result.Failure[PlaceResponse](&NotFoundError{ID: id})
	}
	return result.Success(NewPlaceResponse(p))
}
