package usecase

import (
	"context"
	"log/slog"

	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/result"
	"github.com/onnwee/places/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const opCreatePlace = "create_place"

// geohashPrecision of 6 locates a place to roughly 1.2 km in logs and spans.
const geohashPrecision = 6

// CreatePlace validates a new place and saves it.
type CreatePlace struct {
	repo   place.Repository
	logger *slog.Logger
}

// NewCreatePlace creates a CreatePlace use-case. A nil logger uses slog.Default.
func NewCreatePlace(repo place.Repository, logger *slog.Logger) *CreatePlace {
	return &CreatePlace{repo: repo, logger: loggerOrDefault(logger)}
}

// Execute builds the entity from in, persists it and returns the stored record.
// Domain validation failures are returned unchanged.
func (uc *CreatePlace) Execute(ctx context.Context, in CreatePlaceInput) (res result.Result[PlaceResponse]) {
	ctx, endSpan := tracing.StartSpan(ctx, "usecase."+opCreatePlace)
	defer func() { endSpan(spanError(res.Err())) }()
	defer recoverFailure(ctx, uc.logger, opCreatePlace, &res)

	built := place.New(in.props())
	p, ok := built.Value()
	if !ok {
		return result.FailAs[PlaceResponse](built)
	}

	saved, err := uc.repo.Save(ctx, p)
	if err != nil {
		return result.Failure[PlaceResponse](unexpected(ctx, uc.logger, opCreatePlace, err))
	}

	geohash := saved.Coordinates().Geohash(geohashPrecision)
	tracing.SetAttributes(ctx,
		attribute.String("place.id", saved.ID().String()),
		attribute.String("place.geohash", geohash),
	)
	uc.logger.InfoContext(ctx, "place created", "place_id", saved.ID().String(), "geohash", geohash)
	return result.Success(NewPlaceResponse(saved))
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
