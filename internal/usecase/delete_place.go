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

const opDeletePlace = "delete_place"

// DeletePlace removes an existing place.
type DeletePlace struct {
	repo   place.Repository
	logger *slog.Logger
}

// NewDeletePlace creates a DeletePlace use-case.
func NewDeletePlace(repo place.Repository, logger *slog.Logger) *DeletePlace {
	return &DeletePlace{repo: repo, logger: loggerOrDefault(logger)}
}

// Execute deletes the place stored under id or returns a *NotFoundError.
func (uc *DeletePlace) Execute(ctx context.Context, id string) (res result.Result[result.Void]) {
	ctx, endSpan := tracing.StartSpan(ctx, "usecase."+opDeletePlace, attribute.String("place.id", id))
	defer func() { endSpan(spanError(res.Err())) }()
	defer recoverFailure(ctx, uc.logger, opDeletePlace, &res)

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return result.Failure[result.Void](unexpected(ctx, uc.logger, opDeletePlace, err))
	}
	if p == nil {
		return result.Failure[result.Void](&NotFoundError{ID: id})
	}

	err = uc.repo.Delete(ctx, id)
	if errors.Is(err, place.ErrNotFound) {
		return result.Failure[result.Void](&NotFoundError{ID: id})
	}
	if err != nil {
		return result.Failure[result.Void](unexpected(ctx, uc.logger, opDeletePlace, err))
	}

	uc.logger.InfoContext(ctx, "place deleted", "place_id", id)
	return result.Ok()
}
