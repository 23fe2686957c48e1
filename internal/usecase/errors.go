package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/onnwee/places/internal/place"
	"github.com/onnwee/places/internal/result"
)

// ErrUnexpected marks failures the caller cannot act on, such as a storage
// outage. The underlying cause is logged, never returned.
var ErrUnexpected = errors.New("unexpected error")

// NotFoundError reports that no place exists under ID.
// It matches place.ErrNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Local com ID \"%s\" não foi encontrado", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return place.ErrNotFound
}

func unexpected(ctx context.Context, logger *slog.Logger, op string, cause error) error {
	logger.ErrorContext(ctx, "use case failed", "op", op, "error", cause)
	return fmt.Errorf("%s: %w", op, ErrUnexpected)
}

// recoverFailure turns a panic raised below the use-case into an
// ErrUnexpected failure stored in *res.
func recoverFailure[T any](ctx context.Context, logger *slog.Logger, op string, res *result.Result[T]) {
	if rec := recover(); rec != nil {
		*res = result.Failure[T](unexpected(ctx, logger, op, fmt.Errorf("panic: %v", rec)))
	}
}

// spanError reports only failures the service is responsible for; domain
// validation and not-found outcomes leave the span status unset.
func spanError(err error) error {
	if errors.Is(err, ErrUnexpected) {
		return err
	}
	return nil
}
