package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(ctx context.Context, err error) error {
	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		return huma.Error404NotFound(nfErr.Error())
	}

	var slugErr *domain.SlugConflictError
	if errors.As(err, &slugErr) {
		return huma.Error409Conflict(slugErr.Error())
	}
	var emailErr *domain.EmailConflictError
	if errors.As(err, &emailErr) {
		return huma.Error409Conflict(emailErr.Error())
	}
	var dupErr *domain.DuplicateError
	if errors.As(err, &dupErr) {
		return huma.Error409Conflict(dupErr.Error())
	}
	if errors.Is(err, domain.ErrConcurrentUpdate) {
		return huma.Error409Conflict("resource was modified concurrently, retry the request")
	}

	// Capacity, transition and plain validation failures.
	if errors.Is(err, domain.ErrValidation) {
		return huma.Error422UnprocessableEntity(cause(err).Error())
	}

	slog.ErrorContext(ctx, "request failed", "error", err)
	return huma.Error500InternalServerError("internal server error")
}

// cause strips wrapping added on the way out of the bus so clients see the
// domain message.
func cause(err error) error {
	var consumerErr *domain.ConsumerError
	if errors.As(err, &consumerErr) {
		return consumerErr.Err
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
