package app

import (
	"context"
	"errors"

	"github.com/neomorfeo/coursebridge/internal/domain"
)

// resolveTransition asks the lifecycle validator where event leads from
// current. A refused event is reported with the aggregate's own reason.
func resolveTransition(ctx context.Context, v domain.TransitionValidator, current, event string, reject func(string) error) (string, error) {
	dst, err := v.Apply(ctx, current, event)
	if err != nil {
		var trErr *domain.TransitionError
		if errors.As(err, &trErr) {
			return "", reject(event)
		}
		return "", err
	}
	return dst, nil
}
