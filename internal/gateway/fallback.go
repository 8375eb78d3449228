package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Attempt is one candidate call in an ordered fallback chain. Some backend
// operations are served by more than one endpoint depending on deployment;
// rather than nested error guessing, callers declare the candidates up front.
type Attempt[T any] struct {
	// Name identifies the candidate in logs, usually the endpoint path.
	Name string
	Call func(ctx context.Context) (T, error)
}

// TryInOrder runs attempts in order and returns the first successful result,
// logging which candidate actually served the operation. When every candidate
// fails the returned error carries all per-attempt failures.
func TryInOrder[T any](ctx context.Context, op string, attempts ...Attempt[T]) (T, error) {
	var zero T
	var errs []error

	for _, a := range attempts {
		v, err := a.Call(ctx)
		if err == nil {
			log.Debug().
				Str("op", op).
				Str("endpoint", a.Name).
				Msg("fallback chain resolved")
			return v, nil
		}

		log.Debug().
			Str("op", op).
			Str("endpoint", a.Name).
			Err(err).
			Msg("fallback candidate failed")
		errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
	}

	return zero, fmt.Errorf("%s: all candidate endpoints failed: %w", op, errors.Join(errs...))
}
