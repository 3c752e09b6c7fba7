package metrics

import (
	"errors"

	"storefront/internal/apperr"
)

// Result classifies err into an outcome label.
func Result(err error) string {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &appErr) && !errors.Is(err, apperr.ErrInternal):
		return ResultRejected
	default:
		return ResultError
	}
}
