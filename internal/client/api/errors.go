package api

import (
	"errors"
	"fmt"

	"github.com/bobdavies/creatuno/internal/common"
)

// Error is a structured error reported by the backend (non-2xx response with
// a decodable error payload). It indicates a data or authorization problem
// rather than a transient network blip, so entities hitting it are marked
// conflict and are not retried automatically.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// IsTransient reports whether err represents a transport-level failure worth
// retrying, as opposed to a structured backend rejection.
func IsTransient(err error) bool {
	return errors.Is(err, common.ErrUnavailable)
}

// AsBackendError unwraps a structured backend error, if any.
func AsBackendError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
