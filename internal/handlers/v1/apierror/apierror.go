package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/operator"
	"github.com/carson-networks/wallet-server/internal/service"
)

// FromService maps a service error onto the matching HTTP error. message is
// used for failures that have no more specific status.
func FromService(err error, message string) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return huma.NewError(http.StatusBadRequest, validationErr.Error(), &huma.ErrorDetail{
			Location: "body." + validationErr.Field,
			Message:  validationErr.Reason,
		})
	}

	var persistenceErr *service.PersistenceError
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return huma.NewError(http.StatusUnauthorized, "no active session", err)
	case errors.Is(err, service.ErrDraftNotFound), errors.Is(err, service.ErrTransactionNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		return huma.NewError(http.StatusConflict, err.Error())
	case errors.As(err, &persistenceErr), errors.Is(err, operator.ErrOperatorStopped):
		return huma.NewError(http.StatusServiceUnavailable, "ledger unavailable, try again", err)
	}
	return huma.NewError(http.StatusInternalServerError, message, err)
}
