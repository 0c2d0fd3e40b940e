package v1

import (
	"errors"
	"net/http"

	"github.com/divvyup/backend/internal/ledger"
	"github.com/divvyup/backend/internal/models"
	"gorm.io/gorm"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status maps engine and database errors to HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, models.ErrResourceNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, ledger.ErrStorageUnavailable),
		errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	default:
		return http.StatusBadRequest
	}
}

var (
	errBudgetIDParameter  = errors.New("the budget parameter must be set")
	errMonthNotSetInQuery = errors.New("the month query parameter must be set to a YYYY-MM month")
	errBudgetReferenced   = errors.New("the budget still has accounts or categories, delete or archive those first")
	errNoDestinationSet   = errors.New("a transfer needs a destination account")
)
