package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	apperrors "github.com/ruzaikr/screencloud-takehome/pkg/errors"
	"github.com/ruzaikr/screencloud-takehome/pkg/httputil"
)

// writeError maps typed domain failures to their API error codes before
// delegating to the shared error writer.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var notFound *domain.ProductNotFoundError
	var insufficient *domain.InsufficientInventoryError
	var shipping *domain.ShippingCostExceededError

	switch {
	case errors.As(err, &notFound):
		err = apperrors.InvalidInput(notFound.Error())
	case errors.As(err, &insufficient):
		err = apperrors.Conflict(insufficient.Error())
	case errors.As(err, &shipping):
		err = apperrors.Unprocessable("SHIPPING_COST_EXCEEDED", shipping.Error())
	}

	httputil.WriteError(w, r, err, logger)
}

// validProductIDs checks that every requested product id is a well-formed
// UUID before the request touches the database. A malformed id can never
// match a catalog row, so it is rejected as the caller's error rather than
// surfacing as a parameter encoding failure deeper down. Writes the 400
// response itself and returns false on the first bad id.
func validProductIDs(w http.ResponseWriter, items []OrderItemRequest) bool {
	for _, item := range items {
		if _, ok := httputil.ParseUUID(w, item.ProductID); !ok {
			return false
		}
	}
	return true
}
