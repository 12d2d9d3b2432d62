package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parlevel/studiogate/core"
)

// Router mounts the checkout HTTP surface.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Post("/create-checkout-session", createSessionHandler(svc))
	return r
}

func createSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		url, err := svc.CreateSession(r.Context(), req)
		if err != nil {
			status, message := mapError(err)
			core.Error(w, status, message)
			return
		}

		core.JSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

// mapError translates the validation taxonomy into client responses.
// Processor failures stay generic: the client only needs to know it
// may retry.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingParameter):
		return http.StatusBadRequest, "missing planId or userId"
	case errors.Is(err, ErrUnknownPlan):
		return http.StatusBadRequest, "invalid plan selected"
	case errors.Is(err, ErrNotPurchasable):
		return http.StatusBadRequest, "cannot create checkout session for free plan"
	case errors.Is(err, ErrPriceUnavailable):
		return http.StatusBadRequest, "no price configured for selected plan and billing period"
	default:
		return http.StatusInternalServerError, "error creating checkout session"
	}
}
