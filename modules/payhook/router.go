package payhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parlevel/studiogate/core"
	"github.com/parlevel/studiogate/pkg/billing"
)

// signatureHeader is the processor's signature header name.
const signatureHeader = "Stripe-Signature"

// maxPayloadBytes bounds webhook bodies. Stripe events stay well under
// this; anything larger is not a legitimate delivery.
const maxPayloadBytes = 1 << 20

// Router mounts the webhook receiver.
func Router(rec *Reconciler) chi.Router {
	r := chi.NewRouter()
	r.Post("/payment", receiveHandler(rec))
	return r
}

func receiveHandler(rec *Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			core.Error(w, http.StatusBadRequest, "unreadable payload")
			return
		}

		err = rec.HandleEvent(r.Context(), payload, r.Header.Get(signatureHeader))
		switch {
		case err == nil:
			// Accepted, ignored or applied: acknowledge so the
			// processor does not redeliver.
			core.JSON(w, http.StatusOK, map[string]bool{"received": true})
		case errors.Is(err, billing.ErrInvalidSignature):
			core.Error(w, http.StatusBadRequest, "webhook signature verification failed")
		case errors.Is(err, ErrMissingMetadata), errors.Is(err, ErrInvalidMetadata):
			core.Error(w, http.StatusBadRequest, "missing metadata")
		default:
			// Apply failures return 5xx so the processor redelivers;
			// re-applying the merge is idempotent.
			core.Error(w, http.StatusInternalServerError, "failed to update user subscription")
		}
	}
}
