package payhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/parlevel/studiogate/pkg/billing"
	"github.com/parlevel/studiogate/pkg/logger"
	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// RecordMerger is the slice of the user store the reconciler needs.
type RecordMerger interface {
	Merge(ctx context.Context, id string, patch userstore.Patch) (*userstore.User, error)
}

// Reconciler applies completed-checkout events to user records.
//
// Per-event state machine: verify signature, filter event type,
// extract metadata, apply merge-write, acknowledge. Replaying the same
// event is safe: the merge overwrites the same three fields with the
// same values, so no deduplication table is needed.
type Reconciler struct {
	provider billing.Provider
	store    RecordMerger
	log      *slog.Logger
}

// NewReconciler creates a webhook reconciler.
// Panics if provider or store is nil to fail fast during
// initialization.
func NewReconciler(provider billing.Provider, store RecordMerger, log *slog.Logger) *Reconciler {
	if provider == nil {
		panic("payhook: billing provider is required")
	}
	if store == nil {
		panic("payhook: user store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{provider: provider, store: store, log: log}
}

// HandleEvent processes one raw webhook delivery.
//
// A nil return means the event was verified and either applied or
// intentionally ignored; the caller acknowledges so the processor does
// not redeliver. ErrApplyFailed is the only error that should trigger
// redelivery.
func (r *Reconciler) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	// Verification precedes any use of the payload. A payload that
	// fails it is untrusted input, full stop.
	event, err := r.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != billing.EventCheckoutCompleted {
		r.log.DebugContext(ctx, "webhook event ignored", logger.Event(event.ProviderEvent))
		return nil
	}

	// Absent metadata means a misconfigured checkout. Failing loudly
	// gives operators a signal; a silent success would leave the
	// user's tier stale with no trace.
	userID := event.Metadata[billing.MetadataUserID]
	planID := event.Metadata[billing.MetadataPlanID]
	if userID == "" || planID == "" {
		r.log.ErrorContext(ctx, "webhook metadata missing userId or planId",
			logger.Event(event.ProviderEvent),
			slog.Any("metadata", event.Metadata))
		return ErrMissingMetadata
	}

	tier, err := plans.ParseTier(planID)
	if err != nil {
		r.log.ErrorContext(ctx, "webhook metadata carries unknown plan",
			logger.UserID(userID),
			slog.String("plan_id", planID))
		return ErrInvalidMetadata
	}

	// Merge-write only the subscription fields. Role, email and
	// createdAt belong to other writers and must survive untouched.
	patch := userstore.Patch{
		SubscriptionTier:     &tier,
		StripeCustomerID:     &event.CustomerID,
		StripeSubscriptionID: &event.SubscriptionID,
	}
	if _, err := r.store.Merge(ctx, userID, patch); err != nil {
		r.log.ErrorContext(ctx, "failed to apply subscription update",
			logger.UserID(userID),
			logger.Tier(tier),
			logger.Error(err))
		return errors.Join(ErrApplyFailed, err)
	}

	r.log.InfoContext(ctx, "subscription tier updated",
		logger.UserID(userID),
		logger.Tier(tier),
		slog.String("subscription_id", event.SubscriptionID))

	return nil
}
