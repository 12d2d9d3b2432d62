package billing

import (
	"context"

	"github.com/parlevel/studiogate/pkg/plans"
)

// MetadataUserID and MetadataPlanID are the metadata keys that tie a
// processor session back to the user record it must reconcile into.
const (
	MetadataUserID = "userId"
	MetadataPlanID = "planId"
)

// Provider is the minimal payment-processor interface this system
// needs. It keeps processor specifics (hosted checkout, signature
// schemes, object shapes) behind one boundary so the orchestrator and
// reconciler stay processor-agnostic.
type Provider interface {
	// CreateCheckoutSession opens a hosted checkout session in
	// subscription mode and returns its redirect URL. The params'
	// metadata must be attached to both the session and the
	// subscription the processor will create from it.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// ParseWebhookEvent verifies a webhook payload's signature against
	// the shared secret and returns the normalized event. Verification
	// failures return ErrInvalidSignature before any payload field is
	// trusted.
	ParseWebhookEvent(payload []byte, signature string) (*Event, error)
}

// CheckoutParams describes one checkout session to be created.
type CheckoutParams struct {
	PriceID    string     // processor's price identifier for the chosen billing period
	UserID     string     // identity uid, for client_reference_id and metadata
	PlanID     plans.Tier // tier being purchased, for metadata
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the created hosted session.
type CheckoutSession struct {
	SessionID string
	URL       string // redirect target for the client
}

// EventType is the normalized processor event type.
type EventType string

const (
	// EventCheckoutCompleted is the only event type that changes state.
	EventCheckoutCompleted EventType = "checkout_completed"
	// EventIgnored covers every event type this system acknowledges
	// without side effects, so the processor never retries them.
	EventIgnored EventType = "ignored"
)

// Event is a verified, normalized webhook event.
type Event struct {
	Type           EventType
	ProviderEvent  string            // original processor event name
	CustomerID     string            // processor's customer identifier
	SubscriptionID string            // processor's subscription identifier
	Metadata       map[string]string // session metadata (userId, planId)
}
