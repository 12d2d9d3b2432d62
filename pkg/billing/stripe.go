package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// checkoutCompletedEvent is the only Stripe event type that triggers a
// state change; everything else is acknowledged and ignored.
const checkoutCompletedEvent = "checkout.session.completed"

// StripeConfig holds Stripe credentials.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
}

// StripeProvider implements Provider for Stripe hosted checkout.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a Stripe billing provider with its own
// client instance, keeping the SDK's global key out of play.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	return &StripeProvider{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

// CreateCheckoutSession opens a subscription-mode checkout session
// carrying the reconciliation metadata.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if params.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if params.UserID == "" {
		return nil, ErrMissingUserID
	}

	sessionParams := buildSessionParams(params)
	sessionParams.Context = ctx
	// Checkout is idempotent per request: network retries within the
	// SDK must not open a second session.
	sessionParams.SetIdempotencyKey(uuid.NewString())

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, errors.Join(ErrProviderError, err)
	}
	if sess.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// buildSessionParams assembles the Stripe request for one checkout.
// The {userId, planId} metadata must land on both the session and its
// subscription: some event types surface only the subscription object,
// and the reconciler must still find it there.
func buildSessionParams(params CheckoutParams) *stripe.CheckoutSessionParams {
	metadata := map[string]string{
		MetadataUserID: params.UserID,
		MetadataPlanID: string(params.PlanID),
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(params.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	for k, v := range metadata {
		sessionParams.AddMetadata(k, v)
	}
	return sessionParams
}

// ParseWebhookEvent recomputes the payload signature from the shared
// secret and rejects mismatches before reading any field.
func (p *StripeProvider) ParseWebhookEvent(payload []byte, signature string) (*Event, error) {
	// The webhook endpoint's API version is pinned in the Stripe
	// dashboard, not by this SDK build, so version mismatches are not
	// treated as verification failures.
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}

	if event.Type != checkoutCompletedEvent {
		return &Event{Type: EventIgnored, ProviderEvent: string(event.Type)}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	out := &Event{
		Type:          EventCheckoutCompleted,
		ProviderEvent: string(event.Type),
		Metadata:      sess.Metadata,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}
