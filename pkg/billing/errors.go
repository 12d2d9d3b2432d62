package billing

import "errors"

var (
	ErrMissingAPIKey        = errors.New("billing.missing_api_key")
	ErrMissingWebhookSecret = errors.New("billing.missing_webhook_secret")
	ErrMissingPriceID       = errors.New("billing.missing_price_id")
	ErrMissingUserID        = errors.New("billing.missing_user_id")
	ErrInvalidSignature     = errors.New("billing.invalid_signature")
	ErrNoCheckoutURL        = errors.New("billing.no_checkout_url")
	ErrProviderError        = errors.New("billing.provider_error")
)
