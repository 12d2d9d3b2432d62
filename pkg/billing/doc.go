// Package billing abstracts the payment processor behind a small
// provider interface: open a hosted checkout session, verify and
// normalize webhook events. The Stripe implementation backs
// production.
//
// Reconciliation metadata ({userId, planId}) is attached to both the
// checkout session and the subscription it creates, so the webhook
// reconciler can recover it from whichever object an event surfaces.
package billing
