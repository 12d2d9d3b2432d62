package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/parlevel/studiogate/pkg/billing"
	"github.com/parlevel/studiogate/pkg/logger"
	"github.com/parlevel/studiogate/pkg/plans"
)

// Config holds checkout redirect targets.
type Config struct {
	// AppURL is the client application base URL for post-checkout
	// redirects.
	AppURL string `env:"APP_URL,required"`
}

// Request is one checkout attempt: which plan, for whom, billed how.
type Request struct {
	PlanID   string `json:"planId"`
	UserID   string `json:"userId"`
	IsAnnual bool   `json:"isAnnual"`
}

// Service orchestrates checkout session creation: it validates the
// request against the catalog and opens a processor session carrying
// the reconciliation metadata.
//
// The service never retries a failed processor call; checkout is a
// synchronous user action and the client simply retries it.
type Service struct {
	catalog  *plans.Catalog
	provider billing.Provider
	cfg      Config
	log      *slog.Logger
}

// NewService creates the checkout orchestrator.
// Panics if catalog or provider is nil to fail fast during
// initialization.
func NewService(catalog *plans.Catalog, provider billing.Provider, cfg Config, log *slog.Logger) *Service {
	if catalog == nil {
		panic("checkout: plan catalog is required")
	}
	if provider == nil {
		panic("checkout: billing provider is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{catalog: catalog, provider: provider, cfg: cfg, log: log}
}

// CreateSession validates the request and opens a checkout session,
// returning the session's redirect URL.
//
// Validation is fail-fast, first match wins:
//  1. planId and userId present, else ErrMissingParameter
//  2. planId resolves in the catalog, else ErrUnknownPlan
//  3. planId is not the zero-cost tier, else ErrNotPurchasable
//  4. a price ID exists for the billing period, else ErrPriceUnavailable
//
// No processor call is made unless all four pass.
func (s *Service) CreateSession(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.PlanID) == "" || strings.TrimSpace(req.UserID) == "" {
		return "", ErrMissingParameter
	}

	tier, err := plans.ParseTier(req.PlanID)
	if err != nil {
		return "", ErrUnknownPlan
	}
	plan, err := s.catalog.Get(tier)
	if err != nil {
		return "", ErrUnknownPlan
	}

	if plan.IsFree() {
		return "", ErrNotPurchasable
	}

	period := plans.BillingMonthly
	if req.IsAnnual {
		period = plans.BillingAnnual
	}
	priceID := plan.StripePriceID.ForPeriod(period)
	if priceID == "" {
		return "", ErrPriceUnavailable
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutParams{
		PriceID:    priceID,
		UserID:     req.UserID,
		PlanID:     tier,
		SuccessURL: s.cfg.AppURL + "/app?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.cfg.AppURL + "/app?canceled=true",
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session creation failed",
			logger.UserID(req.UserID),
			logger.Tier(tier),
			logger.Error(err))
		return "", errors.Join(ErrCheckoutFailed, err)
	}

	s.log.InfoContext(ctx, "checkout session created",
		logger.UserID(req.UserID),
		logger.Tier(tier),
		slog.String("session_id", session.SessionID),
		slog.Bool("annual", req.IsAnnual))

	return session.URL, nil
}
