package plans

import (
	"context"
	"slices"
	"sync"
)

type inMemSource struct {
	mu    sync.RWMutex
	plans map[Tier]Plan
}

// NewInMemSource returns an in-memory Source with a deep copy of the given plans.
// Panics if no plans are provided so the catalog always has at least one tier.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) < 1 {
		panic("plans: at least one plan is required")
	}

	plansCopy := make(map[Tier]Plan, len(plans))
	for _, plan := range plans {
		plan.Features = slices.Clone(plan.Features)
		plansCopy[plan.Tier] = plan
	}

	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all plans from memory. Deep copying prevents
// callers from modifying the source's internal state.
func (s *inMemSource) Load(ctx context.Context) (map[Tier]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plansCopy := make(map[Tier]Plan, len(s.plans))
	for tier, plan := range s.plans {
		plan.Features = slices.Clone(plan.Features)
		plansCopy[tier] = plan
	}
	return plansCopy, nil
}

// DefaultPlans returns the built-in plan set used when no catalog file
// is configured. Processor price IDs for paid tiers come from the
// environment-specific catalog file in real deployments.
func DefaultPlans() []Plan {
	return []Plan{
		{
			Tier:         TierCore,
			Name:         "Basic Core",
			Description:  "For companies getting started",
			MonthlyPrice: Money{Amount: 0, Currency: "USD"},
			AnnualPrice:  Money{Amount: 0, Currency: "USD"},
			AnnualTotal:  Money{Amount: 0, Currency: "USD"},
			Features: []string{
				"10GB storage",
				"10GB video/audio traffic",
				"Unlimited users",
				"Calendar planner",
				"Document drive",
				"Task tracker",
				"Team chat",
			},
		},
		{
			Tier:          TierPremium,
			Name:          "Premium Core",
			Description:   "Perfect for growing companies wanting to be in more control",
			MonthlyPrice:  Money{Amount: 12499, Currency: "USD"},
			AnnualPrice:   Money{Amount: 9999, Currency: "USD"},
			AnnualTotal:   Money{Amount: 119988, Currency: "USD"},
			StripePriceID: PriceIDs{Monthly: "price_premium_monthly", Annual: "price_premium_annual"},
			Features: []string{
				"1TB storage",
				"500GB video/audio traffic",
				"All Basic Core features",
				"3rd party integrations",
				"Advanced analytics",
				"Custom domains",
				"Online support",
			},
		},
		{
			Tier:          TierEnterprise,
			Name:          "Enterprise Core",
			Description:   "Perfect for companies wanting advanced security and support",
			MonthlyPrice:  Money{Amount: 49999, Currency: "USD"},
			AnnualPrice:   Money{Amount: 39999, Currency: "USD"},
			AnnualTotal:   Money{Amount: 479988, Currency: "USD"},
			StripePriceID: PriceIDs{Monthly: "price_enterprise_monthly", Annual: "price_enterprise_annual"},
			Features: []string{
				"10TB storage",
				"2TB video/audio traffic",
				"All Premium features",
				"99.9% uptime",
				"Dedicated support",
				"Federated SSO",
			},
		},
	}
}
