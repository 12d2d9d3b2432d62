package plans

// Tier identifies a subscription plan.
// The tier set is closed: core (zero-cost), premium, enterprise.
type Tier string

const (
	TierCore       Tier = "core"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// DefaultTier is the tier assigned to every new user record.
const DefaultTier = TierCore

// BillingPeriod selects which processor price a checkout uses.
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingAnnual  BillingPeriod = "annual"
)

// Money represents a monetary amount in the smallest currency unit.
// $124.99 USD is Amount: 12499, Currency: "USD".
type Money struct {
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// PriceIDs holds the payment processor's price identifiers for a plan.
// Empty values mark a billing period as unavailable; the zero-cost tier
// has both empty and must never reach the processor.
type PriceIDs struct {
	Monthly string `yaml:"monthly"`
	Annual  string `yaml:"annual"`
}

// ForPeriod returns the price ID for the requested billing period,
// or an empty string when none is configured.
func (p PriceIDs) ForPeriod(period BillingPeriod) string {
	if period == BillingAnnual {
		return p.Annual
	}
	return p.Monthly
}

// Plan describes a subscription tier: what the tier is, never what a
// user has. Definitions are immutable for the process lifetime.
type Plan struct {
	Tier          Tier     `yaml:"tier"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	MonthlyPrice  Money    `yaml:"monthly_price"`
	AnnualPrice   Money    `yaml:"annual_price"`  // discounted monthly equivalent on annual billing
	AnnualTotal   Money    `yaml:"annual_total"`  // full amount charged per year
	Features      []string `yaml:"features"`
	StripePriceID PriceIDs `yaml:"stripe_price_id"`
}

// IsFree reports whether the plan is the zero-cost tier.
func (p Plan) IsFree() bool {
	return p.StripePriceID.Monthly == "" && p.StripePriceID.Annual == ""
}

// IsValidTier reports whether the value belongs to the closed tier set.
func IsValidTier(t Tier) bool {
	switch t {
	case TierCore, TierPremium, TierEnterprise:
		return true
	}
	return false
}

// ParseTier validates an arbitrary string against the closed tier set.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !IsValidTier(t) {
		return "", ErrUnknownTier
	}
	return t, nil
}
