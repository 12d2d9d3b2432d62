package plans

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Source defines how plan definitions are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) (map[Tier]Plan, error)
}

// Catalog is the static source of truth for what a tier is.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	plans map[Tier]Plan
}

// NewCatalog builds a catalog from the given source.
// Panics if src is nil to fail fast during initialization.
// Plan definitions are validated up front so configuration errors
// surface at startup rather than mid-checkout.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("plans: Source is required")
	}

	loaded, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := validatePlans(loaded); err != nil {
		return nil, err
	}

	return &Catalog{plans: maps.Clone(loaded)}, nil
}

// Get returns the plan definition for a tier.
// Any tier outside the closed set is an error, never a defaulted value.
func (c *Catalog) Get(tier Tier) (Plan, error) {
	plan, ok := c.plans[tier]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// Tiers returns all catalog tiers in a stable order.
func (c *Catalog) Tiers() []Tier {
	tiers := slices.Collect(maps.Keys(c.plans))
	slices.Sort(tiers)
	return tiers
}

// validatePlans enforces the structural invariants of the catalog:
// map keys match plan tiers, tiers belong to the closed set, and the
// zero-cost tier carries no processor price identifiers.
func validatePlans(plans map[Tier]Plan) error {
	if len(plans) == 0 {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("no plans configured"))
	}

	for tier, plan := range plans {
		if !IsValidTier(tier) {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("unknown tier %q in catalog", tier))
		}
		if plan.Tier != tier {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("tier mismatch: map key %s != plan.Tier %s", tier, plan.Tier))
		}
		if plan.MonthlyPrice.Amount == 0 && !plan.IsFree() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has no price but carries processor price IDs", tier))
		}
		if plan.MonthlyPrice.Amount > 0 && plan.IsFree() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("paid plan %s has no processor price IDs", tier))
		}
	}

	return nil
}
