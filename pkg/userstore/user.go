package userstore

import (
	"time"

	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/roles"
)

// User is the single source of truth for a user's role and subscription
// tier. The record is keyed by the identity provider's opaque uid.
//
// Role and subscription tier are independent axes: neither field ever
// implies the other, and no writer may couple them.
type User struct {
	ID                   string     `bson:"_id" json:"id"`
	Email                string     `bson:"email" json:"email"`
	Role                 roles.Role `bson:"role" json:"role"`
	SubscriptionTier     plans.Tier `bson:"subscriptionTier" json:"subscriptionTier"`
	StripeCustomerID     string     `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string     `bson:"stripeSubscriptionId,omitempty" json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// NewUser returns a user record with the default role and tier.
func NewUser(id, email string, now time.Time) *User {
	return &User{
		ID:               id,
		Email:            email,
		Role:             roles.Default,
		SubscriptionTier: plans.DefaultTier,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
}

// Patch is a partial update of a user record. Nil fields are left
// untouched by a merge-write; ID and CreatedAt are immutable and have
// no patch fields. UpdatedAt is advanced by the store on every merge.
type Patch struct {
	Email                *string
	Role                 *roles.Role
	SubscriptionTier     *plans.Tier
	StripeCustomerID     *string
	StripeSubscriptionID *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Email == nil && p.Role == nil && p.SubscriptionTier == nil &&
		p.StripeCustomerID == nil && p.StripeSubscriptionID == nil
}

// apply copies the patch's set fields onto u and advances UpdatedAt.
func (p Patch) apply(u *User, now time.Time) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.SubscriptionTier != nil {
		u.SubscriptionTier = *p.SubscriptionTier
	}
	if p.StripeCustomerID != nil {
		u.StripeCustomerID = *p.StripeCustomerID
	}
	if p.StripeSubscriptionID != nil {
		u.StripeSubscriptionID = *p.StripeSubscriptionID
	}
	u.UpdatedAt = now.UTC()
}

// Change is a before/after pair published on every user-record write.
// Before is nil for creations, After is nil for deletions. Consumers
// must tolerate at-least-once, coalesced delivery.
type Change struct {
	Before *User
	After  *User
}
