package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/parlevel/studiogate/pkg/logger"
	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// SubscriptionStatus is the per-user billing status view.
type SubscriptionStatus struct {
	Tier             plans.Tier `json:"tier"`
	StripeCustomerID string     `json:"stripeCustomerId,omitempty"`
}

// Service manages user records outside the payment flow: signup
// registration, status reads, listings, and the self-service
// downgrade. The downgrade is the only tier transition that does not
// originate from a payment webhook.
type Service struct {
	store userstore.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates the account service.
// Panics if store is nil to fail fast during initialization.
func NewService(store userstore.Store, log *slog.Logger) *Service {
	if store == nil {
		panic("account: user store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates the user record at signup with default role and
// tier. Registration is idempotent: if the record already exists it is
// returned untouched, so a webhook-created record keeps its tier.
func (s *Service) Register(ctx context.Context, userID, email string) (*userstore.User, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" || email == "" {
		return nil, ErrMissingParameter
	}

	if existing, err := s.store.Get(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, userstore.ErrUserNotFound) {
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	user := userstore.NewUser(userID, email, s.now())
	if err := s.store.Create(ctx, user); err != nil {
		// Lost the race against a concurrent signup or webhook merge.
		if errors.Is(err, userstore.ErrUserAlreadyExists) {
			return s.store.Get(ctx, userID)
		}
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	s.log.InfoContext(ctx, "user registered",
		logger.UserID(userID),
		logger.Role(user.Role),
		logger.Tier(user.SubscriptionTier))

	return user, nil
}

// Subscription returns the billing status view for a user.
// Returns userstore.ErrUserNotFound for unknown users.
func (s *Service) Subscription(ctx context.Context, userID string) (SubscriptionStatus, error) {
	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return SubscriptionStatus{}, err
	}
	return SubscriptionStatus{
		Tier:             user.SubscriptionTier,
		StripeCustomerID: user.StripeCustomerID,
	}, nil
}

// Users returns all user records.
func (s *Service) Users(ctx context.Context) ([]userstore.User, error) {
	return s.store.List(ctx)
}

// Downgrade moves a user to the zero-cost tier. It is idempotent and
// never creates a record: downgrading an unknown user returns
// userstore.ErrUserNotFound.
func (s *Service) Downgrade(ctx context.Context, userID string) (*userstore.User, error) {
	current, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.SubscriptionTier == plans.DefaultTier {
		return current, nil
	}

	tier := plans.DefaultTier
	user, err := s.store.Merge(ctx, userID, userstore.Patch{SubscriptionTier: &tier})
	if err != nil {
		return nil, errors.Join(ErrDowngradeFailed, err)
	}

	s.log.InfoContext(ctx, "subscription downgraded",
		logger.UserID(userID),
		logger.Tier(tier))

	return user, nil
}
