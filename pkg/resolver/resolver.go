package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/parlevel/studiogate/pkg/feed"
	"github.com/parlevel/studiogate/pkg/identity"
	"github.com/parlevel/studiogate/pkg/roles"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// State is one observation of the resolved role.
// IsLoading is true from subscription start until the first resolution
// (success or error) completes.
type State struct {
	Role      roles.Role
	IsLoading bool
}

// RecordReader is the slice of the user store the resolver needs.
type RecordReader interface {
	Get(ctx context.Context, id string) (*userstore.User, error)
}

// Resolver observes an identity auth stream and resolves each identity
// to its record role, publishing {role, isLoading} states.
//
// Failure policy: a failed record read resolves to the default
// (lowest-privilege) role, never to elevated trust and never to a
// stuck loading state. Sign-out resets to the default role.
type Resolver struct {
	reader RecordReader
	states *feed.Feed[State]
	log    *slog.Logger

	mu      sync.RWMutex
	current State

	unsub     feed.UnsubscribeFunc
	closeOnce sync.Once
}

// New creates a resolver attached to the given auth stream.
// Panics if authStream or reader is nil to fail fast during
// initialization. ctx bounds the record reads triggered by auth
// changes.
func New(ctx context.Context, authStream *feed.Feed[identity.AuthState], reader RecordReader, log *slog.Logger) *Resolver {
	if authStream == nil {
		panic("resolver: auth stream is required")
	}
	if reader == nil {
		panic("resolver: record reader is required")
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Resolver{
		reader:  reader,
		states:  feed.New[State](),
		log:     log,
		current: State{Role: roles.Default, IsLoading: true},
	}
	r.states.Publish(r.current)

	r.unsub = authStream.Subscribe(func(auth identity.AuthState) {
		r.resolve(ctx, auth)
	})

	return r
}

// States exposes the resolved-state feed. Late subscribers immediately
// receive the latest state.
func (r *Resolver) States() *feed.Feed[State] {
	return r.states
}

// Current returns the most recently resolved state.
func (r *Resolver) Current() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Close detaches from the auth stream and shuts down the state feed.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		r.unsub()
		r.states.Close()
	})
}

// resolve handles a single auth-state observation. Runs sequentially
// per the feed's subscriber contract, so states publish in order.
func (r *Resolver) resolve(ctx context.Context, auth identity.AuthState) {
	if !auth.SignedIn() {
		r.publish(State{Role: roles.Default, IsLoading: false})
		return
	}

	role := roles.Default
	user, err := r.reader.Get(ctx, auth.UserID)
	switch {
	case err == nil:
		if roles.IsValid(user.Role) {
			role = user.Role
		}
	case errors.Is(err, userstore.ErrUserNotFound):
		// No record yet: lowest privilege until signup writes one.
	default:
		// Fail open to the default role, not to "no access".
		r.log.ErrorContext(ctx, "failed to resolve user role",
			slog.String("user_id", auth.UserID),
			slog.Any("error", err))
	}

	r.publish(State{Role: role, IsLoading: false})
}

func (r *Resolver) publish(s State) {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	r.states.Publish(s)
}
