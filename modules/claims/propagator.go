package claims

import (
	"context"
	"log/slog"
	"sync"

	"github.com/parlevel/studiogate/pkg/feed"
	"github.com/parlevel/studiogate/pkg/identity"
	"github.com/parlevel/studiogate/pkg/logger"
	"github.com/parlevel/studiogate/pkg/roles"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// Propagator mirrors the user record's role field into the identity
// token's custom claim. It is the only writer of that claim.
//
// It reacts to the store's change feed, decoupled in time from the
// writes that trigger it: callers must never assume the claim is
// updated synchronously after a role write. Delivery is at-least-once
// and coalescing, so the claim converges on the latest role value.
//
// The propagator never reads or depends on the subscription tier.
type Propagator struct {
	writer identity.ClaimWriter
	log    *slog.Logger

	// written holds the last role successfully written per uid. It is
	// touched only from the feed's delivery goroutine.
	written map[string]roles.Role

	unsub     feed.UnsubscribeFunc
	closeOnce sync.Once
}

// New attaches a propagator to a user-record change feed.
// Panics if changes or writer is nil to fail fast during
// initialization. ctx bounds the claim writes.
func New(ctx context.Context, changes *feed.Feed[userstore.Change], writer identity.ClaimWriter, log *slog.Logger) *Propagator {
	if changes == nil {
		panic("claims: change feed is required")
	}
	if writer == nil {
		panic("claims: claim writer is required")
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Propagator{
		writer:  writer,
		log:     log,
		written: make(map[string]roles.Role),
	}
	p.unsub = changes.Subscribe(func(c userstore.Change) {
		p.handle(ctx, c)
	})
	return p
}

// Close detaches the propagator from the change feed.
func (p *Propagator) Close() {
	p.closeOnce.Do(p.unsub)
}

func (p *Propagator) handle(ctx context.Context, c userstore.Change) {
	// Deleted record: nothing to mirror.
	if c.After == nil {
		if c.Before != nil {
			delete(p.written, c.Before.ID)
		}
		return
	}

	role := c.After.Role
	if !roles.IsValid(role) {
		role = roles.Default
	}

	// Suppress against the last role this propagator wrote, never
	// against the change's before snapshot: coalesced delivery can
	// collapse a role change and a later unrelated write into one
	// event whose before and after roles are equal, while the claim
	// still holds the older value. This keeps claim writes
	// proportional to role changes, not to record writes.
	if last, ok := p.written[c.After.ID]; ok && last == role {
		return
	}

	if err := p.writer.SetRoleClaim(ctx, c.After.ID, role); err != nil {
		// The feed is at-least-once but not durable; the failed role
		// stays unrecorded so the next event for this user retries the
		// write. Until then the stale claim is tolerated because the
		// claim is never definitive.
		p.log.ErrorContext(ctx, "failed to propagate role claim",
			logger.UserID(c.After.ID),
			logger.Role(role),
			logger.Error(err))
		return
	}
	p.written[c.After.ID] = role

	p.log.InfoContext(ctx, "role claim updated",
		logger.UserID(c.After.ID),
		logger.Role(role))
}
