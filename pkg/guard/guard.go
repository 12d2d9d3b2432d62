package guard

import (
	"sync"

	"github.com/parlevel/studiogate/pkg/feed"
	"github.com/parlevel/studiogate/pkg/resolver"
	"github.com/parlevel/studiogate/pkg/roles"
)

// Status is the gate's decision for the protected capability.
type Status int

const (
	// StatusPending means the role is still resolving: render nothing
	// but a pending indicator, and never treat this as a denial.
	StatusPending Status = iota
	// StatusAllowed means the resolved role satisfies the requirement.
	StatusAllowed
	// StatusDenied means the resolved role is insufficient; the deny
	// hook has fired (once).
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusAllowed:
		return "allowed"
	case StatusDenied:
		return "denied"
	default:
		return "pending"
	}
}

// Gate wraps a protected capability with a required role. It
// re-evaluates on every resolver state and fires the deny hook exactly
// once, and only after loading has completed — a still-loading state
// is never misread as denial.
type Gate struct {
	required roles.Role
	onDeny   func()

	mu       sync.Mutex
	status   Status
	denied   bool
	statuses *feed.Feed[Status]

	unsub     feed.UnsubscribeFunc
	closeOnce sync.Once
}

// NewGate attaches a gate to a resolver state feed. onDeny is the
// one-time redirect side effect; nil means deny is status-only.
// Panics if states is nil.
func NewGate(states *feed.Feed[resolver.State], required roles.Role, onDeny func()) *Gate {
	if states == nil {
		panic("guard: resolver state feed is required")
	}

	g := &Gate{
		required: required,
		onDeny:   onDeny,
		status:   StatusPending,
		statuses: feed.New[Status](),
	}
	g.statuses.Publish(StatusPending)
	g.unsub = states.Subscribe(g.evaluate)
	return g
}

// Status returns the gate's current decision.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Statuses exposes the decision feed for observers.
func (g *Gate) Statuses() *feed.Feed[Status] {
	return g.statuses
}

// Close detaches from the resolver and shuts down the status feed.
func (g *Gate) Close() {
	g.closeOnce.Do(func() {
		g.unsub()
		g.statuses.Close()
	})
}

func (g *Gate) evaluate(s resolver.State) {
	g.mu.Lock()

	var next Status
	switch {
	case s.IsLoading:
		next = StatusPending
	case roles.HasPermission(s.Role, g.required):
		next = StatusAllowed
	default:
		next = StatusDenied
	}

	fireDeny := next == StatusDenied && !g.denied
	if fireDeny {
		g.denied = true
	}
	changed := next != g.status
	g.status = next
	g.mu.Unlock()

	if changed {
		g.statuses.Publish(next)
	}
	if fireDeny && g.onDeny != nil {
		g.onDeny()
	}
}
