package identity

import (
	"context"
	"sync"

	"github.com/parlevel/studiogate/pkg/roles"
)

// MemoryProvider is an in-memory Provider for tests and local
// development. Claims live in a map keyed by uid; tokens registered
// through RegisterToken verify to their associated identity.
type MemoryProvider struct {
	mu     sync.RWMutex
	claims map[string]roles.Role
	tokens map[string]AuthState
}

// NewMemoryProvider creates an empty in-memory identity provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		claims: make(map[string]roles.Role),
		tokens: make(map[string]AuthState),
	}
}

// RegisterToken maps a bearer token to an identity for VerifyToken.
func (p *MemoryProvider) RegisterToken(token string, state AuthState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[token] = state
}

func (p *MemoryProvider) VerifyToken(ctx context.Context, token string) (AuthState, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.tokens[token]
	if !ok {
		return AuthState{}, ErrInvalidToken
	}
	return state, nil
}

func (p *MemoryProvider) SetRoleClaim(ctx context.Context, uid string, role roles.Role) error {
	if uid == "" {
		return ErrEmptyUID
	}
	if !roles.IsValid(role) {
		return roles.ErrInvalidRole
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.claims[uid] = role
	return nil
}

func (p *MemoryProvider) RoleClaim(ctx context.Context, uid string) (roles.Role, error) {
	if uid == "" {
		return roles.Default, ErrEmptyUID
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if role, ok := p.claims[uid]; ok {
		return role, nil
	}
	return roles.Default, nil
}
