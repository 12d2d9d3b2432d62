package identity

import (
	"context"

	"github.com/parlevel/studiogate/pkg/roles"
)

// AuthState is one observation of the identity provider's auth stream:
// either a signed-in user (UserID set) or signed-out (zero value).
type AuthState struct {
	UserID string
	Email  string
}

// SignedIn reports whether the state carries an authenticated identity.
func (s AuthState) SignedIn() bool {
	return s.UserID != ""
}

// ClaimWriter mirrors a role into the identity token's custom claims.
// The claim is a derived, eventually-consistent cache of the user
// record's role field: written only by the claim propagator, consumed
// for coarse gating, never for definitive authorization.
type ClaimWriter interface {
	// SetRoleClaim attaches the role claim to the identity identified
	// by uid, replacing any previous role claim.
	SetRoleClaim(ctx context.Context, uid string, role roles.Role) error
}

// ClaimReader reads the role claim back from the identity provider.
// A missing or malformed claim resolves to the default role.
type ClaimReader interface {
	RoleClaim(ctx context.Context, uid string) (roles.Role, error)
}

// TokenVerifier validates an identity token and returns the identity
// it carries. Verification failures mean the request is anonymous.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (AuthState, error)
}

// Provider is the full identity-service surface this system needs.
type Provider interface {
	ClaimWriter
	ClaimReader
	TokenVerifier
}
