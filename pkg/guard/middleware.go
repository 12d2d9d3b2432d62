package guard

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/parlevel/studiogate/pkg/identity"
	"github.com/parlevel/studiogate/pkg/resolver"
	"github.com/parlevel/studiogate/pkg/roles"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// Middleware guards HTTP routes behind a required role.
//
// The identity token's role claim is deliberately not trusted here:
// privileged routes re-verify the role from the user record, the
// single source of truth. Insufficient roles are redirected to the
// unauthorized destination rather than shown a permission-denied page.
type Middleware struct {
	verifier         identity.TokenVerifier
	reader           resolver.RecordReader
	unauthorizedPath string
	log              *slog.Logger
}

// NewMiddleware creates a route guard. Panics if verifier or reader is
// nil to fail fast during initialization.
func NewMiddleware(verifier identity.TokenVerifier, reader resolver.RecordReader, unauthorizedPath string, log *slog.Logger) *Middleware {
	if verifier == nil {
		panic("guard: token verifier is required")
	}
	if reader == nil {
		panic("guard: record reader is required")
	}
	if unauthorizedPath == "" {
		unauthorizedPath = "/unauthorized"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Middleware{
		verifier:         verifier,
		reader:           reader,
		unauthorizedPath: unauthorizedPath,
		log:              log,
	}
}

// RequireRole wraps a handler with a role requirement. The resolved
// role and identity are stored in the request context for downstream
// handlers.
func (m *Middleware) RequireRole(required roles.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			role := roles.Default
			auth, err := m.verifier.VerifyToken(ctx, bearerToken(r))
			if err == nil && auth.SignedIn() {
				user, err := m.reader.Get(ctx, auth.UserID)
				switch {
				case err == nil && roles.IsValid(user.Role):
					role = user.Role
				case err != nil && !errors.Is(err, userstore.ErrUserNotFound):
					// Fail open to lowest privilege, same as the resolver.
					m.log.ErrorContext(ctx, "role re-verification failed",
						slog.String("user_id", auth.UserID),
						slog.Any("error", err))
				}
				ctx = identity.SetToContext(ctx, auth)
			}

			if !roles.HasPermission(role, required) {
				http.Redirect(w, r, m.unauthorizedPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(roles.SetToContext(ctx, role)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return token
	}
	return ""
}
