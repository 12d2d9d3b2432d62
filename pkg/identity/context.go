package identity

import "context"

// authCtxKey is the context key for the verified identity.
type authCtxKey struct{}

// SetToContext stores the verified identity in the context.
func SetToContext(ctx context.Context, state AuthState) context.Context {
	return context.WithValue(ctx, authCtxKey{}, state)
}

// FromContext retrieves the verified identity from the context.
func FromContext(ctx context.Context) (AuthState, bool) {
	state, ok := ctx.Value(authCtxKey{}).(AuthState)
	return state, ok
}
