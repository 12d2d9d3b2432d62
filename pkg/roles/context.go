package roles

import "context"

// roleCtxKey is the context key for storing the resolved role.
type roleCtxKey struct{}

// SetToContext stores the resolved role in the context.
func SetToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// FromContext retrieves the resolved role from the context.
func FromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok
}

// FromContextOrDefault retrieves the resolved role from the context,
// falling back to the default role when none was set.
func FromContextOrDefault(ctx context.Context) Role {
	if role, ok := FromContext(ctx); ok {
		return role
	}
	return Default
}
