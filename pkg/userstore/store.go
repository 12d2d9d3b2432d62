package userstore

import (
	"context"

	"github.com/parlevel/studiogate/pkg/feed"
)

// Store persists user records and publishes a change feed of
// before/after pairs for every write.
//
// Merge is the only mutation path for existing records: it applies a
// partial update, preserving unrelated fields, and creates the record
// when it does not exist yet (a webhook may land before signup has
// written the record). Per-record merge atomicity is delegated to the
// backing database; writers touching disjoint field sets need no
// further coordination.
type Store interface {
	// Get retrieves a user record by identity uid.
	// Returns ErrUserNotFound if no record exists.
	Get(ctx context.Context, id string) (*User, error)

	// Create inserts a new user record.
	// Returns ErrUserAlreadyExists if the id is taken.
	Create(ctx context.Context, user *User) error

	// Merge applies a partial update, creating the record with default
	// role and tier when absent, and returns the post-merge record.
	Merge(ctx context.Context, id string, patch Patch) (*User, error)

	// Delete removes a user record. Deleting a missing record is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns all user records.
	List(ctx context.Context) ([]User, error)

	// Changes exposes the write feed for change consumers.
	Changes() *feed.Feed[Change]
}
