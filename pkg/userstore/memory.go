package userstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/parlevel/studiogate/pkg/feed"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. All methods are safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]User
	changes *feed.Feed[Change]
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]User),
		changes: feed.New[Change](),
		now:     time.Now,
	}
}

// WithClock overrides the store's time source. Test helper.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyUserID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Create(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	if _, exists := s.users[user.ID]; exists {
		s.mu.Unlock()
		return ErrUserAlreadyExists
	}
	created := *user
	s.users[user.ID] = created
	s.mu.Unlock()

	s.changes.Publish(Change{Before: nil, After: &created})
	return nil
}

func (s *MemoryStore) Merge(ctx context.Context, id string, patch Patch) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyUserID
	}

	s.mu.Lock()
	var before *User
	after, exists := s.users[id]
	if exists {
		b := after
		before = &b
	} else {
		after = *NewUser(id, "", s.now())
	}
	patch.apply(&after, s.now())
	s.users[id] = after
	s.mu.Unlock()

	s.changes.Publish(Change{Before: before, After: &after})

	result := after
	return &result, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	before, exists := s.users[id]
	if exists {
		delete(s.users, id)
	}
	s.mu.Unlock()

	if exists {
		s.changes.Publish(Change{Before: &before, After: nil})
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b User) int {
		return strings.Compare(a.ID, b.ID)
	})
	return users, nil
}

func (s *MemoryStore) Changes() *feed.Feed[Change] {
	return s.changes
}

// Close shuts down the change feed.
func (s *MemoryStore) Close() {
	s.changes.Close()
}
