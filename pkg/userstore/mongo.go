package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/parlevel/studiogate/pkg/feed"
	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/roles"
)

// MongoConfig holds connection settings for the user record database.
type MongoConfig struct {
	ConnectionURL  string        `env:"MONGODB_URL,required"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"studiogate"`
	Collection     string        `env:"MONGODB_USERS_COLLECTION" envDefault:"users"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// MongoStore is the production Store backed by a MongoDB collection.
// MongoDB's per-document update atomicity carries the store's
// merge-write guarantee.
type MongoStore struct {
	coll    *mongo.Collection
	changes *feed.Feed[Change]
	now     func() time.Time
}

// NewMongoStore connects to MongoDB and returns a store over the
// configured users collection. Connection attempts are retried per the
// config before giving up.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	var client *mongo.Client
	var err error
	for range max(cfg.RetryAttempts, 1) {
		client, err = mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize),
		)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				break
			}
		}
		time.Sleep(cfg.RetryInterval)
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return NewMongoStoreWithCollection(client.Database(cfg.Database).Collection(cfg.Collection)), nil
}

// NewMongoStoreWithCollection wraps an existing collection handle.
// Panics if coll is nil to fail fast during initialization.
func NewMongoStoreWithCollection(coll *mongo.Collection) *MongoStore {
	if coll == nil {
		panic("userstore: mongo collection is required")
	}
	return &MongoStore{
		coll:    coll,
		changes: feed.New[Change](),
		now:     time.Now,
	}
}

func (s *MongoStore) Get(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyUserID
	}

	var user User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

func (s *MongoStore) Create(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return ErrEmptyUserID
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("create user %s: %w", user.ID, err)
	}

	created := *user
	s.changes.Publish(Change{Before: nil, After: &created})
	return nil
}

// Merge applies a $set partial update with upsert. Unset patch fields
// are never written, so unrelated fields survive every merge. When the
// record is created by the upsert, missing fields receive the record
// defaults via $setOnInsert.
func (s *MongoStore) Merge(ctx context.Context, id string, patch Patch) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyUserID
	}

	now := s.now().UTC()
	set := bson.M{"updatedAt": now}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.SubscriptionTier != nil {
		set["subscriptionTier"] = *patch.SubscriptionTier
	}
	if patch.StripeCustomerID != nil {
		set["stripeCustomerId"] = *patch.StripeCustomerID
	}
	if patch.StripeSubscriptionID != nil {
		set["stripeSubscriptionId"] = *patch.StripeSubscriptionID
	}

	// Defaults for upsert-created records, only for fields the patch
	// does not already set ($set and $setOnInsert may not overlap).
	setOnInsert := bson.M{"createdAt": now}
	if patch.Role == nil {
		setOnInsert["role"] = roles.Default
	}
	if patch.SubscriptionTier == nil {
		setOnInsert["subscriptionTier"] = plans.DefaultTier
	}
	if patch.Email == nil {
		setOnInsert["email"] = ""
	}

	// The before snapshot feeds the change stream. It races with
	// concurrent writers, which is acceptable: the feed is
	// at-least-once and consumers converge on the latest record.
	var before *User
	if existing, err := s.Get(ctx, id); err == nil {
		before = existing
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	var after User
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&after)
	if err != nil {
		return nil, fmt.Errorf("merge user %s: %w", id, err)
	}

	s.changes.Publish(Change{Before: before, After: &after})

	result := after
	return &result, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyUserID
	}

	var before User
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.changes.Publish(Change{Before: &before, After: nil})
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) Changes() *feed.Feed[Change] {
	return s.changes
}

// Ping verifies database connectivity. Used by readiness probes.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// Close shuts down the change feed. The mongo client is owned by the
// caller that built the collection handle.
func (s *MongoStore) Close() {
	s.changes.Close()
}
