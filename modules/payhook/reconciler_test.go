package payhook_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parlevel/studiogate/modules/payhook"
	"github.com/parlevel/studiogate/pkg/billing"
	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/roles"
	"github.com/parlevel/studiogate/pkg/userstore"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

func (m *mockProvider) ParseWebhookEvent(payload []byte, signature string) (*billing.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Event), args.Error(1)
}

func completedEvent(userID, planID string) *billing.Event {
	return &billing.Event{
		Type:           billing.EventCheckoutCompleted,
		ProviderEvent:  "checkout.session.completed",
		CustomerID:     "cus_123",
		SubscriptionID: "sub_456",
		Metadata: map[string]string{
			billing.MetadataUserID: userID,
			billing.MetadataPlanID: planID,
		},
	}
}

func TestHandleEventAppliesTierChange(t *testing.T) {
	t.Parallel()

	store := userstore.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	user := userstore.NewUser("u1", "u1@example.com", created)
	user.Role = roles.RoleManager
	require.NoError(t, store.Create(ctx, user))

	provider := &mockProvider{}
	provider.On("ParseWebhookEvent", mock.Anything, "sig").
		Return(completedEvent("u1", "enterprise"), nil)

	rec := payhook.NewReconciler(provider, store, nil)
	require.NoError(t, rec.HandleEvent(ctx, []byte(`{}`), "sig"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plans.TierEnterprise, got.SubscriptionTier)
	assert.Equal(t, "cus_123", got.StripeCustomerID)
	assert.Equal(t, "sub_456", got.StripeSubscriptionID)

	// Unrelated fields survive the merge.
	assert.Equal(t, "u1@example.com", got.Email)
	assert.Equal(t, roles.RoleManager, got.Role)
	assert.Equal(t, created.UTC(), got.CreatedAt)
}

func TestHandleEventIsIdempotent(t *testing.T) {
	t.Parallel()

	store := userstore.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, userstore.NewUser("u1", "u1@example.com", time.Now())))

	provider := &mockProvider{}
	provider.On("ParseWebhookEvent", mock.Anything, "sig").
		Return(completedEvent("u1", "premium"), nil)

	rec := payhook.NewReconciler(provider, store, nil)

	require.NoError(t, rec.HandleEvent(ctx, []byte(`{}`), "sig"))
	first, err := store.Get(ctx, "u1")
	require.NoError(t, err)

	// Duplicate delivery of the same event.
	require.NoError(t, rec.HandleEvent(ctx, []byte(`{}`), "sig"))
	second, err := store.Get(ctx, "u1")
	require.NoError(t, err)

	first.UpdatedAt = second.UpdatedAt
	assert.Equal(t, first, second)
}

func TestHandleEventRejectsInvalidSignature(t *testing.T) {
	t.Parallel()

	store := userstore.NewMemoryStore()
	defer store.Close()

	provider := &mockProvider{}
	provider.On("ParseWebhookEvent", mock.Anything, "bad-sig").
		Return(nil, billing.ErrInvalidSignature)

	rec := payhook.NewReconciler(provider, store, nil)
	err := rec.HandleEvent(context.Background(), []byte(`{}`), "bad-sig")
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	// Nothing was written.
	users, listErr := store.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, users)
}

func TestHandleEventIgnoresOutOfScopeTypes(t *testing.T) {
	t.Parallel()

	store := userstore.NewMemoryStore()
	defer store.Close()

	provider := &mockProvider{}
	provider.On("ParseWebhookEvent", mock.Anything, "sig").
		Return(&billing.Event{Type: billing.EventIgnored, ProviderEvent: "invoice.paid"}, nil)

	rec := payhook.NewReconciler(provider, store, nil)
	require.NoError(t, rec.HandleEvent(context.Background(), []byte(`{}`), "sig"))

	users, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestHandleEventMetadataFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		event   *billing.Event
		wantErr error
	}{
		{
			name: "missing userId",
			event: &billing.Event{
				Type:     billing.EventCheckoutCompleted,
				Metadata: map[string]string{billing.MetadataPlanID: "premium"},
			},
			wantErr: payhook.ErrMissingMetadata,
		},
		{
			name: "missing planId",
			event: &billing.Event{
				Type:     billing.EventCheckoutCompleted,
				Metadata: map[string]string{billing.MetadataUserID: "u1"},
			},
			wantErr: payhook.ErrMissingMetadata,
		},
		{
			name:    "nil metadata",
			event:   &billing.Event{Type: billing.EventCheckoutCompleted},
			wantErr: payhook.ErrMissingMetadata,
		},
		{
			name:    "unknown plan in metadata",
			event:   completedEvent("u1", "platinum"),
			wantErr: payhook.ErrInvalidMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := userstore.NewMemoryStore()
			defer store.Close()

			provider := &mockProvider{}
			provider.On("ParseWebhookEvent", mock.Anything, "sig").Return(tt.event, nil)

			rec := payhook.NewReconciler(provider, store, nil)
			err := rec.HandleEvent(context.Background(), []byte(`{}`), "sig")
			assert.ErrorIs(t, err, tt.wantErr)

			users, listErr := store.List(context.Background())
			require.NoError(t, listErr)
			assert.Empty(t, users, "metadata failures must not write")
		})
	}
}

type failingMerger struct{}

func (failingMerger) Merge(ctx context.Context, id string, patch userstore.Patch) (*userstore.User, error) {
	return nil, errors.New("store down")
}

func TestHandleEventApplyFailure(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	provider.On("ParseWebhookEvent", mock.Anything, "sig").
		Return(completedEvent("u1", "premium"), nil)

	rec := payhook.NewReconciler(provider, failingMerger{}, nil)
	err := rec.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.ErrorIs(t, err, payhook.ErrApplyFailed)
}

func TestRouterResponses(t *testing.T) {
	t.Parallel()

	post := func(t *testing.T, rec *payhook.Reconciler, sig string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Stripe-Signature", sig)
		w := httptest.NewRecorder()
		payhook.Router(rec).ServeHTTP(w, req)
		return w
	}

	t.Run("applied event acknowledged", func(t *testing.T) {
		t.Parallel()

		store := userstore.NewMemoryStore()
		defer store.Close()

		provider := &mockProvider{}
		provider.On("ParseWebhookEvent", mock.Anything, "sig").
			Return(completedEvent("u1", "premium"), nil)

		w := post(t, payhook.NewReconciler(provider, store, nil), "sig")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received": true}`, w.Body.String())
	})

	t.Run("ignored event acknowledged", func(t *testing.T) {
		t.Parallel()

		store := userstore.NewMemoryStore()
		defer store.Close()

		provider := &mockProvider{}
		provider.On("ParseWebhookEvent", mock.Anything, "sig").
			Return(&billing.Event{Type: billing.EventIgnored, ProviderEvent: "customer.updated"}, nil)

		w := post(t, payhook.NewReconciler(provider, store, nil), "sig")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received": true}`, w.Body.String())
	})

	t.Run("bad signature is a client error", func(t *testing.T) {
		t.Parallel()

		store := userstore.NewMemoryStore()
		defer store.Close()

		provider := &mockProvider{}
		provider.On("ParseWebhookEvent", mock.Anything, "sig").
			Return(nil, billing.ErrInvalidSignature)

		w := post(t, payhook.NewReconciler(provider, store, nil), "sig")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "signature")
	})

	t.Run("missing metadata is a client error", func(t *testing.T) {
		t.Parallel()

		store := userstore.NewMemoryStore()
		defer store.Close()

		provider := &mockProvider{}
		provider.On("ParseWebhookEvent", mock.Anything, "sig").
			Return(&billing.Event{Type: billing.EventCheckoutCompleted}, nil)

		w := post(t, payhook.NewReconciler(provider, store, nil), "sig")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "metadata")
	})

	t.Run("apply failure is a server error for redelivery", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		provider.On("ParseWebhookEvent", mock.Anything, "sig").
			Return(completedEvent("u1", "premium"), nil)

		w := post(t, payhook.NewReconciler(provider, failingMerger{}, nil), "sig")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
