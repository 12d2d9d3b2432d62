package checkout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parlevel/studiogate/modules/checkout"
	"github.com/parlevel/studiogate/pkg/billing"
	"github.com/parlevel/studiogate/pkg/plans"
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

func newService(t *testing.T, provider billing.Provider) *checkout.Service {
	t.Helper()

	catalog, err := plans.NewCatalog(context.Background(), plans.NewInMemSource(plans.DefaultPlans()...))
	require.NoError(t, err)

	return checkout.NewService(catalog, provider, checkout.Config{AppURL: "https://app.example.com"}, nil)
}

func TestCreateSessionValidationOrder(t *testing.T) {
	t.Parallel()

	// The provider must never be called for validation failures.
	provider := &mockProvider{}
	svc := newService(t, provider)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     checkout.Request
		wantErr error
	}{
		{name: "missing planId", req: checkout.Request{UserID: "u1"}, wantErr: checkout.ErrMissingParameter},
		{name: "missing userId", req: checkout.Request{PlanID: "premium"}, wantErr: checkout.ErrMissingParameter},
		{name: "blank ids", req: checkout.Request{PlanID: "  ", UserID: "  "}, wantErr: checkout.ErrMissingParameter},
		{name: "unknown plan", req: checkout.Request{PlanID: "platinum", UserID: "u1"}, wantErr: checkout.ErrUnknownPlan},
		{name: "free plan monthly", req: checkout.Request{PlanID: "core", UserID: "u1"}, wantErr: checkout.ErrNotPurchasable},
		{name: "free plan annual", req: checkout.Request{PlanID: "core", UserID: "u1", IsAnnual: true}, wantErr: checkout.ErrNotPurchasable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateSessionPriceUnavailable(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	catalog, err := plans.NewCatalog(context.Background(), plans.NewInMemSource(
		plans.Plan{Tier: plans.TierCore, Name: "Core"},
		plans.Plan{
			Tier:          plans.TierPremium,
			Name:          "Premium",
			MonthlyPrice:  plans.Money{Amount: 12499, Currency: "USD"},
			StripePriceID: plans.PriceIDs{Monthly: "price_m"}, // no annual price
		},
	))
	require.NoError(t, err)

	svc := checkout.NewService(catalog, provider, checkout.Config{AppURL: "https://app.example.com"}, nil)

	_, err = svc.CreateSession(context.Background(), checkout.Request{
		PlanID: "premium", UserID: "u1", IsAnnual: true,
	})
	assert.ErrorIs(t, err, checkout.ErrPriceUnavailable)
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateSessionSuccess(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	svc := newService(t, provider)

	provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p billing.CheckoutParams) bool {
		return p.PriceID == "price_premium_annual" &&
			p.UserID == "u1" &&
			p.PlanID == plans.TierPremium &&
			p.SuccessURL == "https://app.example.com/app?success=true&session_id={CHECKOUT_SESSION_ID}" &&
			p.CancelURL == "https://app.example.com/app?canceled=true"
	})).Return(&billing.CheckoutSession{SessionID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil)

	url, err := svc.CreateSession(context.Background(), checkout.Request{
		PlanID: "premium", UserID: "u1", IsAnnual: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", url)
	provider.AssertExpectations(t)
}

func TestCreateSessionDownstreamFailure(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	svc := newService(t, provider)

	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("stripe: connection reset")).Once()

	_, err := svc.CreateSession(context.Background(), checkout.Request{PlanID: "premium", UserID: "u1"})
	assert.ErrorIs(t, err, checkout.ErrCheckoutFailed)

	// Exactly one provider call: the orchestrator never retries.
	provider.AssertNumberOfCalls(t, "CreateCheckoutSession", 1)
}

func TestRouterCreateCheckoutSession(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	svc := newService(t, provider)
	router := checkout.Router(svc)

	post := func(t *testing.T, body any) *httptest.ResponseRecorder {
		t.Helper()
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewReader(raw))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("returns redirect url", func(t *testing.T) {
		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&billing.CheckoutSession{SessionID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil).Once()

		rec := post(t, checkout.Request{PlanID: "premium", UserID: "u1"})
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "https://checkout.stripe.com/c/cs_1", body["url"])
	})

	t.Run("validation failure is a client error with a reason", func(t *testing.T) {
		rec := post(t, checkout.Request{PlanID: "core", UserID: "u1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "free plan")
	})

	t.Run("downstream failure is a generic server error", func(t *testing.T) {
		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(nil, errors.New("stripe down")).Once()

		rec := post(t, checkout.Request{PlanID: "premium", UserID: "u1"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "stripe down")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
