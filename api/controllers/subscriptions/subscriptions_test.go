package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samansa/movie-store/internal/ledger"
	subsvc "github.com/samansa/movie-store/internal/subscriptions"
	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
	"github.com/samansa/movie-store/pkg/types"
)

var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeSubscriptionService struct {
	provisionFn func(context.Context, subsvc.ProvisionInput) (*models.Subscription, bool, error)
	listFn      func(context.Context, string) ([]models.Subscription, error)
}

func (f *fakeSubscriptionService) Provision(ctx context.Context, input subsvc.ProvisionInput) (*models.Subscription, bool, error) {
	return f.provisionFn(ctx, input)
}

func (f *fakeSubscriptionService) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	return f.listFn(ctx, userID)
}

type fakeLedgerService struct {
	listFn func(context.Context, string) ([]models.SubscriptionEvent, error)
}

func (f *fakeLedgerService) HasNotification(context.Context, string) (bool, error) {
	return false, nil
}

func (f *fakeLedgerService) ListForTransaction(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
	return f.listFn(ctx, transactionID)
}

var _ ledger.Service = (*fakeLedgerService)(nil)

func pendingSubscription(input subsvc.ProvisionInput) *models.Subscription {
	return &models.Subscription{
		ID:            uuid.New(),
		UserID:        input.UserID,
		TransactionID: input.TransactionID,
		ProductID:     input.ProductID,
		Status:        enums.SubscriptionStatusPending,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
}

func TestProvisionStatusCodes(t *testing.T) {
	cases := []struct {
		name     string
		created  bool
		expected int
	}{
		{name: "created", created: true, expected: http.StatusCreated},
		{name: "existing", created: false, expected: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeSubscriptionService{provisionFn: func(_ context.Context, in subsvc.ProvisionInput) (*models.Subscription, bool, error) {
				return pendingSubscription(in), tc.created, nil
			}}
			body := `{"user_id":"user_123","transaction_id":"txn_new","product_id":"com.samansa.subscription.monthly"}`
			rec := httptest.NewRecorder()
			Provision(svc, nil, fixedClock).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body)))

			require.Equal(t, tc.expected, rec.Code)
			var view subsvc.View
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
			assert.Equal(t, "pending", view.Status)
			assert.False(t, view.Viewable)
			assert.Equal(t, "txn_new", view.TransactionID)
			assert.Nil(t, view.PurchaseDate)
		})
	}
}

func TestProvisionRejectsMissingFields(t *testing.T) {
	called := false
	svc := &fakeSubscriptionService{provisionFn: func(context.Context, subsvc.ProvisionInput) (*models.Subscription, bool, error) {
		called = true
		return nil, false, nil
	}}
	rec := httptest.NewRecorder()
	Provision(svc, nil, fixedClock).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(`{"user_id":"u"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestProvisionPropagatesDependencyError(t *testing.T) {
	svc := &fakeSubscriptionService{provisionFn: func(context.Context, subsvc.ProvisionInput) (*models.Subscription, bool, error) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("conn refused"), "provision subscription")
	}}
	body := `{"user_id":"u","transaction_id":"t","product_id":"p"}`
	rec := httptest.NewRecorder()
	Provision(svc, nil, fixedClock).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListForUser(t *testing.T) {
	expires := fixedNow.Add(24 * time.Hour)
	var gotUser string
	svc := &fakeSubscriptionService{listFn: func(_ context.Context, userID string) ([]models.Subscription, error) {
		gotUser = userID
		return []models.Subscription{
			{ID: uuid.New(), UserID: userID, TransactionID: "t2", ProductID: "p", Status: enums.SubscriptionStatusCancelled, ExpiresDate: &expires, CreatedAt: fixedNow, UpdatedAt: fixedNow},
			{ID: uuid.New(), UserID: userID, TransactionID: "t1", ProductID: "p", Status: enums.SubscriptionStatusPending, CreatedAt: fixedNow.Add(-time.Hour), UpdatedAt: fixedNow},
		}, nil
	}}

	r := chi.NewRouter()
	r.Get("/api/subscriptions/{user_id}", ListForUser(svc, nil, fixedClock))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/subscriptions/user_123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_123", gotUser)

	var body subsvc.UserSubscriptions
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "user_123", body.UserID)
	require.Len(t, body.Subscriptions, 2)
	assert.Equal(t, "t2", body.Subscriptions[0].TransactionID)
	assert.True(t, body.Subscriptions[0].Viewable)
	require.NotNil(t, body.Subscriptions[0].ExpiresDate)
	assert.Equal(t, "2025-10-16T12:00:00Z", *body.Subscriptions[0].ExpiresDate)
	assert.False(t, body.Subscriptions[1].Viewable)
}

func TestListForUserEmptyIsArray(t *testing.T) {
	svc := &fakeSubscriptionService{listFn: func(context.Context, string) ([]models.Subscription, error) {
		return []models.Subscription{}, nil
	}}
	r := chi.NewRouter()
	r.Get("/api/subscriptions/{user_id}", ListForUser(svc, nil, fixedClock))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/subscriptions/nobody", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"nobody","subscriptions":[]}`, rec.Body.String())
}

func TestTransactionEvents(t *testing.T) {
	svc := &fakeLedgerService{listFn: func(_ context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
		return []models.SubscriptionEvent{
			{ID: uuid.New(), NotificationUUID: "n1", TransactionID: transactionID, EventType: enums.SubscriptionEventTypePurchase, ProcessedAt: fixedNow},
		}, nil
	}}
	r := chi.NewRouter()
	r.Get("/api/subscriptions/transactions/{transaction_id}/events", TransactionEvents(svc, nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/subscriptions/transactions/txn_new/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ledger.TransactionEvents
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "txn_new", body.TransactionID)
	require.Len(t, body.Events, 1)
	assert.Equal(t, "PURCHASE", body.Events[0].EventType)
	assert.Equal(t, "2025-10-15T12:00:00Z", body.Events[0].ProcessedAt)
}

func TestNilServicesAnswerInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	Provision(nil, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
}
