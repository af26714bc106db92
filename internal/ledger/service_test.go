package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
)

type fakeRepository struct {
	findFn func(ctx context.Context, notificationUUID string) (*models.SubscriptionEvent, error)
	listFn func(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, event *models.SubscriptionEvent) error {
	return nil
}

func (f *fakeRepository) FindByNotificationUUID(ctx context.Context, notificationUUID string) (*models.SubscriptionEvent, error) {
	if f.findFn != nil {
		return f.findFn(ctx, notificationUUID)
	}
	return nil, nil
}

func (f *fakeRepository) ListByTransactionID(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
	if f.listFn != nil {
		return f.listFn(ctx, transactionID)
	}
	return nil, nil
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestService_HasNotification(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	repo.findFn = func(ctx context.Context, notificationUUID string) (*models.SubscriptionEvent, error) {
		if notificationUUID != "notif_1" {
			t.Fatalf("expected trimmed uuid, got %q", notificationUUID)
		}
		return &models.SubscriptionEvent{NotificationUUID: notificationUUID}, nil
	}
	found, err := svc.HasNotification(context.Background(), " notif_1 ")
	if err != nil || !found {
		t.Fatalf("expected notification to be found, found=%v err=%v", found, err)
	}

	repo.findFn = nil
	found, err = svc.HasNotification(context.Background(), "notif_2")
	if err != nil || found {
		t.Fatalf("expected missing notification, found=%v err=%v", found, err)
	}

	if _, err := svc.HasNotification(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListForTransactionRepoError(t *testing.T) {
	expectedErr := errors.New("boom")
	repo := &fakeRepository{
		listFn: func(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
			return nil, expectedErr
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.ListForTransaction(context.Background(), "txn_1")
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency code, got %v", err)
	}

	if _, err := svc.ListForTransaction(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewTransactionEventsSerialization(t *testing.T) {
	product := "com.samansa.subscription.monthly"
	expires := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	events := []models.SubscriptionEvent{{
		NotificationUUID: "notif_1",
		TransactionID:    "txn_1",
		EventType:        enums.SubscriptionEventTypePurchase,
		ProductID:        &product,
		Amount:           decimal.NewNullDecimal(decimal.RequireFromString("9.9")),
		ExpiresDate:      &expires,
		ProcessedAt:      time.Date(2025, 10, 1, 12, 0, 0, 123, time.UTC),
	}}

	raw, err := json.Marshal(NewTransactionEvents("txn_1", events))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		TransactionID string           `json:"transaction_id"`
		Events        []map[string]any `json:"events"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TransactionID != "txn_1" || len(decoded.Events) != 1 {
		t.Fatalf("unexpected payload %s", raw)
	}
	got := decoded.Events[0]
	if got["amount"] != "9.90" || got["event_type"] != "PURCHASE" || got["processed_at"] != "2025-10-01T12:00:00Z" {
		t.Fatalf("unexpected event payload %v", got)
	}
	if got["purchase_date"] != nil || got["expires_date"] != "2025-11-01T12:00:00Z" {
		t.Fatalf("unexpected dates %v", got)
	}

	empty, _ := json.Marshal(NewTransactionEvents("txn_2", nil))
	if string(empty) != `{"transaction_id":"txn_2","events":[]}` {
		t.Fatalf("unexpected empty payload %s", empty)
	}
}
