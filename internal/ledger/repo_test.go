package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SubscriptionEvent{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newEvent(notificationUUID, transactionID string, eventType enums.SubscriptionEventType, processedAt time.Time) *models.SubscriptionEvent {
	return &models.SubscriptionEvent{
		NotificationUUID: notificationUUID,
		TransactionID:    transactionID,
		EventType:        eventType,
		ProcessedAt:      processedAt,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(newTestDB(t, "ledger_repo_find"))
	processed := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	event := newEvent("notif_1", "txn_1", enums.SubscriptionEventTypePurchase, processed)
	event.Amount = decimal.NewNullDecimal(decimal.RequireFromString("9.99"))
	require.NoError(t, r.Create(ctx, event))

	found, err := r.FindByNotificationUUID(ctx, "notif_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, event.ID, found.ID)
	assert.Equal(t, enums.SubscriptionEventTypePurchase, found.EventType)
	assert.True(t, found.ProcessedAt.Equal(processed))
	assert.Equal(t, "9.99", found.Amount.Decimal.StringFixed(2))

	missing, err := r.FindByNotificationUUID(ctx, "notif_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryCreateDuplicateNotification(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(newTestDB(t, "ledger_repo_duplicate"))
	now := time.Now().UTC()

	require.NoError(t, r.Create(ctx, newEvent("notif_dup", "txn_1", enums.SubscriptionEventTypePurchase, now)))
	err := r.Create(ctx, newEvent("notif_dup", "txn_2", enums.SubscriptionEventTypeCancel, now))
	assert.ErrorIs(t, err, ErrDuplicateNotification)
}

func TestRepositoryListByTransactionID(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(newTestDB(t, "ledger_repo_list"))
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, newEvent("n_cancel", "txn_1", enums.SubscriptionEventTypeCancel, base.Add(2*time.Hour))))
	require.NoError(t, r.Create(ctx, newEvent("n_purchase", "txn_1", enums.SubscriptionEventTypePurchase, base)))
	require.NoError(t, r.Create(ctx, newEvent("n_renew", "txn_1", enums.SubscriptionEventTypeRenew, base.Add(time.Hour))))
	require.NoError(t, r.Create(ctx, newEvent("n_other", "txn_2", enums.SubscriptionEventTypePurchase, base)))

	events, err := r.ListByTransactionID(ctx, "txn_1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "n_purchase", events[0].NotificationUUID)
	assert.Equal(t, "n_renew", events[1].NotificationUUID)
	assert.Equal(t, "n_cancel", events[2].NotificationUUID)

	empty, err := r.ListByTransactionID(ctx, "txn_none")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t, "ledger_repo_tx")
	r := NewRepository(conn)

	tx := conn.Begin()
	require.NoError(t, r.WithTx(tx).Create(ctx, newEvent("notif_tx", "txn_1", enums.SubscriptionEventTypePurchase, time.Now().UTC())))
	require.NoError(t, tx.Rollback().Error)

	found, err := r.FindByNotificationUUID(ctx, "notif_tx")
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Same(t, r, r.WithTx(nil))
}
