package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type uniqueModel struct {
	ID   int
	Key  string `gorm:"uniqueIndex:idx_unique_models_key"`
	Note string
}

func TestIsUniqueViolation_DriverErrors(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_subscription_events_notification_uuid"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgxErr), ""))
	assert.True(t, IsUniqueViolation(pgxErr, "idx_subscription_events_notification_uuid"))
	assert.False(t, IsUniqueViolation(pgxErr, "idx_subscriptions_transaction_id"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))

	pqErr := &pq.Error{Code: "23505", Constraint: "idx_subscriptions_transaction_id"}
	assert.True(t, IsUniqueViolation(pqErr, "idx_subscriptions_transaction_id"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "40001"}, ""))
}

func TestIsUniqueViolation_Fallbacks(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil, ""))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey, ""))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: subscription_events.notification_uuid"), "notification_uuid"))
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: subscriptions.transaction_id"), "notification_uuid"))
	assert.False(t, IsUniqueViolation(errors.New("connection reset by peer"), ""))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:unique_violation?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&uniqueModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	if err := conn.Create(&uniqueModel{Key: "dup"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err = conn.Create(&uniqueModel{Key: "dup"}).Error
	assert.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "unique_models.key"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}
