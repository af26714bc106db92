package ledger

import (
	"context"
	"strings"

	pkgerrors "github.com/samansa/movie-store/pkg/errors"

	"github.com/samansa/movie-store/pkg/db/models"
)

// Service exposes read access to the notification ledger.
type Service interface {
	HasNotification(ctx context.Context, notificationUUID string) (bool, error)
	ListForTransaction(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) HasNotification(ctx context.Context, notificationUUID string) (bool, error) {
	notificationUUID = strings.TrimSpace(notificationUUID)
	if notificationUUID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "notification_uuid is required")
	}
	event, err := s.repo.FindByNotificationUUID(ctx, notificationUUID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup notification")
	}
	return event != nil, nil
}

// ListForTransaction returns the events applied to a transaction in
// processing order. Transactions without events yield an empty list.
func (s *service) ListForTransaction(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction_id is required")
	}
	events, err := s.repo.ListByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger events")
	}
	return events, nil
}
