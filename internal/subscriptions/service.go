package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
)

// Service defines the client-facing subscription surface.
type Service interface {
	Provision(ctx context.Context, input ProvisionInput) (*models.Subscription, bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.Subscription, error)
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// ProvisionInput is the client's optimistic report of a store purchase.
type ProvisionInput struct {
	UserID        string `json:"user_id" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
	ProductID     string `json:"product_id" validate:"required"`
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a subscription service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription repo required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

// Provision creates a pending subscription for the transaction, or returns the
// stored one unchanged. The boolean reports whether a row was created.
func (s *service) Provision(ctx context.Context, input ProvisionInput) (*models.Subscription, bool, error) {
	input = input.normalized()
	if missing := input.missingFields(); len(missing) > 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}

	existing, err := s.repo.FindByTransactionID(ctx, input.TransactionID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.now().UTC()
	sub := &models.Subscription{
		UserID:        input.UserID,
		TransactionID: input.TransactionID,
		ProductID:     input.ProductID,
		Status:        enums.SubscriptionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if !errors.Is(err, ErrDuplicateTransaction) {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}
		winner, findErr := s.repo.FindByTransactionID(ctx, input.TransactionID)
		if findErr != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload subscription")
		}
		if winner == nil {
			return nil, false, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("subscription %s conflicted but is missing", input.TransactionID))
		}
		return winner, false, nil
	}
	return sub, true, nil
}

// ListForUser returns the user's subscriptions, newest first.
func (s *service) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	subs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return subs, nil
}

func (in ProvisionInput) normalized() ProvisionInput {
	return ProvisionInput{
		UserID:        strings.TrimSpace(in.UserID),
		TransactionID: strings.TrimSpace(in.TransactionID),
		ProductID:     strings.TrimSpace(in.ProductID),
	}
}

func (in ProvisionInput) missingFields() []string {
	var missing []string
	if in.UserID == "" {
		missing = append(missing, "user_id")
	}
	if in.TransactionID == "" {
		missing = append(missing, "transaction_id")
	}
	if in.ProductID == "" {
		missing = append(missing, "product_id")
	}
	return missing
}
