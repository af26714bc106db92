package subscriptions

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samansa/movie-store/api/responses"
	"github.com/samansa/movie-store/api/validators"
	"github.com/samansa/movie-store/internal/ledger"
	subsvc "github.com/samansa/movie-store/internal/subscriptions"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
	"github.com/samansa/movie-store/pkg/logger"
)

// Clock returns the instant used to evaluate viewable.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Provision registers a purchase before the platform confirms it. A new row
// answers 201, an existing transaction answers 200 with the stored row.
func Provision(svc subsvc.Service, logg *logger.Logger, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		var payload subsvc.ProvisionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, created, err := svc.Provision(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := subsvc.NewView(sub, clock.now())
		if created {
			responses.WriteSuccessStatus(w, http.StatusCreated, view)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ListForUser returns every subscription owned by the user, newest first.
func ListForUser(svc subsvc.Service, logg *logger.Logger, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, err := validators.RequireIdentifier("user_id", chi.URLParam(r, "user_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subs, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subsvc.NewUserSubscriptions(userID, subs, clock.now()))
	}
}

// TransactionEvents lists the ledger entries recorded for a transaction in
// the order they were applied.
func TransactionEvents(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		transactionID, err := validators.RequireIdentifier("transaction_id", chi.URLParam(r, "transaction_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.ListForTransaction(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger.NewTransactionEvents(transactionID, events))
	}
}
