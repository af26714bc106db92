package webhooks

import (
	"context"
	"net/http"

	"github.com/samansa/movie-store/api/responses"
	"github.com/samansa/movie-store/api/validators"
	applewebhook "github.com/samansa/movie-store/internal/webhooks/apple"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
	"github.com/samansa/movie-store/pkg/logger"
)

// AppleIngester applies a platform notification.
type AppleIngester interface {
	Ingest(ctx context.Context, payload applewebhook.Payload) (applewebhook.Outcome, error)
}

// AppleWebhook acknowledges processed and duplicate notifications with 200.
// Unknown transactions answer 404, malformed notifications 400 and store
// failures 503 so the sender retries.
func AppleWebhook(svc AppleIngester, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		var payload applewebhook.Payload
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		outcome, err := svc.Ingest(ctx, payload)
		if outcome.Acknowledged() {
			responses.WriteStatus(w, outcome.String())
			return
		}
		if err == nil {
			err = pkgerrors.New(pkgerrors.CodeInternal, "notification not acknowledged")
		}
		responses.WriteError(ctx, logg, w, err)
	}
}
