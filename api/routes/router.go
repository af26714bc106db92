package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samansa/movie-store/api/controllers"
	subscriptioncontrollers "github.com/samansa/movie-store/api/controllers/subscriptions"
	webhookcontrollers "github.com/samansa/movie-store/api/controllers/webhooks"
	"github.com/samansa/movie-store/api/middleware"
	"github.com/samansa/movie-store/internal/ledger"
	subscriptionsvc "github.com/samansa/movie-store/internal/subscriptions"
	"github.com/samansa/movie-store/pkg/config"
	"github.com/samansa/movie-store/pkg/db"
	"github.com/samansa/movie-store/pkg/logger"
	"github.com/samansa/movie-store/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	subscriptionsService subscriptionsvc.Service,
	ledgerService ledger.Service,
	appleWebhookService webhookcontrollers.AppleIngester,
	now func() time.Time,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	deps := map[string]controllers.Pinger{"db": dbP}
	if redisP != nil {
		deps["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	clock := subscriptioncontrollers.Clock(now)
	r.Route("/api", func(r chi.Router) {
		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", subscriptioncontrollers.Provision(subscriptionsService, logg, clock))
			r.Get("/transactions/{transaction_id}/events", subscriptioncontrollers.TransactionEvents(ledgerService, logg))
			r.Get("/{user_id}", subscriptioncontrollers.ListForUser(subscriptionsService, logg, clock))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/apple", webhookcontrollers.AppleWebhook(appleWebhookService, logg))
		})
	})

	return r
}
