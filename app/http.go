package app

import (
	"encoding/json"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler builds the API: shared middleware, then each module's routes
// under /api.
func (app *App) HTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(edgeMiddleware(app.Config.HTTP)...)

	r.Get("/healthz", app.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(app.AuthModule.SessionMiddleware())

		app.AuthModule.Routes(r)
		app.TournamentModule.Routes(r, authhandlers.RequireAdmin)
		app.RoundModule.Routes(r, authhandlers.RequirePlayer, authhandlers.RequireAdmin)
		app.LeaderboardModule.Routes(r, authhandlers.RequireAdmin)
	})
	return r
}

// edgeMiddleware runs ahead of every route. Forwarded client addresses are
// honoured only with TrustProxy, so the limiter cannot be dodged by rotating
// X-Forwarded-For.
func edgeMiddleware(cfg config.HTTPConfig) []func(http.Handler) http.Handler {
	var mw []func(http.Handler) http.Handler
	if cfg.TrustProxy {
		mw = append(mw, chimiddleware.RealIP)
	}
	mw = append(mw,
		chimiddleware.Recoverer,
		authhandlers.CorrelationIDMiddleware,
		authhandlers.CORS(authhandlers.CORSPolicy{
			Origins: cfg.AllowedOrigins,
			Methods: cfg.CORSMethods,
			Headers: cfg.CORSHeaders,
		}),
	)
	if cfg.RateLimit > 0 {
		mw = append(mw, authhandlers.Throttle(authhandlers.NewClientLimiter(cfg.RateLimit, cfg.RateBurst)))
	}
	return mw
}

type healthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	EventBus bool   `json:"event_bus"`
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Database: app.DB != nil && app.DB.PingContext(r.Context()) == nil,
		EventBus: app.EventBus != nil && app.EventBus.Healthy(),
	}
	status := http.StatusOK
	resp.Status = "ok"
	if !resp.Database || !resp.EventBus {
		status = http.StatusServiceUnavailable
		resp.Status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func metricsHandler(obs observability.Observability) http.Handler {
	mux := http.NewServeMux()
	if obs.Provider.Prometheus != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(obs.Provider.Prometheus, promhttp.HandlerOpts{}))
	}
	return mux
}
