// Package web provides the JSON API surface.
// Stateless design - the session cookie carries a signed token and the
// viewer's subscription status is re-read from the store on every request,
// never trusted from the token itself.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/auth"
	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/ports"
)

// Handler provides the API endpoints.
type Handler struct {
	identity   ports.IdentityProvider
	authSvc    *app.AuthService
	catalogSvc *app.CatalogService
	savedSvc   *app.SavedService
	validation *app.ValidationService
	estimator  *app.EstimatorService
	spinSvc    *app.SpinService
	checkout   *app.CheckoutService
	webhooks   *app.PaymentWebhookService
	metrics    *metrics.Collector
	validate   *validator.Validate
	logger     zerolog.Logger

	cookieSecure bool
	sessionTTL   time.Duration
	metricsPath  string
	docsEnabled  bool
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Identity   ports.IdentityProvider
	Auth       *app.AuthService
	Catalog    *app.CatalogService
	Saved      *app.SavedService
	Validation *app.ValidationService
	Estimator  *app.EstimatorService
	Spin       *app.SpinService
	Checkout   *app.CheckoutService
	Webhooks   *app.PaymentWebhookService
	Metrics    *metrics.Collector
	Logger     zerolog.Logger

	CookieSecure bool
	// SessionTTL is the session token lifetime; the cookie expiry tracks
	// it so a dead token is never carried by a live cookie.
	SessionTTL  time.Duration
	MetricsPath string
	DocsEnabled bool
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	metricsPath := deps.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	sessionTTL := deps.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}

	return &Handler{
		identity:     deps.Identity,
		authSvc:      deps.Auth,
		catalogSvc:   deps.Catalog,
		savedSvc:     deps.Saved,
		validation:   deps.Validation,
		estimator:    deps.Estimator,
		spinSvc:      deps.Spin,
		checkout:     deps.Checkout,
		webhooks:     deps.Webhooks,
		metrics:      deps.Metrics,
		validate:     validator.New(),
		logger:       deps.Logger,
		cookieSecure: deps.CookieSecure,
		sessionTTL:   sessionTTL,
		metricsPath:  metricsPath,
		docsEnabled:  deps.DocsEnabled,
	}
}

// Router returns the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestMetrics)
	r.Use(h.sessionIdentity)

	// Health and observability
	r.Get("/healthz", h.Healthz)
	if h.metrics != nil {
		r.Handle(h.metricsPath, promhttp.Handler())
	}
	if h.docsEnabled {
		h.registerDocs(r)
	}

	// Auth
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)

	// Catalog and saved niches
	r.Route("/api", func(r chi.Router) {
		r.Get("/niches", h.ListNiches)
		r.Get("/niches/{code}", h.GetNiche)
		r.Post("/niches/{code}/save", h.SaveNiche)
		r.Delete("/niches/{code}/save", h.UnsaveNiche)
		r.Get("/saved", h.ListSaved)

		// Free tools
		r.Get("/tools/validate", h.DescribeValidation)
		r.Post("/tools/validate", h.RunValidation)
		r.Post("/tools/estimate", h.RunEstimate)
		r.Post("/tools/roulette/spin", h.Spin)

		// Billing
		r.Post("/checkout", h.StartCheckout)
		r.Post("/portal", h.StartPortal)
	})

	// Payment provider callbacks
	r.Post("/payment-webhooks/{provider}", h.PaymentWebhook)

	return r
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- Middleware -----

// sessionIdentity resolves the viewer identity from the session cookie.
// The identity is resolved fresh on every request; a missing or invalid
// cookie yields an anonymous identity, not an error.
func (h *Handler) sessionIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(auth.SessionCookie); err == nil {
			token = c.Value
		}

		id, err := h.identity.Resolve(r.Context(), token)
		if err != nil {
			h.logger.Error().Err(err).Msg("identity resolution failed")
			writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

func (h *Handler) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		h.metrics.RequestsInFlight.Inc()
		defer h.metrics.RequestsInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Use the route pattern, not the raw path, to keep label
		// cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := strconv.Itoa(ww.Status())
		h.metrics.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		h.metrics.RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}
