// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/auth"
	"github.com/nicheshunter/nicheshunter/adapters/clock"
	"github.com/nicheshunter/nicheshunter/adapters/hasher"
	"github.com/nicheshunter/nicheshunter/adapters/identity"
	"github.com/nicheshunter/nicheshunter/adapters/idgen"
	"github.com/nicheshunter/nicheshunter/adapters/llm"
	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/adapters/payment"
	"github.com/nicheshunter/nicheshunter/adapters/sqlite"
	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/config"
	"github.com/nicheshunter/nicheshunter/domain/spin"
	"github.com/nicheshunter/nicheshunter/domain/validate"
	"github.com/nicheshunter/nicheshunter/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	holder *config.Holder

	// Services with settings that apply on config reload.
	spinSvc    *app.SpinService
	validation *app.ValidationService
	estimator  *app.EstimatorService
}

// New creates and initializes the application from a loaded config.
func New(cfg *config.Config) (*App, error) {
	return build(cfg, nil)
}

// NewWithHotReload creates the application with a config file watcher.
// Reloadable settings (tool limits, log level) apply on SIGHUP or file
// change; the rest require a restart.
func NewWithHotReload(path string) (*App, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}

	a, err := build(holder.Get(), holder)
	if err != nil {
		return nil, err
	}

	// Watching starts only after build registered the reload callbacks,
	// so no change can slip past them.
	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

func build(cfg *config.Config, holder *config.Holder) (*App, error) {
	logger := setupLogger(cfg.Logging)

	logger.Info().Msg("initializing nicheshunter")

	a := &App{Logger: logger, holder: holder}

	// Database
	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	a.DB = db

	users := sqlite.NewUserStore(db)
	catalogStore := sqlite.NewCatalogStore(db)
	saved := sqlite.NewSavedNicheStore(db)
	subs := sqlite.NewSubscriptionStore(db)

	// Metrics
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	// Sessions and identity
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	resolver := identity.NewResolver(tokens, users, logger)

	// Payment provider
	provider, err := payment.NewProvider(cfg.Billing.Mode, payment.StripeConfig{
		SecretKey:     cfg.Billing.StripeSecretKey,
		PublicKey:     cfg.Billing.StripePublicKey,
		WebhookSecret: cfg.Billing.StripeWebhookSecret,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("payment provider: %w", err)
	}
	logger.Info().Str("provider", provider.Name()).Msg("payment provider configured")

	// Idea validator
	validator := llm.NewValidator(llm.Config{
		BaseURL: cfg.Validator.URL,
		APIKey:  cfg.Validator.APIKey,
		Timeout: cfg.Validator.Timeout,
	})

	estimator, err := app.NewEstimatorService(
		cfg.Tools.EstimatorAdjustLow, cfg.Tools.EstimatorAdjustHigh, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("estimator: %w", err)
	}

	ids := idgen.UUID{}
	clk := clock.Real{}
	pwHasher := hasher.NewBcrypt(cfg.Auth.BcryptCost)

	a.estimator = estimator
	a.validation = app.NewValidationService(validator, validate.NewGate(cfg.Tools.FreeValidSteps), a.Metrics, logger)
	a.spinSvc = app.NewSpinService(catalogStore, spinLimiter(cfg.Tools), a.Metrics, logger)

	handler := web.NewHandler(web.Deps{
		Identity:   resolver,
		Auth:       app.NewAuthService(users, pwHasher, tokens, ids, clk, logger),
		Catalog:    app.NewCatalogService(catalogStore, a.Metrics, logger),
		Saved:      app.NewSavedService(catalogStore, saved, a.Metrics, logger),
		Validation: a.validation,
		Estimator:  a.estimator,
		Spin:       a.spinSvc,
		Checkout:   app.NewCheckoutService(users, provider, cfg.Billing.PriceID, cfg.Server.BaseURL, a.Metrics, logger),
		Webhooks:   app.NewPaymentWebhookService(users, subs, provider, ids, clk, a.Metrics, logger),
		Metrics:    a.Metrics,
		Logger:     logger,

		CookieSecure: strings.HasPrefix(cfg.Server.BaseURL, "https://"),
		SessionTTL:   cfg.Auth.SessionTTL,
		MetricsPath:  cfg.Metrics.Path,
		DocsEnabled:  cfg.OpenAPI.Enabled,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if holder != nil {
		holder.OnChange(a.applyReloadableConfig)
		holder.OnReloadError(func() {
			if a.Metrics != nil {
				a.Metrics.ConfigReloadErrors.Inc()
			}
		})
	}

	return a, nil
}

// applyReloadableConfig pushes the reloadable settings into the running
// services. Everything listed by config.ReloadableFields is handled here.
func (a *App) applyReloadableConfig(next *config.Config) {
	applyLogLevel(next.Logging.Level)

	a.spinSvc.SetLimiter(spinLimiter(next.Tools))
	a.validation.SetGate(validate.NewGate(next.Tools.FreeValidSteps))
	if err := a.estimator.SetAdjustments(next.Tools.EstimatorAdjustLow, next.Tools.EstimatorAdjustHigh); err != nil {
		a.Logger.Warn().Err(err).Msg("estimator adjustments kept from previous config")
	}

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
	}
}

func spinLimiter(tools config.ToolsConfig) spin.Limiter {
	limiter := spin.NewLimiter(tools.SpinLimit)
	if tools.SpinReset != "" {
		limiter.ResetPolicy = tools.SpinReset
	}
	return limiter
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	applyLogLevel(cfg.Level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func applyLogLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
