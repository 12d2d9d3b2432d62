package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/parlevel/studiogate/modules/account"
	"github.com/parlevel/studiogate/modules/checkout"
	"github.com/parlevel/studiogate/modules/claims"
	"github.com/parlevel/studiogate/modules/payhook"
	"github.com/parlevel/studiogate/pkg/billing"
	"github.com/parlevel/studiogate/pkg/config"
	"github.com/parlevel/studiogate/pkg/guard"
	"github.com/parlevel/studiogate/pkg/httpserver"
	"github.com/parlevel/studiogate/pkg/identity"
	"github.com/parlevel/studiogate/pkg/logger"
	"github.com/parlevel/studiogate/pkg/plans"
	"github.com/parlevel/studiogate/pkg/userstore"
)

type appConfig struct {
	Environment      string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	PlansFile        string     `env:"PLANS_FILE"`
	UnauthorizedPath string     `env:"UNAUTHORIZED_PATH" envDefault:"/unauthorized"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(
		logger.WithService("studiogate"),
		logger.WithEnvironment(appCfg.Environment),
		logger.WithLevel(appCfg.LogLevel),
	)

	if err := run(ctx, appCfg, log); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		httpCfg     httpserver.Config
		mongoCfg    userstore.MongoConfig
		firebaseCfg identity.FirebaseConfig
		stripeCfg   billing.StripeConfig
		checkoutCfg checkout.Config
	)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&firebaseCfg)
	config.MustLoad(&stripeCfg)
	config.MustLoad(&checkoutCfg)

	store, err := userstore.NewMongoStore(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	idp, err := identity.NewFirebaseProvider(ctx, firebaseCfg)
	if err != nil {
		return err
	}

	processor, err := billing.NewStripeProvider(stripeCfg)
	if err != nil {
		return err
	}

	planSource := plans.NewInMemSource(plans.DefaultPlans()...)
	if appCfg.PlansFile != "" {
		planSource = plans.NewYAMLFileSource(appCfg.PlansFile)
	}
	catalog, err := plans.NewCatalog(ctx, planSource)
	if err != nil {
		return err
	}

	// Mirrors role changes from the user store into identity claims.
	propagator := claims.New(ctx, store.Changes(), idp, log)
	defer propagator.Close()

	checkoutSvc := checkout.NewService(catalog, processor, checkoutCfg, log)
	reconciler := payhook.NewReconciler(processor, store, log)
	accountSvc := account.NewService(store, log)
	roleGuard := guard.NewMiddleware(idp, store, appCfg.UnauthorizedPath, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpserver.RequestLogger(log))

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, store.Ping))

	r.Mount("/", checkout.Router(checkoutSvc))
	r.Mount("/webhooks", payhook.Router(reconciler))
	r.Mount("/account", account.Router(accountSvc))
	r.Mount("/admin", account.AdminRouter(accountSvc, roleGuard))

	return httpserver.New(httpCfg, log).Run(ctx, r)
}
