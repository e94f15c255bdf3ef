package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"google.golang.org/grpc"

	"github.com/tair/allergy-scan/config"
	"github.com/tair/allergy-scan/internal/allergen"
	carthttp "github.com/tair/allergy-scan/internal/cart/delivery/http"
	cartstore "github.com/tair/allergy-scan/internal/cart/store"
	chathttp "github.com/tair/allergy-scan/internal/chat/delivery/http"
	"github.com/tair/allergy-scan/internal/health"
	historyhttp "github.com/tair/allergy-scan/internal/history/delivery/http"
	producthttp "github.com/tair/allergy-scan/internal/product/delivery/http"
	profilehttp "github.com/tair/allergy-scan/internal/profile/delivery/http"
	profilestore "github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/pkg/auth"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups the HTTP delivery handlers
type Handlers struct {
	Product *producthttp.ProductHandler
	Profile *profilehttp.ProfileHandler
	Cart    *carthttp.CartHandler
	Chat    *chathttp.ChatHandler
	History *historyhttp.HistoryHandler
}

// NewHandlers creates the handler group
func NewHandlers(
	product *producthttp.ProductHandler,
	profile *profilehttp.ProfileHandler,
	cart *carthttp.CartHandler,
	chat *chathttp.ChatHandler,
	history *historyhttp.HistoryHandler,
) *Handlers {
	return &Handlers{Product: product, Profile: profile, Cart: cart, Chat: chat, History: history}
}

// App is the running allergyscan service. It owns the shared stores that
// every handler reads and writes.
type App struct {
	cfg      *config.Config
	infra    *Infrastructure
	auth     *auth.Authenticator
	checker  *health.Checker
	handlers *Handlers
	profiles *profilestore.Store
	cart     *cartstore.Store
	watcher  *allergen.Watcher

	router *mux.Router
	http   *http.Server
	grpc   *grpc.Server
}

// NewApp assembles the service
func NewApp(
	cfg *config.Config,
	infra *Infrastructure,
	authenticator *auth.Authenticator,
	checker *health.Checker,
	handlers *Handlers,
	profiles *profilestore.Store,
	cart *cartstore.Store,
	watcher *allergen.Watcher,
) *App {
	a := &App{
		cfg:      cfg,
		infra:    infra,
		auth:     authenticator,
		checker:  checker,
		handlers: handlers,
		profiles: profiles,
		cart:     cart,
		watcher:  watcher,
	}
	a.router = a.buildRouter()
	return a
}

// Router returns the HTTP routes
func (a *App) Router() *mux.Router {
	return a.router
}

func (a *App) buildRouter() *mux.Router {
	router := mux.NewRouter()

	httpx.RegisterMiddlewares(router, httpx.MiddlewareConfig{
		EnableLogging: true,
		EnableTracing: a.cfg.TracingEnabled,
	})

	protect := a.auth.Middleware
	a.handlers.Product.RegisterRoutes(router, protect)
	a.handlers.Profile.RegisterRoutes(router, protect)
	a.handlers.Cart.RegisterRoutes(router, protect)
	a.handlers.Chat.RegisterRoutes(router, protect)
	a.handlers.History.RegisterRoutes(router)

	router.HandleFunc("/auth/token", a.auth.SignInHandler).Methods("POST")
	a.checker.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return router
}

// Load reads the persisted profile, family list and cart. It runs once
// before serving.
func (a *App) Load(ctx context.Context) error {
	if err := a.profiles.Load(ctx); err != nil {
		return err
	}
	return a.cart.Load(ctx)
}

// Run serves HTTP and gRPC until ctx is cancelled, then shuts down
func (a *App) Run(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}

	if a.watcher != nil {
		go a.watcher.Watch()
	}
	if a.infra.Consumer != nil {
		go func() {
			if err := a.infra.Consumer.Start(ctx); err != nil {
				logger.Logger.Error().Err(err).Msg("Kafka consumer stopped")
			}
		}()
	}

	// Publish an initial status before the first probe arrives
	a.checker.CheckAll(ctx)

	a.grpc = health.NewGRPCServer(a.checker)
	go func() {
		if err := health.ServeGRPC(a.grpc, a.cfg.GRPCPort); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	a.http = &http.Server{
		Addr:              ":" + a.cfg.HTTPPort,
		Handler:           c.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", a.cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Bool("auth_enabled", a.auth.Enabled()).
			Strs("health_checks", a.checker.Names()).
			Msg("HTTP server started")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	a.Shutdown()
	return err
}

// Shutdown stops the servers, waits for queued state writes and closes
// connections
func (a *App) Shutdown() {
	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.checker.Shutdown()
	if a.http != nil {
		if err := a.http.Shutdown(ctx); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}
	if a.grpc != nil {
		a.grpc.GracefulStop()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}

	if err := a.profiles.Flush(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Profile writes still pending at shutdown")
	}
	if err := a.cart.Flush(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Cart writes still pending at shutdown")
	}
	a.profiles.Close()
	a.cart.Close()

	a.infra.Close()
}
