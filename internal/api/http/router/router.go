package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/vidtube-server/internal/api/http/handler"
	"github.com/dtroode/vidtube-server/internal/api/http/middleware"
	"github.com/dtroode/vidtube-server/internal/api/http/response"
	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/metrics"
	"github.com/dtroode/vidtube-server/internal/model"
)

// UsersPrefix is where the users API is mounted.
const UsersPrefix = "/api/v1/users"

// AuthService is the session service together with access token resolution
// used by the authentication middleware.
type AuthService interface {
	handler.AuthService
	middleware.Authenticator
}

// Options configure the router.
type Options struct {
	Handler    handler.Options
	CORSOrigin string
}

// Router represents the HTTP router of the users API.
// It wires handlers to routes and applies the middleware chain.
type Router struct {
	authService    AuthService
	accountService handler.AccountService
	channelService handler.ChannelService
	contextManager model.ContextManager
	healthChecks   []handler.HealthCheck
	opts           Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - authService: The session lifecycle service
//   - accountService: The profile update service
//   - channelService: The channel and watch history query service
//   - contextManager: Carries the authenticated user through requests
//   - opts: Upload, cookie and CORS settings
//   - logger: The logger for request logging
//   - healthChecks: Dependencies probed by the readiness endpoint
//
// Returns a pointer to the newly created Router instance.
func New(
	authService AuthService,
	accountService handler.AccountService,
	channelService handler.ChannelService,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
	healthChecks ...handler.HealthCheck,
) *Router {
	return &Router{
		authService:    authService,
		accountService: accountService,
		channelService: channelService,
		contextManager: contextManager,
		healthChecks:   healthChecks,
		opts:           opts,
		logger:         logger,
	}
}

// Register builds the route tree.
//
// Returns the root handler to be served.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	recoverer := middleware.NewRecover(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handler)
	mux.Use(metrics.Middleware)
	mux.Use(recoverer.Handler)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(r.opts.CORSOrigin),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.NotFound(r.notFound)
	mux.MethodNotAllowed(r.methodNotAllowed)

	health := handler.NewHealth(r.logger, r.healthChecks...)
	mux.Get("/healthz", health.Healthz)
	mux.Get("/readyz", health.Readyz)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route(UsersPrefix, func(users chi.Router) {
		r.registerAuthRoutes(users, authenticate)
		r.registerAccountRoutes(users, authenticate)
		r.registerChannelRoutes(users, authenticate)
	})

	return mux
}

func (r *Router) registerAuthRoutes(users chi.Router, authenticate *middleware.Authenticate) {
	auth := handler.NewAuth(r.authService, r.contextManager, handler.NewValidator(), r.opts.Handler, r.logger)

	users.Post("/register", auth.Register)
	users.Post("/login", auth.Login)
	users.Post("/refresh-token", auth.RefreshToken)

	users.Group(func(private chi.Router) {
		private.Use(authenticate.Handler)
		private.Post("/logout", auth.Logout)
		private.Post("/change-password", auth.ChangePassword)
		private.Get("/current-user", auth.CurrentUser)
	})
}

func (r *Router) registerAccountRoutes(users chi.Router, authenticate *middleware.Authenticate) {
	account := handler.NewAccount(r.accountService, r.contextManager, handler.NewValidator(), r.opts.Handler, r.logger)

	users.Group(func(private chi.Router) {
		private.Use(authenticate.Handler)
		private.Patch("/update-account", account.UpdateAccount)
		private.Patch("/update-avatar", account.UpdateAvatar)
		private.Patch("/update-coverImage", account.UpdateCoverImage)
	})
}

func (r *Router) registerChannelRoutes(users chi.Router, authenticate *middleware.Authenticate) {
	channel := handler.NewChannel(r.channelService, r.contextManager, r.logger)

	users.Group(func(private chi.Router) {
		private.Use(authenticate.Handler)
		private.Get("/c/{username}", channel.ChannelProfile)
		private.Get("/history", channel.WatchHistory)
	})
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, logger.FromContext(req.Context(), r.logger), http.StatusNotFound, response.ErrorEnvelope{
		StatusCode: http.StatusNotFound,
		Message:    "Route not found",
	})
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, logger.FromContext(req.Context(), r.logger), http.StatusMethodNotAllowed, response.ErrorEnvelope{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method not allowed",
	})
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
