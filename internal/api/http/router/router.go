package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scholarly/auth-server/internal/api/http/handler"
	"github.com/scholarly/auth-server/internal/api/http/middleware"
	"github.com/scholarly/auth-server/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router assembles the HTTP routes and middleware chain.
type Router struct {
	authHandler  *handler.Auth
	authenticate *middleware.Authenticate
	rateLimit    *middleware.RateLimit
	logging      *middleware.Logging
	pinger       Pinger
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(
	authHandler *handler.Auth,
	authenticate *middleware.Authenticate,
	rateLimit *middleware.RateLimit,
	logging *middleware.Logging,
	pinger Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:  authHandler,
		authenticate: authenticate,
		rateLimit:    rateLimit,
		logging:      logging,
		pinger:       pinger,
		logger:       logger,
	}
}

// Handler builds the route tree. Every route passes through logging
// and the rate limiter; logout additionally requires a valid access
// token.
func (r *Router) Handler() http.Handler {
	root := mux.NewRouter()
	root.Use(r.logging.Handle)
	root.Use(r.rateLimit.Handle)

	root.HandleFunc("/healthz", r.healthz).Methods(http.MethodGet)

	auth := root.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.authHandler.Refresh).Methods(http.MethodPost)

	protected := root.PathPrefix("/api/auth").Subrouter()
	protected.Use(r.authenticate.Handle)
	protected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	return root
}

func (r *Router) healthz(w http.ResponseWriter, req *http.Request) {
	if err := r.pinger.Ping(req.Context()); err != nil {
		r.logger.Error("Router: health check failed", "error", err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
