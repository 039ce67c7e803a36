package http

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps is everything NewRouter mounts.
type RouterDeps struct {
	Logger     *slog.Logger
	Verifier   domain.TokenVerifier
	Blacklist  domain.TokenBlacklist
	Auth       *controllers.AuthController
	Events     *controllers.EventController
	Tickets    *controllers.TicketController
	Catalog    []*controllers.CatalogController
	Prelegents *controllers.PrelegentController
	Users      *controllers.UserController
	Health     *controllers.HealthController
	// Metrics serves the prometheus exposition; nil leaves /metrics unmounted.
	Metrics http.Handler
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(d.Verifier, d.Blacklist, d.Logger)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdministrator)(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)
	mux.HandleFunc("POST /auth/logout", authed(d.Auth.Logout))

	// Events
	mux.HandleFunc("GET /events", authed(d.Events.ListEvents))
	mux.HandleFunc("GET /events/{id}", authed(d.Events.GetEvent))
	mux.HandleFunc("POST /events", admin(d.Events.CreateEvent))
	mux.HandleFunc("PUT /events/{id}", admin(d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", admin(d.Events.DeleteEvent))

	// Tickets
	mux.HandleFunc("GET /tickets", authed(d.Tickets.ListMyTickets))
	mux.HandleFunc("GET /tickets/{id}", authed(d.Tickets.GetTicket))
	mux.HandleFunc("POST /tickets", authed(d.Tickets.CreateTicket))
	mux.HandleFunc("DELETE /tickets/{id}", authed(d.Tickets.DeleteTicket))

	// Catalog: one collection per kind
	for _, c := range d.Catalog {
		base := "/" + c.Kind.Plural()
		mux.HandleFunc("GET "+base, authed(c.List))
		mux.HandleFunc("GET "+base+"/{id}", authed(c.Get))
		mux.HandleFunc("POST "+base, admin(c.Create))
		mux.HandleFunc("DELETE "+base+"/{id}", admin(c.Delete))
	}

	// Prelegents
	mux.HandleFunc("GET /prelegents", authed(d.Prelegents.List))
	mux.HandleFunc("GET /prelegents/{id}", authed(d.Prelegents.Get))
	mux.HandleFunc("POST /prelegents", admin(d.Prelegents.Create))
	mux.HandleFunc("DELETE /prelegents/{id}", admin(d.Prelegents.Delete))

	// Users
	mux.HandleFunc("GET /users/me", authed(d.Users.GetMe))
	mux.HandleFunc("GET /users", admin(d.Users.ListUsers))
	mux.HandleFunc("GET /users/{id}", admin(d.Users.GetUser))
	mux.HandleFunc("DELETE /users/{id}", admin(d.Users.DeleteUser))

	// Ops
	mux.HandleFunc("GET /health", d.Health.Check)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Chain wraps the router with the global middleware, outermost first:
// logging, CORS, rate limiting, then metrics around the mux.
func Chain(mux http.Handler, logger *slog.Logger, allowedOrigins []string, limiter *middleware.RateLimiter, m *metrics.Metrics) http.Handler {
	var h http.Handler = mux
	if m != nil {
		h = middleware.Metrics(m, mux)
	}
	if limiter != nil {
		h = limiter.Middleware(h)
	}
	h = middleware.CORS(allowedOrigins, h)
	return middleware.LoggingMiddleware(logger, h)
}
