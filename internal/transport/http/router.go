package http

import (
	"net/http"

	"github.com/go-api-sql/internal/application/auth"
	"github.com/go-api-sql/internal/application/order"
	"github.com/go-api-sql/internal/application/twofa"
	"github.com/go-api-sql/internal/application/user"
	"github.com/go-api-sql/internal/config"
	"github.com/go-api-sql/internal/transport/http/handler"
	appmiddleware "github.com/go-api-sql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to credential-bearing public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo, cfg.BcryptCost)
	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	twoFASvc := twofa.NewService(deps.UserRepo, deps.TOTPManager)
	orderSvc := order.NewService(deps.OrderRepo)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	authH := handler.NewAuthHandler(authSvc)
	twoFAH := handler.NewTwoFAHandler(twoFASvc)
	orderH := handler.NewOrderHandler(orderSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)

		// 2FA endpoints are keyed by email rather than session token; this
		// mirrors the login-less enrollment contract the API has always had.
		r.With(sensitiveRL.Limit).Post("/2fa/generate", twoFAH.Generate)
		r.With(sensitiveRL.Limit).Post("/2fa/verify", twoFAH.Verify)
		r.Post("/2fa/status", twoFAH.Status)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users", userH.List)
			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Delete("/users/{id}", userH.Delete)
			r.Put("/users/{id}/password", userH.ChangePassword)

			r.Delete("/2fa", twoFAH.Disable)

			r.Get("/orders", orderH.List)
			r.Post("/orders", orderH.Create)
			r.Get("/orders/{id}", orderH.Get)
			r.Put("/orders/{id}", orderH.Update)
			r.Delete("/orders/{id}", orderH.Delete)
		})
	})

	return r
}
