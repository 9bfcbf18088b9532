// Package membershipfund предоставляет маршруты для основного приложения.
package membershipfund

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/admin/exportcsv"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/admin/members"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/admin/stats"
	admintransactions "github.com/magabrotheeeer/membership-fund/internal/http/handlers/admin/transactions"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/health"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/membership/cancel"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/membership/confirm"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/membership/create"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/membership/mymembership"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/payment/paymenthistory"
	"github.com/magabrotheeeer/membership-fund/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/paymentprovider"
	adminservice "github.com/magabrotheeeer/membership-fund/internal/services/admin"
	authservice "github.com/magabrotheeeer/membership-fund/internal/services/auth"
	membershipservice "github.com/magabrotheeeer/membership-fund/internal/services/membership"
	paymentservice "github.com/magabrotheeeer/membership-fund/internal/services/payment"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *storage.Storage,
	authService *authservice.Service, membershipService *membershipservice.Service,
	paymentService *paymentservice.Service, adminService *adminservice.Service,
	provider *paymentprovider.Provider) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Вебхук аутентифицируется подписью, а не JWT
		r.Post("/payments/webhook", paymentwebhook.New(logger, paymentService, provider).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Get("/auth/me", me.New(logger).ServeHTTP)

			r.Post("/memberships/create", create.New(logger, membershipService, provider).ServeHTTP)
			r.Post("/memberships/confirm", confirm.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/my-membership", mymembership.New(logger, membershipService).ServeHTTP)
			r.Post("/memberships/cancel", cancel.New(logger, membershipService).ServeHTTP)

			r.Get("/payments/history", paymenthistory.New(logger, paymentService).ServeHTTP)

			// Группа только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Get("/admin/stats", stats.New(logger, adminService).ServeHTTP)
				r.Get("/admin/members", members.New(logger, adminService).ServeHTTP)
				r.Get("/admin/transactions", admintransactions.New(logger, adminService).ServeHTTP)
				r.Get("/admin/export-csv", exportcsv.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
