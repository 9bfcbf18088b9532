// Package membershipfund собирает приложение фонда: хранилище, миграции,
// сервисы, маршруты и HTTP-сервер с корректным завершением.
package membershipfund

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/membership-fund/internal/config"
	"github.com/magabrotheeeer/membership-fund/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-fund/internal/migrations"
	"github.com/magabrotheeeer/membership-fund/internal/paymentprovider"
	adminservice "github.com/magabrotheeeer/membership-fund/internal/services/admin"
	authservice "github.com/magabrotheeeer/membership-fund/internal/services/auth"
	membershipservice "github.com/magabrotheeeer/membership-fund/internal/services/membership"
	paymentservice "github.com/magabrotheeeer/membership-fund/internal/services/payment"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// App держит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New инициализирует все зависимости приложения и возвращает готовый к запуску App.
// Сид администратора выполняется здесь же, при старте, и идемпотентен.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	provider := paymentprovider.New(cfg.PaymentProvider.KeyID, cfg.PaymentProvider.KeySecret, cfg.PaymentProvider.WebhookSecret)

	authService := authservice.New(db, jwtMaker, logger)
	membershipService := membershipservice.New(db, logger)
	paymentService := paymentservice.New(db, logger)
	adminService := adminservice.New(db, logger)

	if err := authService.EnsureAdmin(ctx, cfg.AdminSeed.Name, cfg.AdminSeed.Email,
		cfg.AdminSeed.Phone, cfg.AdminSeed.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, membershipService, paymentService, adminService, provider)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки сервера.
// При отмене контекста сервер завершается gracefully с таймаутом 15 секунд.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
