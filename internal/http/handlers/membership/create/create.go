// Package create реализует HTTP-обработчик для начала нового членства.
//
// Handler принимает JSON-запрос с планом, валидирует его, извлекает пользователя
// из контекста, создаёт членство в статусе pending через сервис и возвращает
// идентификатор членства вместе с публичным ключом шлюза — оплату клиент
// завершает напрямую со шлюзом.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// Service описывает интерфейс бизнес-логики создания членства.
type Service interface {
	Create(ctx context.Context, user *models.User, req models.CreateMembershipRequest) (*models.Membership, error)
}

// KeySource отдаёт публичный ключ платёжного шлюза.
type KeySource interface {
	KeyID() string
}

// Handler управляет HTTP-запросами на создание членства.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики членства
	provider KeySource           // Реквизиты платёжного шлюза
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером, сервисом и реквизитами шлюза.
func New(log *slog.Logger, service Service, provider KeySource) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		provider: provider,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Начать новое членство
// @Description Создает членство в статусе pending и возвращает данные для оплаты.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param request body models.CreateMembershipRequest true "План членства"
// @Success 200 {object} map[string]any "Членство создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Уже есть живое членство"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании членства"
// @Security BearerAuth
// @Router /memberships/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	m, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateMembership) {
			log.Error("duplicate live membership", slog.String("user_id", user.ID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("you already have an active membership"))
			return
		}
		log.Error("failed to create membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(fmt.Sprintf("failed to create membership: %s", err)))
		return
	}

	log.Info("membership created", slog.String("membership_id", m.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"membership_id": m.ID,
		"provider_key":  h.provider.KeyID(),
		"plan_name":     m.PlanName,
		"amount":        m.PlanAmount,
	}))
}
