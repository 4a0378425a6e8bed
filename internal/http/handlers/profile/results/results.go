// Package results реализует HTTP-обработчик истории результатов пользователя.
// Маршрут защищён bearer-токеном: историю можно смотреть только свою.
package results

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/quiz-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
)

// Request — входные данные запроса истории.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс истории результатов.
type Service interface {
	ProfileResults(ctx context.Context, email string) ([]*models.TestResult, error)
}

// Handler обрабатывает HTTP-запросы истории результатов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.results"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tokenEmail, _ := r.Context().Value(middlewarectx.UserEmail).(string)
	if tokenEmail != req.Email {
		log.Info("profile access denied",
			slog.String("token_email", tokenEmail), slog.String("requested", req.Email))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	results, err := h.service.ProfileResults(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to list results", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list results"))
		return
	}
	if results == nil {
		results = []*models.TestResult{}
	}

	render.JSON(w, r, response.OKWithData(results))
}
