// Package checkattempt реализует HTTP-обработчик проверки, сдавал ли
// пользователь указанный тест.
package checkattempt

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
)

// Request — входные данные проверки попытки.
type Request struct {
	Test  int    `json:"test" validate:"required,gt=0"`
	Email string `json:"email" validate:"required,email"`
}

// Response — ответ с признаком наличия попытки.
type Response struct {
	Success   bool `json:"success"`
	Attempted bool `json:"attempted"`
}

// Service описывает интерфейс проверки попытки.
type Service interface {
	HasAttempted(ctx context.Context, email string, test int) (bool, error)
}

// Handler обрабатывает HTTP-запросы проверки попытки.
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
	const op = "handlers.quiz.checkattempt"

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

	attempted, err := h.service.HasAttempted(r.Context(), req.Email, req.Test)
	if err != nil {
		log.Error("attempt check failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("attempt check failed"))
		return
	}

	render.JSON(w, r, Response{
		Success:   true,
		Attempted: attempted,
	})
}
