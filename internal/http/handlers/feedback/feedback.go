// Package feedback реализует HTTP-обработчик приёма отзывов пользователей.
package feedback

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
)

// Request — входные данные отзыва.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Feedback string `json:"feedback" validate:"required"`
}

// Service описывает интерфейс пересылки отзыва.
type Service interface {
	SendFeedback(name, email, feedback string) error
}

// Handler обрабатывает HTTP-запросы с отзывами.
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
	const op = "handlers.feedback"

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

	if err := h.service.SendFeedback(req.Name, req.Email, req.Feedback); err != nil {
		log.Error("failed to send feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("email sending failed"))
		return
	}

	log.Info("feedback sent", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
