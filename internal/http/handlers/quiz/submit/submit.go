// Package submit реализует HTTP-обработчик сохранения результата теста.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
	"github.com/magabrotheeeer/quiz-backend/internal/services/quiz"
)

// Request — входные данные для сохранения результата.
// Момент завершения клиент не присылает: его проставляет сервер.
type Request struct {
	Test  int    `json:"test" validate:"required,gt=0"`
	Score int    `json:"score" validate:"gte=0"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

// Service описывает интерфейс сохранения результата.
type Service interface {
	Submit(ctx context.Context, test, score int, email, name string) (*models.TestResult, error)
}

// Handler обрабатывает HTTP-запросы сохранения результата.
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

// ServeHTTP godoc
// @Summary Сохранение результата теста
// @Description Сохраняет единственную зачтённую попытку пользователя по тесту.
// @Tags Tests
// @Accept  json
// @Produce  json
// @Param request body Request true "Результат попытки"
// @Success 200 {object} response.Response "Сохранённая запись"
// @Failure 409 {object} response.Response "Повторная попытка"
// @Router /tests/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quiz.submit"

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

	result, err := h.service.Submit(r.Context(), req.Test, req.Score, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, quiz.ErrDuplicateAttempt) {
			log.Info("duplicate submission rejected",
				slog.String("email", req.Email), slog.Int("test", req.Test))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("test already submitted"))
			return
		}
		log.Error("submission failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("submission failed"))
		return
	}

	log.Info("result saved",
		slog.String("email", req.Email), slog.Int("test", req.Test), slog.Int("score", req.Score))
	render.JSON(w, r, response.OKWithData(result))
}
