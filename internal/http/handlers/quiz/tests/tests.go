// Package tests реализует HTTP-обработчик списка доступных тестов.
package tests

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
)

// Service описывает интерфейс каталога тестов.
type Service interface {
	Tests(ctx context.Context) ([]int, error)
}

// Handler обрабатывает HTTP-запросы списка тестов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quiz.tests"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tests, err := h.service.Tests(r.Context())
	if err != nil {
		log.Error("failed to list tests", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list tests"))
		return
	}
	if tests == nil {
		tests = []int{}
	}

	render.JSON(w, r, response.OKWithData(tests))
}
