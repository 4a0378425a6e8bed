// Package leaderboard реализует HTTP-обработчик таблицы лидеров.
package leaderboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/quiz-backend/internal/http/response"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
)

// Service описывает интерфейс агрегации таблицы лидеров.
type Service interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// Handler обрабатывает HTTP-запросы таблицы лидеров.
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
	const op = "handlers.quiz.leaderboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// limit опциональный, сервис сам подставит дефолт и обрежет максимум.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error("leaderboard aggregation failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("leaderboard unavailable"))
		return
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}

	render.JSON(w, r, response.OKWithData(entries))
}
