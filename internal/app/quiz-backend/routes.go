package quizbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/quiz-backend/internal/config"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/feedback"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/profile/results"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/quiz/checkattempt"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/quiz/leaderboard"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/quiz/questions"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/quiz/submit"
	"github.com/magabrotheeeer/quiz-backend/internal/http/handlers/quiz/tests"
	"github.com/magabrotheeeer/quiz-backend/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/quiz-backend/internal/services/auth"
	quizservice "github.com/magabrotheeeer/quiz-backend/internal/services/quiz"
	senderservice "github.com/magabrotheeeer/quiz-backend/internal/services/sender"
)

// RegisterRoutes регистрирует все маршруты приложения.
// Все конечные точки API закрыты статическим ключом приложения,
// включая таблицу лидеров; история профиля дополнительно требует bearer-токен.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, quizService *quizservice.QuizService,
	senderService *senderservice.SenderService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.APIKeyMiddleware(cfg.APIKey, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(logger, authService).ServeHTTP)

		r.Post("/tests", tests.New(logger, quizService).ServeHTTP)
		r.Post("/tests/questions", questions.New(logger, quizService).ServeHTTP)
		r.Post("/tests/check-attempt", checkattempt.New(logger, quizService).ServeHTTP)
		r.Post("/tests/submit", submit.New(logger, quizService).ServeHTTP)
		r.Get("/tests/leaderboard", leaderboard.New(logger, quizService).ServeHTTP)

		r.Post("/feedback", feedback.New(logger, senderService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Post("/profile/results", results.New(logger, quizService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
