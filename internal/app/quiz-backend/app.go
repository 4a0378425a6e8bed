// Package quizbackend собирает приложение: хранилище, миграции, кэш,
// сервисы, маршруты и HTTP сервер с graceful shutdown.
package quizbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/quiz-backend/internal/cache"
	"github.com/magabrotheeeer/quiz-backend/internal/config"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/quiz-backend/internal/migrations"
	authservice "github.com/magabrotheeeer/quiz-backend/internal/services/auth"
	quizservice "github.com/magabrotheeeer/quiz-backend/internal/services/quiz"
	senderservice "github.com/magabrotheeeer/quiz-backend/internal/services/sender"
	"github.com/magabrotheeeer/quiz-backend/internal/storage/repository"
)

// App агрегирует долгоживущие зависимости приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует все зависимости и возвращает готовое к запуску приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)
	authService := authservice.NewAuthService(db, senderService, jwtMaker, cfg.CodeTTL)
	quizService := quizservice.NewQuizService(db, db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, quizService, senderService)

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
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP сервер и останавливает его по отмене контекста.
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
		_ = a.db.DB.Close()
		return err
	}
}
