// Package auth содержит бизнес-логику регистрации, входа и восстановления
// пароля по одноразовому коду.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/quiz-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/otp"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/password"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
	"github.com/magabrotheeeer/quiz-backend/internal/storage/repository"
)

// Ошибки бизнес-уровня. Для неизвестного email и неверного пароля
// возвращается одна и та же ошибка, чтобы нельзя было перебором выяснить,
// какие адреса зарегистрированы. Для неверного и просроченного кода — тоже.
var (
	// ErrUserExists пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound пользователь с таким email отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredCode код восстановления неверен или просрочен.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	// ErrDeliveryFailed код не удалось доставить пользователю.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetResetCode(ctx context.Context, email, code string, expires time.Time) error
	ClearResetCode(ctx context.Context, email string) error
	ConsumeResetCode(ctx context.Context, email, code, newPasswordHash string) (int, error)
}

// CodeSender описывает канал доставки кода восстановления.
type CodeSender interface {
	SendResetCode(email, code string) error
}

// AuthService отвечает за регистрацию, авторизацию и восстановление пароля.
type AuthService struct {
	users    UserRepository
	sender   CodeSender
	jwtMaker jwt.Maker
	codeTTL  time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sender CodeSender, jwtMaker jwt.Maker, codeTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sender:   sender,
		jwtMaker: jwtMaker,
		codeTTL:  codeTTL,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, dob string) error {
	const op = "auth.Register"
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		DOB:          dob,
		Role:         "user", // дефолтная роль при регистрации
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrUserExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Возвращает токен и публичный профиль пользователя.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.PublicUser, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	profile := user.PublicProfile()
	return token, &profile, nil
}

// RequestPasswordReset выдает пользователю одноразовый код восстановления
// и отправляет его на зарегистрированный адрес. Новый код затирает предыдущий.
// Если письмо не ушло, код гасится и операция завершается ErrDeliveryFailed:
// недоставленный код не должен считаться выданным.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.RequestPasswordReset"
	if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	code, err := otp.NewCode()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	expires := time.Now().UTC().Add(s.codeTTL)
	if err := s.users.SetResetCode(ctx, email, code, expires); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sender.SendResetCode(email, code); err != nil {
		_ = s.users.ClearResetCode(ctx, email)
		return ErrDeliveryFailed
	}
	return nil
}

// ResetPassword гасит код восстановления и устанавливает новый пароль.
// Проверка кода и срока его действия выполняется одним условным UPDATE в базе,
// поэтому код можно употребить ровно один раз даже при конкурентных запросах.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	const op = "auth.ResetPassword"
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := s.users.ConsumeResetCode(ctx, email, code, hashed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrInvalidOrExpiredCode
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Email: claims.Email,
		Role:  claims.Role,
		UID:   claims.UserUID,
	}, nil
}
