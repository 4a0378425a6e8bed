package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/quiz-backend/internal/models"
)

// CreateUser сохраняет нового пользователя. Возвращает ErrEmailTaken,
// если email уже занят: уникальный индекс по email отсекает гонку
// двух одновременных регистраций.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, name, email, password_hash, dob, role)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Name, user.Email, user.PasswordHash, user.DOB, user.Role); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, dob, reset_code, reset_expires, role
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var resetCode sql.NullString
	var resetExpires sql.NullTime
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash, &u.DOB,
		&resetCode, &resetExpires, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resetCode.Valid {
		u.ResetCode = &resetCode.String
	}
	if resetExpires.Valid {
		u.ResetExpires = &resetExpires.Time
	}
	return u, nil
}

// SetResetCode записывает код восстановления и срок его действия,
// затирая ранее выданный код. Возвращает ErrUserNotFound, если
// пользователя с таким email нет.
func (s *Storage) SetResetCode(ctx context.Context, email, code string, expires time.Time) error {
	const op = "storage.SetResetCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_code = $2, reset_expires = $3
			  WHERE email = $1`
	result, err := s.DB.ExecContext(ctx, query, email, code, expires)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ClearResetCode снимает выданный код восстановления. Используется,
// когда код не удалось доставить: недоставленный код не должен
// оставаться валидным.
func (s *Storage) ClearResetCode(ctx context.Context, email string) error {
	const op = "storage.ClearResetCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_code = NULL, reset_expires = NULL
			  WHERE email = $1`
	if _, err := s.DB.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeResetCode одним атомарным UPDATE заменяет хэш пароля и гасит код:
// строка обновляется только если email, код и срок действия сходятся.
// Возвращает количество обновлённых строк; 0 означает, что код неверен
// или просрочен — эти случаи по условиям задачи неразличимы.
func (s *Storage) ConsumeResetCode(ctx context.Context, email, code, newPasswordHash string) (int, error) {
	const op = "storage.ConsumeResetCode"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $3, reset_code = NULL, reset_expires = NULL
			  WHERE email = $1 AND reset_code = $2 AND reset_expires > now()`
	result, err := s.DB.ExecContext(ctx, query, email, code, newPasswordHash)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
