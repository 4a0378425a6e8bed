package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/quiz-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/quiz-backend/internal/lib/password"
	"github.com/magabrotheeeer/quiz-backend/internal/models"
	"github.com/magabrotheeeer/quiz-backend/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) SetResetCode(ctx context.Context, email, code string, expires time.Time) error {
	return m.Called(ctx, email, code, expires).Error(0)
}
func (m *UsersMock) ClearResetCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *UsersMock) ConsumeResetCode(ctx context.Context, email, code, newPasswordHash string) (int, error) {
	args := m.Called(ctx, email, code, newPasswordHash)
	return args.Int(0), args.Error(1)
}

type SenderMock struct{ mock.Mock }

func (m *SenderMock) SendResetCode(email, code string) error {
	return m.Called(email, code).Error(0)
}

func newService(users *UsersMock, sender *SenderMock) *AuthService {
	maker := jwt.NewJWTMaker("test_secret", 7*24*time.Hour)
	return NewAuthService(users, sender, maker, 10*time.Minute)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{
			name: "successful registration",
		},
		{
			name:    "email already taken",
			repoErr: repository.ErrEmailTaken,
			wantErr: ErrUserExists,
		},
		{
			name:    "storage failure",
			repoErr: errors.New("connection lost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
				// Пароль не должен попадать в хранилище открытым текстом.
				return u.Email == "user@example.com" &&
					u.Role == "user" &&
					u.UID != "" &&
					u.PasswordHash != "secret123" &&
					password.CompareHash(u.PasswordHash, "secret123") == nil
			})).Return(tt.repoErr).Once()

			svc := newService(users, new(SenderMock))
			err := svc.Register(context.Background(), "User", "user@example.com", "secret123", "01-01-1990")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else if tt.repoErr != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "uid-1",
		Name:         "User",
		Email:        "user@example.com",
		PasswordHash: hash,
		DOB:          "01-01-1990",
		Role:         "user",
	}

	tests := []struct {
		name     string
		password string
		repoUser *models.User
		repoErr  error
		wantErr  error
	}{
		{
			name:     "successful login",
			password: "secret123",
			repoUser: storedUser,
		},
		{
			name:     "wrong password",
			password: "wrong",
			repoUser: storedUser,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "secret123",
			repoErr:  repository.ErrUserNotFound,
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			users.On("GetUserByEmail", mock.Anything, "user@example.com").
				Return(tt.repoUser, tt.repoErr).Once()

			svc := newService(users, new(SenderMock))
			token, profile, err := svc.Login(context.Background(), "user@example.com", tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				require.NotNil(t, profile)
				assert.Equal(t, "User", profile.Name)
				assert.Equal(t, "user@example.com", profile.Email)
				assert.Equal(t, "01-01-1990", profile.DOB)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	users := new(UsersMock)
	users.On("GetUserByEmail", mock.Anything, "known@example.com").
		Return(&models.User{Email: "known@example.com", PasswordHash: hash}, nil).Once()
	users.On("GetUserByEmail", mock.Anything, "unknown@example.com").
		Return(nil, repository.ErrUserNotFound).Once()

	svc := newService(users, new(SenderMock))

	_, _, errWrongPassword := svc.Login(context.Background(), "known@example.com", "wrong")
	_, _, errUnknownUser := svc.Login(context.Background(), "unknown@example.com", "secret123")

	assert.Equal(t, errWrongPassword, errUnknownUser)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	storedUser := &models.User{Email: "user@example.com"}

	t.Run("successful issue", func(t *testing.T) {
		users := new(UsersMock)
		sender := new(SenderMock)

		var issuedCode string
		users.On("GetUserByEmail", mock.Anything, "user@example.com").Return(storedUser, nil).Once()
		users.On("SetResetCode", mock.Anything, "user@example.com",
			mock.MatchedBy(func(code string) bool {
				issuedCode = code
				return len(code) == 6
			}),
			mock.MatchedBy(func(expires time.Time) bool {
				return time.Until(expires) > 9*time.Minute && time.Until(expires) <= 10*time.Minute
			})).Return(nil).Once()
		sender.On("SendResetCode", "user@example.com", mock.Anything).Return(nil).Once()

		svc := newService(users, sender)
		require.NoError(t, svc.RequestPasswordReset(context.Background(), "user@example.com"))

		// Отправляется тот же код, что записан в хранилище.
		sender.AssertCalled(t, "SendResetCode", "user@example.com", issuedCode)
		users.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByEmail", mock.Anything, "unknown@example.com").
			Return(nil, repository.ErrUserNotFound).Once()

		svc := newService(users, new(SenderMock))
		err := svc.RequestPasswordReset(context.Background(), "unknown@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("delivery failure clears code", func(t *testing.T) {
		users := new(UsersMock)
		sender := new(SenderMock)

		users.On("GetUserByEmail", mock.Anything, "user@example.com").Return(storedUser, nil).Once()
		users.On("SetResetCode", mock.Anything, "user@example.com", mock.Anything, mock.Anything).
			Return(nil).Once()
		sender.On("SendResetCode", "user@example.com", mock.Anything).
			Return(errors.New("smtp down")).Once()
		users.On("ClearResetCode", mock.Anything, "user@example.com").Return(nil).Once()

		svc := newService(users, sender)
		err := svc.RequestPasswordReset(context.Background(), "user@example.com")
		require.ErrorIs(t, err, ErrDeliveryFailed)
		users.AssertExpectations(t)
		sender.AssertExpectations(t)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int
		repoErr      error
		wantErr      error
	}{
		{
			name:         "successful reset",
			rowsAffected: 1,
		},
		{
			name:         "invalid or expired code",
			rowsAffected: 0,
			wantErr:      ErrInvalidOrExpiredCode,
		},
		{
			name:    "storage failure",
			repoErr: errors.New("connection lost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			users.On("ConsumeResetCode", mock.Anything, "user@example.com", "123456",
				mock.MatchedBy(func(hash string) bool {
					return password.CompareHash(hash, "newpassword") == nil
				})).Return(tt.rowsAffected, tt.repoErr).Once()

			svc := newService(users, new(SenderMock))
			err := svc.ResetPassword(context.Background(), "user@example.com", "123456", "newpassword")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else if tt.repoErr != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	users := new(UsersMock)
	svc := newService(users, new(SenderMock))

	maker := jwt.NewJWTMaker("test_secret", 7*24*time.Hour)
	token, err := maker.GenerateToken("user@example.com", "user", "uid-1")
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "uid-1", user.UID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	require.Error(t, err)
}
