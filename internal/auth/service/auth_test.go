package service

import (
	"context"
	"errors"
	"testing"
	"time"

	userserrors "tourbook/internal/users/errors"
	"tourbook/pkg/client"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/logger"
	"tourbook/pkg/model"
	"tourbook/pkg/query"
	"tourbook/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	updateFn      func(ctx context.Context, id string, fields bson.M) (*model.User, error)
}

func (m *mockUserRepo) Create(context.Context, *model.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, id string, fields bson.M) (*model.User, error) {
	return m.updateFn(ctx, id, fields)
}

func (m *mockUserRepo) List(context.Context, map[string]string) ([]bson.M, query.Meta, error) {
	return nil, query.Meta{}, errors.New("not implemented")
}

func (m *mockUserRepo) EnsureIndexes(context.Context) error { return nil }

func authConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:   "access-secret",
		JWTRefreshSecret:  "refresh-secret",
		JWTAccessExpires:  time.Minute,
		JWTRefreshExpires: time.Hour,
		BcryptCost:        bcrypt.MinCost,
		Log:               logger.New(logger.Config{Level: "error", Format: "text"}),
		Client:            client.NewClient(),
	}
}

func activeUser(password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		ID:       "507f1f77bcf86cd799439011",
		Name:     "Asha Rahman",
		Email:    "asha@example.com",
		Password: string(hash),
		Role:     model.RoleUser,
		IsActive: model.UserActive,
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := activeUser("password123")
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) { return user, nil },
	}

	svc := NewAuthService(repo, authConfig())
	pair, err := svc.Login(context.Background(), "asha@example.com", "password123")

	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := token.Parse("access-secret", pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) {
			return activeUser("password123"), nil
		},
	}

	svc := NewAuthService(repo, authConfig())
	_, err := svc.Login(context.Background(), "asha@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.AsAppError(err).Code)
}

func TestLoginUnknownEmailIsIndistinguishable(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}

	svc := NewAuthService(repo, authConfig())
	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.AsAppError(err).Code)
}

func TestLoginBlockedAccount(t *testing.T) {
	user := activeUser("password123")
	user.IsActive = model.UserBlocked
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) { return user, nil },
	}

	svc := NewAuthService(repo, authConfig())
	_, err := svc.Login(context.Background(), user.Email, "password123")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.AsAppError(err).Code)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	user := activeUser("password123")
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) { return user, nil },
		findByIDFn:    func(context.Context, string) (*model.User, error) { return user, nil },
	}

	svc := NewAuthService(repo, authConfig())
	pair, err := svc.Login(context.Background(), user.Email, "password123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	user := activeUser("password123")
	repo := &mockUserRepo{
		findByEmailFn: func(context.Context, string) (*model.User, error) { return user, nil },
		findByIDFn:    func(context.Context, string) (*model.User, error) { return user, nil },
	}

	svc := NewAuthService(repo, authConfig())
	pair, err := svc.Login(context.Background(), user.Email, "password123")
	require.NoError(t, err)

	// access tokens are signed with a different secret
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.AsAppError(err).Code)
}

func TestChangePassword(t *testing.T) {
	user := activeUser("oldpassword")
	var updated bson.M
	repo := &mockUserRepo{
		findByIDFn: func(context.Context, string) (*model.User, error) { return user, nil },
		updateFn: func(_ context.Context, _ string, fields bson.M) (*model.User, error) {
			updated = fields
			return user, nil
		},
	}

	svc := NewAuthService(repo, authConfig())
	err := svc.ChangePassword(context.Background(), user.ID, "oldpassword", "newpassword")

	require.NoError(t, err)
	require.Contains(t, updated, "password")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated["password"].(string)), []byte("newpassword")))
}

func TestChangePasswordWrongOld(t *testing.T) {
	user := activeUser("oldpassword")
	repo := &mockUserRepo{
		findByIDFn: func(context.Context, string) (*model.User, error) { return user, nil },
	}

	svc := NewAuthService(repo, authConfig())
	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpassword")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.AsAppError(err).Code)
}

func TestOTPWithoutRedis(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, authConfig())

	err := svc.SendOTP(context.Background(), "asha@example.com")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.AsAppError(err).Code)

	err = svc.VerifyOTP(context.Background(), "asha@example.com", "123456")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.AsAppError(err).Code)
}
