package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	userserrors "tourbook/internal/users/errors"
	userrepo "tourbook/internal/users/repository"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/model"
	"tourbook/pkg/token"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const otpKeyPrefix = "otp:"

// TokenPair is the login and refresh response body.
type TokenPair struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
}

type authService struct {
	userRepo userrepo.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo userrepo.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if user.IsDeleted {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if user.IsActive == model.UserBlocked {
		return nil, apperrors.Forbidden("Account is blocked")
	}
	if user.IsActive == model.UserInactive {
		return nil, apperrors.Forbidden("Account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.cfg.Log.Warn("Login attempt with wrong password", "email", email)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "email", user.Email)
	pair.User = user
	return pair, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// user record is re-read so revoked or blocked accounts stop refreshing.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("Refresh token is required")
	}

	claims, err := token.Parse(s.cfg.JWTRefreshSecret, refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}
	if user.IsDeleted || user.IsActive != model.UserActive {
		return nil, apperrors.Forbidden("Account is not active")
	}

	return s.issueTokens(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if oldPassword == "" || newPassword == "" {
		return apperrors.InvalidInput("Old and new passwords are required")
	}
	if len(newPassword) < 8 {
		return apperrors.InvalidInput("New password must be at least 8 characters")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		return apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.Unauthorized("Old password does not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}

	if _, err := s.userRepo.Update(ctx, userID, bson.M{"password": string(hash)}); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}

	s.cfg.Log.Info("Password changed", "id", userID)
	return nil
}

// SendOTP stores a short-lived verification code in Redis keyed by email.
// Delivery is handled out of band; the code is only logged at debug level.
func (s *authService) SendOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("Email is required")
	}
	rdb := s.cfg.Client.Redis
	if rdb == nil {
		return apperrors.Unavailable("OTP service")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal("Failed to look up user", err)
	}
	if user.IsVerified {
		return apperrors.InvalidState("Account is already verified")
	}

	code, err := generateOTP()
	if err != nil {
		return apperrors.Internal("Failed to generate OTP", err)
	}

	if err := rdb.Set(ctx, otpKeyPrefix+email, code, s.cfg.OTPTTL).Err(); err != nil {
		return apperrors.Internal("Failed to store OTP", err)
	}

	s.cfg.Log.Info("OTP issued", "email", email, "ttl", s.cfg.OTPTTL)
	s.cfg.Log.Debug("OTP code", "email", email, "code", code)
	return nil
}

// VerifyOTP checks the stored code, marks the account verified and deletes
// the code so it is single-use.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return apperrors.InvalidInput("Email and code are required")
	}
	rdb := s.cfg.Client.Redis
	if rdb == nil {
		return apperrors.Unavailable("OTP service")
	}

	stored, err := rdb.Get(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.Unauthorized("OTP is invalid or expired")
		}
		return apperrors.Internal("Failed to read OTP", err)
	}
	if stored != code {
		return apperrors.Unauthorized("OTP is invalid or expired")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal("Failed to look up user", err)
	}

	if _, err := s.userRepo.Update(ctx, user.ID, bson.M{"isVerified": true}); err != nil {
		return apperrors.Internal("Failed to mark account verified", err)
	}

	if err := rdb.Del(ctx, otpKeyPrefix+email).Err(); err != nil {
		s.cfg.Log.Warn("Failed to delete used OTP", "email", email, "error", err)
	}

	s.cfg.Log.Info("Account verified", "email", email)
	return nil
}

func (s *authService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := token.Sign(s.cfg.JWTAccessSecret, user.ID, user.Email, user.Role, s.cfg.JWTAccessExpires)
	if err != nil {
		return nil, apperrors.Internal("Failed to sign access token", err)
	}
	refresh, err := token.Sign(s.cfg.JWTRefreshSecret, user.ID, user.Email, user.Role, s.cfg.JWTRefreshExpires)
	if err != nil {
		return nil, apperrors.Internal("Failed to sign refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
