package service

import (
	"context"
	"errors"

	userserrors "tourbook/internal/users/errors"
	"tourbook/internal/users/repository"
	"tourbook/internal/users/validator"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error)
	UpdateStatus(ctx context.Context, id string, update *model.UserStatusUpdate) (*model.User, error)
	GetAllUsers(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
	SeedSuperAdmin(ctx context.Context) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(repo repository.UserRepository, userValidator *validator.UserValidator, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: userValidator,
		cfg:       cfg,
	}
}

// CreateUser registers a new account. Email uniqueness is checked up front
// and again enforced by the unique index.
func (s *userService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.IsActive == "" {
		user.IsActive = model.UserActive
	}

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "email", user.Email, "error", err)
		return nil, apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}
	if user.Password == "" {
		return nil, apperrors.InvalidInput("Password is required")
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, userserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check user email", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("A user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}
	user.Password = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created", "id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err, id)
	}
	return user, nil
}

// UpdateUser applies a partial profile update. Changing the password
// requires the old one to verify first.
func (s *userService) UpdateUser(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("User update validation failed", map[string]any{"error": err.Error()})
	}

	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.Address != "" {
		fields["address"] = update.Address
	}

	if update.Password != "" {
		if update.OldPassword == "" {
			return nil, apperrors.InvalidInput("Old password is required to set a new password")
		}
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapUserError(err, id)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(update.OldPassword)); err != nil {
			return nil, apperrors.Unauthorized("Old password does not match")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), s.cfg.BcryptCost)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash password", err)
		}
		fields["password"] = string(hash)
	}

	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapUserError(err, id)
	}

	s.cfg.Log.Info("User updated", "id", id)
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id string, update *model.UserStatusUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.Update(ctx, id, bson.M{"isActive": update.IsActive})
	if err != nil {
		return nil, mapUserError(err, id)
	}

	s.cfg.Log.Info("User status updated", "id", id, "status", update.IsActive)
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	docs, meta, err := s.repo.List(ctx, raw)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, query.Meta{}, apperrors.Internal("Failed to retrieve users", err)
	}
	return docs, meta, nil
}

// SeedSuperAdmin creates the bootstrap super admin account on startup if it
// does not exist yet. Safe to call on every boot.
func (s *userService) SeedSuperAdmin(ctx context.Context) error {
	if s.cfg.SuperAdminEmail == "" || s.cfg.SuperAdminPassword == "" {
		s.cfg.Log.Warn("Super admin seed skipped, credentials not configured")
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, s.cfg.SuperAdminEmail)
	if err != nil && !errors.Is(err, userserrors.ErrNotFound) {
		return apperrors.Internal("Failed to check super admin account", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.SuperAdminPassword), s.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal("Failed to hash super admin password", err)
	}

	admin := &model.User{
		Name:       "Super Admin",
		Email:      s.cfg.SuperAdminEmail,
		Password:   string(hash),
		Role:       model.RoleSuperAdmin,
		IsActive:   model.UserActive,
		IsVerified: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return apperrors.Internal("Failed to seed super admin", err)
	}

	s.cfg.Log.Info("Super admin seeded", "email", admin.Email)
	return nil
}

func mapUserError(err error, id string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		return apperrors.Internal("User operation failed", err)
	}
}
