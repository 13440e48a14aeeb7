package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "graphql-user-service/internal/domain/user"
	apperrors "graphql-user-service/pkg/errors"
	"graphql-user-service/pkg/logger"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, SQLite) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                   // Insert and fill the generated ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // NotFoundError when missing
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when missing
	Update(ctx context.Context, u *domain.User) error                   // Persist name and email
	Delete(ctx context.Context, id int64) (bool, error)                 // false when nothing was removed
	List(ctx context.Context) ([]domain.User, error)                    // Every user, ordered by ID
}

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

var _ UserUsecase = (*Usecase)(nil)

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInternalError("failed to validate request", err)
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	field := ""
	if len(validationErrors) == 1 {
		field = strings.ToLower(validationErrors[0].Field())
	}
	return apperrors.NewValidationError(field, strings.Join(messages, ", "))
}

// checkOptional rejects empty strings for NOT NULL columns. Omitted and null
// fields mean "unchanged" and pass.
func checkOptional(field string, v OptionalString) error {
	if s, ok := v.Get(); ok && s == "" {
		return apperrors.NewValidationError(field, "cannot be empty")
	}
	return nil
}

// ensureEmailFree fails with a ConstraintViolationError when another user owns email.
func (uc *Usecase) ensureEmailFree(ctx context.Context, email string, ownerID int64) error {
	existingUser, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return err
	}
	if existingUser != nil && existingUser.ID != ownerID {
		logger.WithContext(ctx, uc.log).Warn("email already exists", zap.String("email", email), zap.Int64("existing_id", existingUser.ID))
		return apperrors.NewConstraintViolationError("email", "email already exists", nil)
	}
	return nil
}

// GetUser retrieves a user by ID. A missing user is not an error: it returns nil, nil.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)

	if in.ID <= 0 {
		log.Debug("get user with invalid id", zap.Int64("id", in.ID))
		return nil, nil
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			log.Debug("user not found", zap.Int64("id", in.ID))
			return nil, nil
		}
		log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return fromDomain(u), nil
}

// ListUsers returns every stored user. Empty storage yields an empty, non-nil slice.
func (uc *Usecase) ListUsers(ctx context.Context) ([]User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Debug("listing users")

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *fromDomain(&domainUsers[i])
	}

	return users, nil
}

// CreateUser creates a new user after validating the request and checking email uniqueness.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if err := uc.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:  in.Name,
		Email: in.Email,
	}
	// the unique constraint still guards against a concurrent insert
	if err := uc.repo.Create(ctx, u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return fromDomain(u), nil
}

// UpdateUser applies the fields present in the request to an existing user.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user",
		zap.Int64("id", in.ID),
		zap.Bool("name_set", in.Name.Set),
		zap.Bool("email_set", in.Email.Set),
	)

	if in.ID <= 0 {
		return nil, apperrors.NewNotFoundError("user", in.RawID)
	}
	if err := checkOptional("name", in.Name); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}
	if err := checkOptional("email", in.Email); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			log.Warn("update target not found", zap.Int64("id", in.ID))
		} else {
			log.Error("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	if name, ok := in.Name.Get(); ok {
		u.Name = name
	}
	if email, ok := in.Email.Get(); ok && email != u.Email {
		if err := uc.ensureEmailFree(ctx, email, u.ID); err != nil {
			return nil, err
		}
		u.Email = email
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return fromDomain(u), nil
}

// DeleteUser removes a user and reports whether it existed.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (bool, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		return false, nil
	}

	deleted, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return false, err
	}

	return deleted, nil
}
