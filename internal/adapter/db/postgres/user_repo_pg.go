package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"graphql-user-service/internal/domain/user"
	apperrors "graphql-user-service/pkg/errors"
)

// uniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const uniqueViolation = "23505"

// UserRepoPG implements the user Repository on top of GORM. The same code
// serves the postgres and sqlite drivers; the schema comes from migrations.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema maps a row of the users table.
type UserSchema struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// isUniqueViolation recognises duplicate key errors from every supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new user and fills in the generated ID and timestamps.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate email rejected by db", zap.String("email", u.Email))
			return apperrors.NewConstraintViolationError("email", "email already exists", err)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return apperrors.NewInternalError("failed to create user", err)
	}

	*u = *toDomain(&model)
	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return nil
}

// Update writes name and email of an existing user.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := UserSchema{ID: u.ID}
	result := r.db.WithContext(ctx).Model(&model).Updates(map[string]interface{}{
		"name":  u.Name,
		"email": u.Email,
	})
	if err := result.Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate email rejected by db", zap.Int64("id", u.ID), zap.String("email", u.Email))
			return apperrors.NewConstraintViolationError("email", "email already exists", err)
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return apperrors.NewInternalError("failed to update user", err)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user", strconv.FormatInt(u.ID, 10))
	}

	// reload to pick up the storage maintained timestamp
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// Delete removes a user by ID and reports whether a row was removed.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if err := result.Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return false, apperrors.NewInternalError("failed to delete user", err)
	}

	if result.RowsAffected == 0 {
		r.log.Debug("nothing to delete", zap.Int64("id", id))
		return false, nil
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return true, nil
}

// GetByID retrieves a user by primary key. A missing row yields a NotFoundError.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("user", strconv.FormatInt(id, 10))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return toDomain(&model), nil
}

// GetByEmail retrieves a user by email address. It returns nil, nil when no
// user owns the address.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, apperrors.NewInternalError("failed to get user by email", err)
	}

	return toDomain(&model), nil
}

// List returns every user ordered by ID.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}

// Ping checks that the database answers.
func (r *UserRepoPG) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
