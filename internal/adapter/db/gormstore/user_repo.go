package gormstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
)

// UserRepo implements the user Repository using GORM.
// Every statement is parameterized; no SQL is built from request values.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// List returns every user, newest first.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, len(models))
	for i := range models {
		users[i] = toDomain(&models[i])
	}
	return users, nil
}

// GetByID retrieves a user by id. It returns ErrUserNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.ErrUserNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toDomain(&model)
	return &u, nil
}

// GetByEmail retrieves a user by email address. A missing row yields (nil, nil).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	u := toDomain(&model)
	return &u, nil
}

// EmailTakenByOther reports whether a user other than id owns email.
func (r *UserRepo) EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to check email ownership", zap.Error(err), zap.String("email", email), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// Create inserts u and fills in its generated id and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return 0, fmt.Errorf("failed to create user: %w", apperrors.ErrDuplicateEmail)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update overwrites name and email of the user identified by u.ID.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email}).Error
	if err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email on update", zap.String("email", u.Email), zap.Int64("id", u.ID))
			return fmt.Errorf("failed to update user: %w", apperrors.ErrDuplicateEmail)
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// Delete physically removes the user identified by id.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{}).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

func toDomain(m *UserSchema) domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// isDuplicateKey relies on the dialector translating unique violations,
// which requires gorm.Config.TranslateError.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
