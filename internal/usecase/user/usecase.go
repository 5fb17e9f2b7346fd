package user

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	domain "users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
	"users-api/pkg/logger"
)

// Public failure messages per operation.
const (
	msgListFailed   = "Failed to fetch users"
	msgGetFailed    = "Failed to fetch user"
	msgCreateFailed = "Failed to create user"
	msgUpdateFailed = "Failed to update user"
	msgDeleteFailed = "Failed to delete user"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so storage engines and caching decorators
// can be swapped without touching business rules.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)                             // All users, newest first
	GetByID(ctx context.Context, id int64) (*domain.User, error)                 // ErrUserNotFound when missing
	GetByEmail(ctx context.Context, email string) (*domain.User, error)          // nil, nil when missing
	EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error) // Email owned by a different user
	Create(ctx context.Context, u *domain.User) (int64, error)                   // Insert, returns generated id
	Update(ctx context.Context, u *domain.User) error                            // Overwrite name and email
	Delete(ctx context.Context, id int64) error                                  // Physical delete
}

// Service implements the business logic for user management operations.
// It holds no state between requests beyond its collaborators.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new Service backed by the given repository.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

var _ Usecase = (*Service)(nil)

// ParseID converts a path parameter into a user id. Only base-10 integers are accepted.
func ParseID(raw string) (int64, error) {
	if raw == "" {
		return 0, apperrors.NewInvalidIDError(raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewInvalidIDError(raw)
	}
	return id, nil
}

// ListUsers returns every user ordered by creation time, newest first.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, s.log)

	users, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewStorageError(msgListFailed, err)
	}

	out := make([]User, len(users))
	for i := range users {
		out[i] = toDTO(&users[i])
	}

	return &ListUsersResponse{
		Users: out,
		Count: len(out),
	}, nil
}

// GetUser retrieves a single user by id.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Debug("user not found", zap.Int64("id", in.ID))
			return nil, apperrors.NewNotFoundError("user", in.ID)
		}
		log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgGetFailed, err)
	}

	dto := toDTO(u)
	return &dto, nil
}

// CreateUser validates the request, checks email uniqueness, inserts the
// trimmed values and returns the stored row.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	if details := ValidateUser(in.Name, in.Email); len(details) > 0 {
		log.Warn("create user validation failed", zap.Strings("details", details))
		return nil, apperrors.NewValidationError(details...)
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewStorageError(msgCreateFailed, err)
	}
	if existing != nil {
		log.Warn("email already exists", zap.String("email", email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.NewConflictError("email", email)
	}

	id, err := s.repo.Create(ctx, &domain.User{Name: name, Email: email})
	if err != nil {
		// a concurrent insert can still win the race past the pre-check
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			log.Warn("email already exists on insert", zap.String("email", email))
			return nil, apperrors.NewConflictError("email", email)
		}
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewStorageError(msgCreateFailed, err)
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to read created user", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewStorageError(msgCreateFailed, err)
	}

	log.Info("user created", zap.Int64("id", id))
	dto := toDTO(created)
	return &dto, nil
}

// UpdateUser validates the request, confirms the user exists and that no
// other user owns the email, then overwrites name and email.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	if details := ValidateUser(in.Name, in.Email); len(details) > 0 {
		log.Warn("update user validation failed", zap.Int64("id", in.ID), zap.Strings("details", details))
		return nil, apperrors.NewValidationError(details...)
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if _, err := s.repo.GetByID(ctx, in.ID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Debug("user not found", zap.Int64("id", in.ID))
			return nil, apperrors.NewNotFoundError("user", in.ID)
		}
		log.Error("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgUpdateFailed, err)
	}

	taken, err := s.repo.EmailTakenByOther(ctx, email, in.ID)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewStorageError(msgUpdateFailed, err)
	}
	if taken {
		log.Warn("email already exists", zap.String("email", email), zap.Int64("id", in.ID))
		return nil, apperrors.NewConflictError("email", email)
	}

	if err := s.repo.Update(ctx, &domain.User{ID: in.ID, Name: name, Email: email}); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			log.Warn("email already exists on update", zap.String("email", email), zap.Int64("id", in.ID))
			return nil, apperrors.NewConflictError("email", email)
		}
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgUpdateFailed, err)
	}

	updated, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to read updated user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgUpdateFailed, err)
	}

	log.Info("user updated", zap.Int64("id", in.ID))
	dto := toDTO(updated)
	return &dto, nil
}

// DeleteUser removes a user and returns the row as it was before deletion.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Debug("user not found", zap.Int64("id", in.ID))
			return nil, apperrors.NewNotFoundError("user", in.ID)
		}
		log.Error("failed to load user for delete", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgDeleteFailed, err)
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewStorageError(msgDeleteFailed, err)
	}

	log.Info("user deleted", zap.Int64("id", in.ID))
	dto := toDTO(existing)
	return &dto, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
