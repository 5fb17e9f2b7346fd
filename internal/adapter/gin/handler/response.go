package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"users-api/internal/usecase/user"
	apperrors "users-api/pkg/errors"
)

// Client-facing error strings
const (
	errInvalidID        = "Invalid user ID"
	errValidationFailed = "Validation failed"
	errUserNotFound     = "User not found"
	errEmailExists      = "Email already exists"
	errInvalidJSON      = "Request body must be valid JSON"
	errFieldTypes       = "Name and email must be strings"
)

// Envelope is the JSON wrapper returned by every /users route
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
	Count   *int     `json:"count,omitempty"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRequest represents the HTTP request body for create and update.
// Both JSON and urlencoded forms are accepted.
type UserRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func writeSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError converts usecase errors to the error envelope. The status comes
// from the error itself; fallback is the error text when err carries no
// public message.
func writeError(c *gin.Context, err error, fallback string) {
	var (
		validationErr *apperrors.ValidationError
		invalidID     *apperrors.InvalidIDError
		notFound      *apperrors.NotFoundError
		conflict      *apperrors.ConflictError
		storageErr    *apperrors.StorageError
	)

	env := Envelope{Error: fallback, Message: err.Error()}
	switch {
	case errors.As(err, &validationErr):
		env = Envelope{Error: errValidationFailed, Details: validationErr.Details}
	case errors.As(err, &invalidID):
		env = Envelope{Error: errInvalidID}
	case errors.As(err, &notFound):
		env = Envelope{Error: errUserNotFound}
	case errors.As(err, &conflict):
		env = Envelope{Error: errEmailExists}
	case errors.As(err, &storageErr):
		env = Envelope{Error: storageErr.Message, Message: storageErr.Cause()}
	}

	c.JSON(apperrors.StatusOf(err), env)
}
