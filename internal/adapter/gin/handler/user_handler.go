package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/internal/usecase/user"
	apperrors "users-api/pkg/errors"
	"users-api/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// Register mounts the user routes on rg
func (h *UserHandler) Register(rg gin.IRoutes) {
	handle(rg, http.MethodGet, "/users", h.ListUsers)
	handle(rg, http.MethodGet, "/users/:id", h.GetUser)
	handle(rg, http.MethodPost, "/users", h.CreateUser)
	handle(rg, http.MethodPut, "/users/:id", h.UpdateUser)
	handle(rg, http.MethodDelete, "/users/:id", h.DeleteUser)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch users")
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}

	count := resp.Count
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    users,
		Count:   &count,
	})
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		writeError(c, err, "Failed to fetch user")
		return
	}

	writeSuccess(c, http.StatusOK, "", toResponse(resp))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := h.bindBody(c)
	if !ok {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(c, err, "Failed to create user")
		return
	}

	writeSuccess(c, http.StatusCreated, "User created successfully", toResponse(resp))
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	req, ok := h.bindBody(c)
	if !ok {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(c, err, "Failed to update user")
		return
	}

	writeSuccess(c, http.StatusOK, "User updated successfully", toResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		writeError(c, err, "Failed to delete user")
		return
	}

	writeSuccess(c, http.StatusOK, "User deleted successfully", toResponse(resp))
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := user.ParseID(raw)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", raw))
		writeError(c, err, errInvalidID)
		return 0, false
	}
	return id, true
}

// bindBody decodes a JSON or urlencoded body. An empty body binds to the
// zero request so the usecase reports the missing fields.
func (h *UserHandler) bindBody(c *gin.Context) (UserRequest, bool) {
	var req UserRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid request body", zap.Error(err))
		detail := errInvalidJSON
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			detail = errFieldTypes
		}
		writeError(c, apperrors.NewValidationError(detail), errValidationFailed)
		return UserRequest{}, false
	}
	return req, true
}
