package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "users-api/internal/usecase/user"
	apperrors "users-api/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.User), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	handler.Register(r)
	return r, mockUsecase
}

func do(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

var ts = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleUser(id int64) *usecase.User {
	return &usecase.User{ID: id, Name: "Bob", Email: "b@x.com", CreatedAt: ts, UpdatedAt: ts}
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{*sampleUser(2), *sampleUser(1)},
			Count: 2,
		}, nil)

		w := do(r, http.MethodGet, "/users", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["count"])
		data := body["data"].([]any)
		require.Len(t, data, 2)
		first := data[0].(map[string]any)
		assert.Equal(t, float64(2), first["id"])
		assert.Equal(t, "2024-06-01T12:00:00Z", first["created_at"])
		assert.Contains(t, first, "updated_at")
	})

	t.Run("Empty list keeps data and count", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{Users: []usecase.User{}}, nil)

		w := do(r, http.MethodGet, "/users", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[],"count":0}`, w.Body.String())
	})

	t.Run("Storage error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).
			Return(nil, apperrors.NewStorageError("Failed to fetch users", errors.New("connection refused")))

		w := do(r, http.MethodGet, "/users", "", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to fetch users","message":"connection refused"}`, w.Body.String())
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).Return(sampleUser(1), nil)

		w := do(r, http.MethodGet, "/users/1", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, body, "message")
		data := body["data"].(map[string]any)
		assert.Equal(t, "Bob", data["name"])
		assert.Equal(t, "b@x.com", data["email"])
	})

	t.Run("Invalid ID", func(t *testing.T) {
		for _, id := range []string{"abc", "1.5", "1e3"} {
			r, mockUsecase := setupTest(t)

			w := do(r, http.MethodGet, "/users/"+id, "", "")

			assert.Equal(t, http.StatusBadRequest, w.Code, id)
			assert.JSONEq(t, `{"success":false,"error":"Invalid user ID"}`, w.Body.String())
			mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 999999}).
			Return(nil, apperrors.NewNotFoundError("user", 999999))

		w := do(r, http.MethodGet, "/users/999999", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"User not found"}`, w.Body.String())
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: " Bob ", Email: " b@x.com "}).
			Return(sampleUser(5), nil)

		w := do(r, http.MethodPost, "/users", "application/json", `{"name":" Bob ","email":" b@x.com "}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "User created successfully", body["message"])
		assert.Equal(t, float64(5), body["data"].(map[string]any)["id"])
	})

	t.Run("Urlencoded body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Bob", Email: "b@x.com"}).
			Return(sampleUser(6), nil)

		w := do(r, http.MethodPost, "/users", "application/x-www-form-urlencoded", "name=Bob&email=b%40x.com")

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Validation error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{}).
			Return(nil, apperrors.NewValidationError("Name is required", "Email is required"))

		w := do(r, http.MethodPost, "/users", "application/json", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t,
			`{"success":false,"error":"Validation failed","details":["Name is required","Email is required"]}`,
			w.Body.String())
	})

	t.Run("Empty body reaches validation", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{}).
			Return(nil, apperrors.NewValidationError("Name is required", "Email is required"))

		w := do(r, http.MethodPost, "/users", "application/json", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := do(r, http.MethodPost, "/users", "application/json", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t,
			`{"success":false,"error":"Validation failed","details":["Request body must be valid JSON"]}`,
			w.Body.String())
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Wrong field type", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := do(r, http.MethodPost, "/users", "application/json", `{"name":123,"email":"a@b.co"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t,
			`{"success":false,"error":"Validation failed","details":["Name and email must be strings"]}`,
			w.Body.String())
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Trailing slash", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Bob", Email: "b@x.com"}).
			Return(sampleUser(7), nil)

		w := do(r, http.MethodPost, "/users/", "application/json", `{"name":"Bob","email":"b@x.com"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Email already exists", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewConflictError("email", "alice@test.com"))

		w := do(r, http.MethodPost, "/users", "application/json", `{"name":"Alice","email":"alice@test.com"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Email already exists"}`, w.Body.String())
	})

	t.Run("Unexpected error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		w := do(r, http.MethodPost, "/users", "application/json", `{"name":"A","email":"a@b.co"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to create user","message":"boom"}`, w.Body.String())
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: 1, Name: "Bob", Email: "b@x.com"}).
			Return(sampleUser(1), nil)

		w := do(r, http.MethodPut, "/users/1", "application/json", `{"name":"Bob","email":"b@x.com"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "User updated successfully", body["message"])
	})

	t.Run("Invalid ID checked before body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := do(r, http.MethodPut, "/users/abc", "application/json", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Invalid user ID"}`, w.Body.String())
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("user", 9))

		w := do(r, http.MethodPut, "/users/9", "application/json", `{"name":"Bob","email":"b@x.com"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, apperrors.NewConflictError("email", "x"))

		w := do(r, http.MethodPut, "/users/1", "application/json", `{"name":"Bob","email":"b@x.com"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Storage error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewStorageError("Failed to update user", errors.New("deadlock")))

		w := do(r, http.MethodPut, "/users/1", "application/json", `{"name":"Bob","email":"b@x.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to update user","message":"deadlock"}`, w.Body.String())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success returns deleted row", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 3}).Return(sampleUser(3), nil)

		w := do(r, http.MethodDelete, "/users/3", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "User deleted successfully", body["message"])
		assert.Equal(t, float64(3), body["data"].(map[string]any)["id"])
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodDelete, "/users/x", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 0}).
			Return(nil, apperrors.NewNotFoundError("user", 0))

		w := do(r, http.MethodDelete, "/users/0", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"User not found"}`, w.Body.String())
	})
}

func TestSystemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler("1.0.0")
	h.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)) }

	r := gin.New()
	h.Register(r)

	t.Run("Health", func(t *testing.T) {
		w := do(r, http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"status":"OK","message":"Server is running","timestamp":"2024-06-01T11:00:00.000Z"}`,
			w.Body.String())
	})

	t.Run("Index", func(t *testing.T) {
		w := do(r, http.MethodGet, "/", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Welcome to MySQL Users API", body["message"])
		assert.Equal(t, "1.0.0", body["version"])
		endpoints := body["endpoints"].(map[string]any)
		assert.Equal(t, "/health", endpoints["health"])
		assert.Equal(t, "DELETE /users/:id", endpoints["users"].(map[string]any)["delete"])
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{
			name:     "validation",
			err:      apperrors.NewValidationError("Name is required"),
			status:   http.StatusBadRequest,
			expected: `{"success":false,"error":"Validation failed","details":["Name is required"]}`,
		},
		{
			name:     "invalid id",
			err:      apperrors.NewInvalidIDError("abc"),
			status:   http.StatusBadRequest,
			expected: `{"success":false,"error":"Invalid user ID"}`,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("lookup: %w", apperrors.NewNotFoundError("user", 3)),
			status:   http.StatusNotFound,
			expected: `{"success":false,"error":"User not found"}`,
		},
		{
			name:     "conflict",
			err:      apperrors.NewConflictError("email", "a@b.co"),
			status:   http.StatusConflict,
			expected: `{"success":false,"error":"Email already exists"}`,
		},
		{
			name:     "storage",
			err:      apperrors.NewStorageError("Failed to fetch user", errors.New("db down")),
			status:   http.StatusInternalServerError,
			expected: `{"success":false,"error":"Failed to fetch user","message":"db down"}`,
		},
		{
			name:     "untyped",
			err:      errors.New("boom"),
			status:   http.StatusInternalServerError,
			expected: `{"success":false,"error":"Failed to delete user","message":"boom"}`,
		},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tt.err, "Failed to delete user")

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
