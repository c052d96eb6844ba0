package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/user"
)

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	registerFn func(ctx context.Context, input user.RegisterInput) (*model.User, error)
	getByIDFn  func(ctx context.Context, userID int64) (*model.User, error)
	updateFn   func(ctx context.Context, userID int64, input user.UpdateInput) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, input user.RegisterInput) (*model.User, error) {
	return m.registerFn(ctx, input)
}

func (m *mockUserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return m.getByIDFn(ctx, userID)
}

func (m *mockUserService) Update(ctx context.Context, userID int64, input user.UpdateInput) (*model.User, error) {
	return m.updateFn(ctx, userID, input)
}

func testUser() *model.User {
	return &model.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		Name:         "Alice",
		Surname:      "Smith",
		Role:         model.RoleUser,
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserHandler_Register_Success(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Errorf("unexpected input: %+v", input)
			}
			return testUser(), nil
		},
	}

	h := NewUserHandler(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret","name":"Alice","surname":"Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Username != "alice" || resp.Role != "USER" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// レスポンスにパスワードハッシュが含まれないことを確認する。
func TestUserHandler_Register_DoesNotLeakPasswordHash(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			return testUser(), nil
		},
	}

	h := NewUserHandler(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if strings.Contains(w.Body.String(), "$2a$10$hash") {
		t.Error("response body contains password hash")
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response body contains a password field")
	}
}

func TestUserHandler_Register_MissingRequiredFields(t *testing.T) {
	h := NewUserHandler(&mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			t.Fatal("Register should not be called")
			return nil, nil
		},
	})

	body := `{"username":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_Register_DuplicateUsername(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			return nil, model.NewDuplicateNameError("ユーザー名", input.Username)
		},
	}

	h := NewUserHandler(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	resp := decodeErrorResponse(t, w)
	if resp.Code != model.ErrCodeDuplicateName {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeDuplicateName)
	}
}

func TestUserHandler_Me_Success(t *testing.T) {
	svc := &mockUserService{
		getByIDFn: func(ctx context.Context, userID int64) (*model.User, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return testUser(), nil
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = withUserID(req, 1)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", resp.Email, "alice@example.com")
	}
}

func TestUserHandler_Me_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	// ユーザーIDを注入しない
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_UpdateMe_Success(t *testing.T) {
	svc := &mockUserService{
		updateFn: func(ctx context.Context, userID int64, input user.UpdateInput) (*model.User, error) {
			if input.Name != "Alicia" {
				t.Errorf("name = %q, want %q", input.Name, "Alicia")
			}
			updated := testUser()
			updated.Name = "Alicia"
			return updated, nil
		},
	}

	h := NewUserHandler(svc)

	body := `{"name":"Alicia"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(body))
	req = withUserID(req, 1)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Alicia" {
		t.Errorf("name = %q, want %q", resp.Name, "Alicia")
	}
}

func TestUserHandler_UpdateMe_WrongOldPassword(t *testing.T) {
	svc := &mockUserService{
		updateFn: func(ctx context.Context, userID int64, input user.UpdateInput) (*model.User, error) {
			return nil, model.NewAuthFailedError()
		},
	}

	h := NewUserHandler(svc)

	body := `{"old_password":"wrong","new_password":"newsecret"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader(body))
	req = withUserID(req, 1)
	w := httptest.NewRecorder()

	h.UpdateMe(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
