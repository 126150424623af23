package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peoplesbank/ledger/internal/adapter/http/dto"
	"github.com/peoplesbank/ledger/internal/domain"
	"github.com/peoplesbank/ledger/internal/infrastructure/auth"
	"github.com/peoplesbank/ledger/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getUserFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authenticateFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	result := &usecase.RegisterResult{
		User: &domain.User{
			ID:            "user-1",
			AccountNumber: "1000000001",
			Name:          "Thandi Dlamini",
			Email:         "thandi@example.com",
		},
		Account: &domain.Account{
			ID:            "acc-1",
			OwnerID:       "user-1",
			AccountNumber: "1000000001",
			Type:          domain.AccountTypeCurrent,
			Currency:      "ZAR",
		},
	}

	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error) {
			if input.Email != "thandi@example.com" {
				t.Fatalf("expected email to propagate, got %q", input.Email)
			}
			return result, nil
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{
		AccountNumber: "1000000001",
		Name:          "Thandi Dlamini",
		Email:         "thandi@example.com",
		Password:      "Str0ngPassword",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RegisterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", resp.User.ID)
	}
	if resp.Account.Type != "current" {
		t.Fatalf("expected a default current account, got %s", resp.Account.Type)
	}
}

func TestAuthHandler_Register_DuplicateUser(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error) {
			return nil, domain.ErrDuplicateUser
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{AccountNumber: "1000000001", Email: "dup@example.com", Password: "Str0ngPassword"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	jwtManager := newTestJWTManager()
	user := &domain.User{ID: "user-1", AccountNumber: "1000000001", Email: "thandi@example.com"}

	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			if input.AccountNumber != "1000000001" {
				t.Fatalf("expected account number to propagate, got %q", input.AccountNumber)
			}
			return user, nil
		},
	}, jwtManager)

	body, _ := json.Marshal(dto.LoginRequest{AccountNumber: "1000000001", Password: "Str0ngPassword"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("expected a verifiable token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected token subject user-1, got %s", claims.UserID)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, newTestJWTManager())

	body, _ := json.Marshal(dto.LoginRequest{AccountNumber: "1000000001", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "user-1" {
				t.Fatalf("expected user-1, got %s", id)
			}
			return &domain.User{ID: "user-1", Email: "thandi@example.com"}, nil
		},
	}, newTestJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = withUser(req, "user-1")
	rec := httptest.NewRecorder()

	handler.GetCurrentUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Email != "thandi@example.com" {
		t.Fatalf("expected email in profile, got %s", resp.Email)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{}, newTestJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.GetCurrentUser(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
