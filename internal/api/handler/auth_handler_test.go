package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookinghub/booking-system/internal/core/domain"
	"github.com/bookinghub/booking-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

type stubThrottle struct {
	allowed   bool
	allowErr  error
	failures  []string
	resets    []string
	allowSeen []string
}

func (s *stubThrottle) Allow(_ context.Context, email string) (bool, error) {
	s.allowSeen = append(s.allowSeen, email)
	return s.allowed, s.allowErr
}

func (s *stubThrottle) RecordFailure(_ context.Context, email string) error {
	s.failures = append(s.failures, email)
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, email string) error {
	s.resets = append(s.resets, email)
	return nil
}

type stubSink struct {
	mu     sync.Mutex
	events []ports.AuthEventInput
}

func (s *stubSink) Enqueue(event ports.AuthEventInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubSink) kinds() []ports.AuthEventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]ports.AuthEventKind, 0, len(s.events))
	for _, e := range s.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	sink := &stubSink{}
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			if input.Email != "alice@example.com" || input.Role != domain.RoleClient {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.RegisterResult{
				User: &domain.User{
					ID:    "id-1",
					Email: input.Email,
					Roles: []string{input.Role},
				},
				Message: "User alice@example.com registered successfully with role Client",
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{allowed: true}, sink, zerolog.Nop())

	body := `{"email":"alice@example.com","password":"sup3rsecret","first_name":"Alice","last_name":"Archer","role":"Client"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, hasHash := user["password_hash"]; hasHash {
		t.Fatalf("password hash must not be serialised")
	}

	kinds := sink.kinds()
	if len(kinds) != 1 || kinds[0] != ports.AuthEventRegistered {
		t.Fatalf("expected registered audit event, got %v", kinds)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{allowed: true}, &stubSink{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", "not-json")

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationTags(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{allowed: true}, &stubSink{}, zerolog.Nop())

	// Password below the minimum length never reaches the service.
	body := `{"email":"bob@example.com","password":"short","first_name":"Bob","last_name":"Barker"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_StoreValidationError(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("email", "email is already taken")
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			return nil, verr
		},
	}
	sink := &stubSink{}
	h := NewAuthHandler(stub, &stubThrottle{allowed: true}, sink, zerolog.Nop())

	body := `{"email":"bob@example.com","password":"sup3rsecret","first_name":"Bob","last_name":"Barker"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	var got *domain.ValidationError
	if !errors.As(err, &got) {
		t.Fatalf("expected ValidationError to propagate, got %v", err)
	}
	if len(sink.kinds()) != 0 {
		t.Fatalf("no audit event on failed registration")
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	sink := &stubSink{}
	throttle := &stubThrottle{allowed: true}
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			if email != "carol@example.com" || password != "sup3rsecret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "signed-token", nil
		},
	}
	h := NewAuthHandler(stub, throttle, sink, zerolog.Nop())

	// Email is normalized before throttling and login.
	body := `{"email":"Carol@Example.com","password":"sup3rsecret"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected token: %q", resp["token"])
	}

	if len(throttle.resets) != 1 || throttle.resets[0] != "carol@example.com" {
		t.Fatalf("expected throttle reset for carol@example.com, got %v", throttle.resets)
	}
	kinds := sink.kinds()
	if len(kinds) != 1 || kinds[0] != ports.AuthEventLoginOK {
		t.Fatalf("expected login_ok audit event, got %v", kinds)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	sink := &stubSink{}
	throttle := &stubThrottle{allowed: true}
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, throttle, sink, zerolog.Nop())

	body := `{"email":"dave@example.com","password":"wrongpass1"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/login", body)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(throttle.failures) != 1 {
		t.Fatalf("expected one recorded failure, got %v", throttle.failures)
	}
	kinds := sink.kinds()
	if len(kinds) != 1 || kinds[0] != ports.AuthEventLoginFailed {
		t.Fatalf("expected login_failed audit event, got %v", kinds)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service must not be called when throttled")
			return "", nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{allowed: false}, &stubSink{}, zerolog.Nop())

	body := `{"email":"eve@example.com","password":"sup3rsecret"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthHandler_Login_ThrottleFailsOpen(t *testing.T) {
	throttle := &stubThrottle{allowed: true, allowErr: errors.New("redis down")}
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "signed-token", nil
		},
	}
	h := NewAuthHandler(stub, throttle, &stubSink{}, zerolog.Nop())

	body := `{"email":"frank@example.com","password":"sup3rsecret"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("expected fail-open login, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
