package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubAdminChecker struct {
	admins map[string]bool
	calls  int
	err    error
}

func (s *stubAdminChecker) IsAdmin(_ context.Context, userID string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.admins[userID], nil
}

func TestRequireAdmin_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextUserID, "A1")

	checker := &stubAdminChecker{admins: map[string]bool{"A1": true}}
	called := false
	handler := RequireAdmin(checker)(func(c echo.Context) error {
		called = true
		if c.Get(ContextIsAdmin) != true {
			t.Fatalf("is_admin not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if checker.calls != 1 {
		t.Fatalf("expected one role lookup, got %d", checker.calls)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextUserID, "U1")

	handler := RequireAdmin(&stubAdminChecker{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdmin_Anonymous(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	checker := &stubAdminChecker{}
	handler := RequireAdmin(checker)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if checker.calls != 0 {
		t.Fatalf("role store must not be queried for anonymous requests")
	}
}

func TestRequireAdmin_LookupError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextUserID, "A1")

	lookupErr := errors.New("db down")
	handler := RequireAdmin(&stubAdminChecker{err: lookupErr})(func(c echo.Context) error { return nil })
	if err := handler(c); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}
