package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/api/middleware"
	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

type stubApplicationService struct {
	submitFn    func(ctx context.Context, input ports.SubmitApplicationInput) (*domain.Application, error)
	listAllFn   func(ctx context.Context, input ports.ListApplicationsInput) ([]*domain.Application, error)
	listMineFn  func(ctx context.Context, actor domain.Actor) ([]*domain.Application, error)
	setStatusFn func(ctx context.Context, input ports.SetStatusInput) (*domain.Application, error)
	statsFn     func(ctx context.Context, actor domain.Actor) (*ports.ApplicationStats, error)
}

func (s *stubApplicationService) Submit(ctx context.Context, input ports.SubmitApplicationInput) (*domain.Application, error) {
	return s.submitFn(ctx, input)
}

func (s *stubApplicationService) ListAll(ctx context.Context, input ports.ListApplicationsInput) ([]*domain.Application, error) {
	return s.listAllFn(ctx, input)
}

func (s *stubApplicationService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Application, error) {
	return s.listMineFn(ctx, actor)
}

func (s *stubApplicationService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*domain.Application, error) {
	return s.setStatusFn(ctx, input)
}

func (s *stubApplicationService) Stats(ctx context.Context, actor domain.Actor) (*ports.ApplicationStats, error) {
	return s.statsFn(ctx, actor)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const bobForm = `{"roblox_username":"Bob123","discord_username":"bob#1","age":17,"experience":"2y","why_join":"fun","availability":"weekends"}`

func TestApplicationHandler_Submit_Success(t *testing.T) {
	stub := &stubApplicationService{
		submitFn: func(_ context.Context, input ports.SubmitApplicationInput) (*domain.Application, error) {
			if input.Actor.UserID != "U1" {
				t.Fatalf("expected actor U1, got %q", input.Actor.UserID)
			}
			if input.RobloxUsername != "Bob123" || input.Age != 17 || input.PreviousMilitary != "" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Application{ID: 7, Status: domain.StatusPending}, nil
		},
	}
	h := NewApplicationHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/applications", bobForm)
	c.Set(middleware.ContextUserID, "U1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(7) || resp["success"] != true {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestApplicationHandler_Submit_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"too young":        `{"roblox_username":"a","age":12,"experience":"x","why_join":"x","availability":"x"}`,
		"too old":          `{"roblox_username":"a","age":101,"experience":"x","why_join":"x","availability":"x"}`,
		"missing username": `{"age":20,"experience":"x","why_join":"x","availability":"x"}`,
		"missing why_join": `{"roblox_username":"a","age":20,"experience":"x","availability":"x"}`,
	}

	for name, body := range cases {
		stub := &stubApplicationService{
			submitFn: func(context.Context, ports.SubmitApplicationInput) (*domain.Application, error) {
				t.Fatalf("%s: service should not be called", name)
				return nil, nil
			},
		}
		c, _ := newJSONContext(http.MethodPost, "/api/applications", body)
		c.Set(middleware.ContextUserID, "U1")

		if err := NewApplicationHandler(stub).Submit(c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestApplicationHandler_Submit_LimitAppliesAfterValidation(t *testing.T) {
	calls := 0
	limit := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			calls++
			if calls > 1 {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
	stub := &stubApplicationService{
		submitFn: func(context.Context, ports.SubmitApplicationInput) (*domain.Application, error) {
			return &domain.Application{ID: 1, Status: domain.StatusPending}, nil
		},
	}
	h := NewApplicationHandler(stub).WithSubmitLimit(limit)

	for i := 0; i < 3; i++ {
		c, _ := newJSONContext(http.MethodPost, "/api/applications", `{"age":-5}`)
		c.Set(middleware.ContextUserID, "U1")
		if err := h.Submit(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("attempt %d: expected validation error, got %v", i, err)
		}
	}
	if calls != 0 {
		t.Fatalf("invalid forms should not reach the limiter, got %d calls", calls)
	}

	c, rec := newJSONContext(http.MethodPost, "/api/applications", bobForm)
	c.Set(middleware.ContextUserID, "U1")
	if err := h.Submit(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", rec.Code, err)
	}

	c, _ = newJSONContext(http.MethodPost, "/api/applications", bobForm)
	c.Set(middleware.ContextUserID, "U1")
	var he *echo.HTTPError
	if err := h.Submit(c); !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
}

func TestApplicationHandler_Submit_InvalidPayload(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/api/applications", "not-json")
	c.Set(middleware.ContextUserID, "U1")

	err := NewApplicationHandler(&stubApplicationService{}).Submit(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestApplicationHandler_Submit_DuplicatePending(t *testing.T) {
	stub := &stubApplicationService{
		submitFn: func(context.Context, ports.SubmitApplicationInput) (*domain.Application, error) {
			return nil, domain.ErrDuplicatePending
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/applications", bobForm)
	c.Set(middleware.ContextUserID, "U1")

	if err := NewApplicationHandler(stub).Submit(c); !errors.Is(err, domain.ErrDuplicatePending) {
		t.Fatalf("expected duplicate pending, got %v", err)
	}
}

func TestApplicationHandler_List_PassesFilterAndActor(t *testing.T) {
	stub := &stubApplicationService{
		listAllFn: func(_ context.Context, input ports.ListApplicationsInput) ([]*domain.Application, error) {
			if !input.Actor.IsAdmin || input.Actor.UserID != "A1" {
				t.Fatalf("unexpected actor: %+v", input.Actor)
			}
			if input.Status != "pending" {
				t.Fatalf("expected status filter, got %q", input.Status)
			}
			return nil, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/applications?status=pending", "")
	c.Set(middleware.ContextUserID, "A1")
	c.Set(middleware.ContextIsAdmin, true)

	if err := NewApplicationHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestApplicationHandler_List_Forbidden(t *testing.T) {
	stub := &stubApplicationService{
		listAllFn: func(context.Context, ports.ListApplicationsInput) ([]*domain.Application, error) {
			return nil, domain.ErrForbidden
		},
	}
	c, _ := newJSONContext(http.MethodGet, "/api/applications", "")
	c.Set(middleware.ContextUserID, "U1")

	if err := NewApplicationHandler(stub).List(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApplicationHandler_Mine(t *testing.T) {
	stub := &stubApplicationService{
		listMineFn: func(_ context.Context, actor domain.Actor) ([]*domain.Application, error) {
			return []*domain.Application{{ID: 1, UserID: actor.UserID, RobloxUsername: "Bob123", Status: domain.StatusApproved}}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/applications/mine", "")
	c.Set(middleware.ContextUserID, "U1")

	if err := NewApplicationHandler(stub).Mine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["user_id"] != "U1" || resp[0]["status"] != "approved" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestApplicationHandler_Stats(t *testing.T) {
	stub := &stubApplicationService{
		statsFn: func(context.Context, domain.Actor) (*ports.ApplicationStats, error) {
			return &ports.ApplicationStats{Pending: 2, Approved: 1, Total: 3}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/applications/stats", "")
	c.Set(middleware.ContextUserID, "A1")
	c.Set(middleware.ContextIsAdmin, true)

	if err := NewApplicationHandler(stub).Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp ports.ApplicationStats
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Pending != 2 || resp.Total != 3 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}

func TestApplicationHandler_UpdateStatus_Success(t *testing.T) {
	stub := &stubApplicationService{
		setStatusFn: func(_ context.Context, input ports.SetStatusInput) (*domain.Application, error) {
			if input.ApplicationID != 42 || input.Status != "approved" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.AdminNotes == nil || *input.AdminNotes != "Welcome" {
				t.Fatalf("expected notes, got %v", input.AdminNotes)
			}
			return &domain.Application{ID: 42, Status: domain.StatusApproved}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPatch, "/api/applications/42", `{"status":"approved","admin_notes":"Welcome"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set(middleware.ContextUserID, "A1")
	c.Set(middleware.ContextIsAdmin, true)

	if err := NewApplicationHandler(stub).UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestApplicationHandler_UpdateStatus_NotesOmitted(t *testing.T) {
	stub := &stubApplicationService{
		setStatusFn: func(_ context.Context, input ports.SetStatusInput) (*domain.Application, error) {
			if input.AdminNotes != nil {
				t.Fatalf("expected nil notes, got %q", *input.AdminNotes)
			}
			return &domain.Application{ID: 1, Status: domain.StatusRejected}, nil
		},
	}
	c, _ := newJSONContext(http.MethodPatch, "/api/applications/1", `{"status":"rejected"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := NewApplicationHandler(stub).UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestApplicationHandler_UpdateStatus_Rejects(t *testing.T) {
	never := &stubApplicationService{
		setStatusFn: func(context.Context, ports.SetStatusInput) (*domain.Application, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}

	c, _ := newJSONContext(http.MethodPatch, "/api/applications/abc", `{"status":"approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	var he *echo.HTTPError
	if err := NewApplicationHandler(never).UpdateStatus(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %v", err)
	}

	for _, body := range []string{`{"status":"pending"}`, `{"status":"maybe"}`, `{}`} {
		c, _ := newJSONContext(http.MethodPatch, "/api/applications/1", body)
		c.SetParamNames("id")
		c.SetParamValues("1")
		if err := NewApplicationHandler(never).UpdateStatus(c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("body %s: expected validation error, got %v", body, err)
		}
	}
}

func TestApplicationHandler_UpdateStatus_NotFound(t *testing.T) {
	stub := &stubApplicationService{
		setStatusFn: func(context.Context, ports.SetStatusInput) (*domain.Application, error) {
			return nil, domain.ErrApplicationNotFound
		},
	}
	c, _ := newJSONContext(http.MethodPatch, "/api/applications/99", `{"status":"approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := NewApplicationHandler(stub).UpdateStatus(c); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
