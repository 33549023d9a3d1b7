package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var deleted []string

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/google/redirect_url", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"redirect_url":"https://accounts.example/auth?x=1"}`))
	})
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct{ Code string }
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Code != "good" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid code"}`))
				return
			}
			_, _ = w.Write([]byte(`{"session_token":"provider-token"}`))
		case http.MethodDelete:
			deleted = append(deleted, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"U1","email":"bob@example.com","google_user_data":{"name":"Bob","picture":"https://img.example/bob.png"}}`))
	})
	mux.HandleFunc("/oauth/broken/redirect_url", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &deleted
}

func TestClient_SignInFlow(t *testing.T) {
	srv, deleted := newTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "key"})
	ctx := context.Background()

	redirect, err := c.RedirectURL(ctx, "google")
	if err != nil || redirect != "https://accounts.example/auth?x=1" {
		t.Fatalf("redirect url: %q %v", redirect, err)
	}

	token, err := c.ExchangeCode(ctx, "good")
	if err != nil || token != "provider-token" {
		t.Fatalf("exchange: %q %v", token, err)
	}

	user, err := c.FetchUser(ctx, token)
	if err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if user.ID != "U1" || user.Email != "bob@example.com" || user.Name != "Bob" || user.Picture == "" {
		t.Errorf("unexpected user %+v", user)
	}

	if err := c.DeleteSession(ctx, token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if len(*deleted) != 1 || (*deleted)[0] != "Bearer provider-token" {
		t.Errorf("expected bearer on delete, got %v", *deleted)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	ctx := context.Background()

	if _, err := c.ExchangeCode(ctx, "bad"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad code: expected ErrValidation, got %v", err)
	}
	if _, err := c.FetchUser(ctx, "expired"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bad session: expected ErrUnauthorized, got %v", err)
	}
	if _, err := c.RedirectURL(ctx, "broken"); !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Errorf("upstream failure: expected ErrIdentityUnavailable, got %v", err)
	}

	noKey := NewClient(Config{BaseURL: srv.URL})
	if _, err := noKey.RedirectURL(ctx, "google"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("missing api key: expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.ExchangeCode(context.Background(), "good"); !errors.Is(err, domain.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
}
