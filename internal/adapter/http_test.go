package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
)

func newTestAdapter(t *testing.T, handler http.Handler) ServerAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL, Timeout: time.Second})
}

func TestLogin_StoresToken(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode login request: %v", err)
		}
		if req.Email != "jane@fixit.local" {
			t.Errorf("unexpected email %q", req.Email)
		}
		_ = json.NewEncoder(w).Encode(models.LoginResponse{
			User:  models.User{ID: "u-1", Email: req.Email},
			Token: "signed-token",
		})
	}))

	resp, err := a.Login(context.Background(), "jane@fixit.local", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != "u-1" {
		t.Errorf("expected user u-1, got %s", resp.User.ID)
	}
	if a.Token() != "signed-token" {
		t.Errorf("expected adapter to store token, got %q", a.Token())
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "wrong password"})
	}))

	_, err := a.Login(context.Background(), "jane@fixit.local", "nope")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if a.Token() != "" {
		t.Errorf("token must stay empty after failed login, got %q", a.Token())
	}
}

func TestAuthedRequests_CarryBearerToken(t *testing.T) {
	var gotAuth string
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.User{})
	}))
	a.SetToken("tok-123")

	if _, err := a.GetAllUsers(context.Background()); err != nil {
		t.Fatalf("get all users: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestGetAllTickets_SendsFilterParams(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "open" || q.Get("assignee_id") != "u-9" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Has("priority") || q.Has("category") || q.Has("creator_id") {
			t.Errorf("zero filter fields must be omitted, got %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]models.Ticket{{ID: "t-1"}})
	}))

	tickets, err := a.GetAllTickets(context.Background(), models.TicketFilter{
		Status:     models.StatusOpen,
		AssigneeID: "u-9",
	})
	if err != nil {
		t.Fatalf("get all tickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "t-1" {
		t.Errorf("unexpected tickets %+v", tickets)
	}
}

func TestUpdateTicket_ConflictOnBadTransition(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid status transition"})
	}))

	status := models.StatusOpen
	_, err := a.UpdateTicket(context.Background(), "t-1", models.UpdateTicketRequest{Status: &status})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetTicket_NotFound(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "no ticket was found"})
	}))

	_, err := a.GetTicket(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("ok"))
	}))

	if err := a.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	a := NewHTTPServerAdapter(HTTPClientConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})

	if err := a.Health(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
