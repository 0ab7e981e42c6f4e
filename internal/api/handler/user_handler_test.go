package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/store"
)

// asAdmin injects the claims the Auth middleware would set for an admin
// token, since mutating routes read them for audit logging.
func asAdmin(c echo.Context) {
	c.Set("role", "admin")
	c.Set("user_id", 1)
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) userListResponse {
	t.Helper()
	var resp userListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return resp
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}

	resp := decodeList(t, rec)
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Fatalf("expected 3 users, got %d", resp.Total)
	}
}

func TestUserHandler_List_RoleFilter(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users?role=admin", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}

	resp := decodeList(t, rec)
	if resp.Total != 1 || resp.Items[0].Email != "john@example.com" {
		t.Fatalf("unexpected admin filter result: %+v", resp)
	}
}

func TestUserHandler_List_InvalidRole(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users?role=superuser", nil), rec)
	if err := h.List(c); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserHandler_List_ActiveFilter(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users?active=true", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}

	resp := decodeList(t, rec)
	if resp.Total != 2 {
		t.Fatalf("expected 2 active users, got %d", resp.Total)
	}
	for _, u := range resp.Items {
		if !u.IsActive {
			t.Fatalf("inactive user in active filter: %+v", u)
		}
	}
}

func TestUserHandler_Search(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/search?q=jane", nil), rec)
	if err := h.Search(c); err != nil {
		t.Fatalf("Search error: %v", err)
	}

	resp := decodeList(t, rec)
	if resp.Total != 1 || resp.Items[0].Name != "Jane Smith" {
		t.Fatalf("unexpected search result: %+v", resp)
	}
}

func TestUserHandler_Stats(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/stats", nil), rec)
	if err := h.Stats(c); err != nil {
		t.Fatalf("Stats error: %v", err)
	}

	var resp userStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if resp.Total != 3 || resp.Active != 2 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}

	var u domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %v", err)
	}
}

func TestUserHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/users", `{"name":"Alice","email":"alice@example.com","role":"user","is_active":true}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asAdmin(c)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var u domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.ID != 4 {
		t.Fatalf("expected assigned id 4, got %d", u.ID)
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/users", `{"name":"Dup","email":"john@example.com","role":"user"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asAdmin(c)

	if err := h.Create(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserHandler_Create_BadRole(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/users", `{"name":"X","email":"x@example.com","role":"root"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asAdmin(c)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad role, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	req := jsonRequest(http.MethodPut, "/", `{"name":"Jane Renamed"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	var u domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Name != "Jane Renamed" || u.Email != "jane@example.com" {
		t.Fatalf("partial update broke other fields: %+v", u)
	}
}

func TestUserHandler_Update_EmailConflict(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(store.NewSeeded(zerolog.Nop(), false), zerolog.Nop())

	req := jsonRequest(http.MethodPut, "/", `{"email":"john@example.com"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Update(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserHandler_DeleteAndToggle(t *testing.T) {
	e := newTestEcho()
	st := store.NewSeeded(zerolog.Nop(), false)
	h := NewUserHandler(st, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	asAdmin(c)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}

	// Toggle bob (seeded inactive) back on.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Toggle(c); err != nil {
		t.Fatalf("Toggle error: %v", err)
	}

	var u domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if !u.IsActive {
		t.Fatalf("toggle did not activate user: %+v", u)
	}
}
