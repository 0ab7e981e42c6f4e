package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/ports"
)

// PageHandler serves the demo "page" routes: small JSON payloads standing in
// for the portal's views. What matters is which routes are reachable, not
// what they render — the guards in front of them are the exercise.
type PageHandler struct {
	store ports.UserStore
}

func NewPageHandler(store ports.UserStore) *PageHandler {
	return &PageHandler{store: store}
}

type pageResponse struct {
	View  string       `json:"view"`
	Title string       `json:"title"`
	User  *domain.User `json:"user,omitempty"`
}

// Page returns a handler rendering a plain guarded view.
func (h *PageHandler) Page(view, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := pageResponse{View: view, Title: title}
		if u, ok := h.store.CurrentUser(); ok {
			resp.User = &u
		}
		return c.JSON(http.StatusOK, resp)
	}
}

type loginPageResponse struct {
	View      string `json:"view"`
	Title     string `json:"title"`
	ReturnURL string `json:"return_url,omitempty"`
}

// Login is public; it echoes the returnUrl a denying guard attached so the
// client can navigate back after authenticating.
func (h *PageHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, loginPageResponse{
		View:      "login",
		Title:     "Login - LRMS",
		ReturnURL: c.QueryParam("returnUrl"),
	})
}

// Unauthorized is the landing page for role denials.
func (h *PageHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{View: "unauthorized", Title: "Access Denied - LRMS"})
}

type dashboardResponse struct {
	pageResponse
	UserCount       int    `json:"user_count"`
	ActiveUserCount int    `json:"active_user_count"`
	StreamPath      string `json:"stream_path"`
}

// Dashboard adds the user counters and points at the live update stream
// its widget consumes.
func (h *PageHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	resp := dashboardResponse{
		pageResponse:    pageResponse{View: "dashboard", Title: "Dashboard - LRMS"},
		UserCount:       h.store.Count(ctx),
		ActiveUserCount: h.store.ActiveCount(ctx),
		StreamPath:      "/stream",
	}
	if u, ok := h.store.CurrentUser(); ok {
		resp.User = &u
	}
	return c.JSON(http.StatusOK, resp)
}

type adminPageResponse struct {
	pageResponse
	Users []domain.User `json:"users"`
}

// Admin renders the user management view.
func (h *PageHandler) Admin(c echo.Context) error {
	resp := adminPageResponse{
		pageResponse: pageResponse{View: "admin", Title: "Admin Dashboard - LRMS"},
		Users:        h.store.AllUsers(c.Request().Context()),
	}
	if u, ok := h.store.CurrentUser(); ok {
		resp.User = &u
	}
	return c.JSON(http.StatusOK, resp)
}
