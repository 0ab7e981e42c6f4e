package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/core/guard"
	"github.com/lrms/access-portal/internal/core/ports"
)

// ProfileHandler exposes the profile editor and its deactivation flow.
type ProfileHandler struct {
	store  ports.UserStore
	editor *ProfileEditor
	log    zerolog.Logger
}

func NewProfileHandler(store ports.UserStore, editor *ProfileEditor, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{store: store, editor: editor, log: log}
}

type editProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type leaveResponse struct {
	Left     bool   `json:"left"`
	Dirty    bool   `json:"dirty"`
	Redirect string `json:"redirect,omitempty"`
}

// Get returns the editor state for the session user.
//
// @Summary      Profile editor state
// @Tags         profile
// @Produce      json
// @Success      200  {object}  ProfileState
// @Failure      401  {object}  map[string]string
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	state, ok := h.editor.State()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(http.StatusOK, state)
}

// Edit updates draft fields; the editor turns Dirty when they diverge from
// the saved snapshot.
//
// @Summary      Edit profile draft
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      editProfileRequest  true  "Draft fields"
// @Success      200   {object}  ProfileState
// @Failure      401   {object}  map[string]string
// @Router       /api/profile [put]
func (h *ProfileHandler) Edit(c echo.Context) error {
	if _, ok := h.editor.State(); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var req editProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.editor.Edit(req.Name, req.Email)
	state, _ := h.editor.State()
	return c.JSON(http.StatusOK, state)
}

// Save commits the draft through the store and refreshes the session
// snapshot, returning the editor to Clean.
//
// @Summary      Save profile draft
// @Tags         profile
// @Produce      json
// @Success      200  {object}  ProfileState
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/profile/save [post]
func (h *ProfileHandler) Save(c echo.Context) error {
	id, name, email, ok := h.editor.PendingCommit()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	updated, err := h.store.UpdateUser(c.Request().Context(), id, ports.UpdateUserInput{
		Name:  &name,
		Email: &email,
	})
	if err != nil {
		return err
	}

	h.editor.MarkSaved(updated)
	h.store.SetCurrentUser(&updated)

	state, _ := h.editor.State()
	return c.JSON(http.StatusOK, state)
}

// Discard abandons the draft.
//
// @Summary      Discard profile draft
// @Tags         profile
// @Produce      json
// @Success      200  {object}  ProfileState
// @Failure      401  {object}  map[string]string
// @Router       /api/profile/discard [post]
func (h *ProfileHandler) Discard(c echo.Context) error {
	if _, ok := h.editor.State(); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	h.editor.Discard()
	state, _ := h.editor.State()
	return c.JSON(http.StatusOK, state)
}

// Leave runs the deactivation guard for navigating away from the editor.
// The confirm query parameter is the user's answer to the blocking prompt:
// confirmed leave discards pending edits, a declined one keeps the view
// Dirty and the route active (409).
//
// @Summary      Leave the profile editor
// @Tags         profile
// @Produce      json
// @Param        confirm  query     bool  false  "Answer to the unsaved-changes prompt"
// @Success      200      {object}  leaveResponse
// @Failure      409      {object}  leaveResponse
// @Router       /api/profile/leave [post]
func (h *ProfileHandler) Leave(c echo.Context) error {
	confirmed := c.QueryParam("confirm") == "true"
	g := guard.NewUnsavedChangesGuard(func(string) bool { return confirmed }, h.log)

	if !g.CanDeactivate(h.editor) {
		return c.JSON(http.StatusConflict, leaveResponse{Left: false, Dirty: true})
	}

	// Leaving implicitly discards whatever was pending.
	h.editor.Discard()
	return c.JSON(http.StatusOK, leaveResponse{Left: true, Redirect: "/dashboard"})
}
