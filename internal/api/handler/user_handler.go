package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/ports"
)

type UserHandler struct {
	store ports.UserStore
	log   zerolog.Logger
}

func NewUserHandler(store ports.UserStore, log zerolog.Logger) *UserHandler {
	return &UserHandler{store: store, log: log}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin moderator user"`
	IsActive bool   `json:"is_active"`
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin moderator user"`
	IsActive *bool   `json:"is_active"`
}

type userListResponse struct {
	Items []domain.User `json:"items"`
	Total int           `json:"total"`
}

type userStatsResponse struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// List returns users, optionally filtered by role or active status.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role    query     string  false  "Filter by role"
// @Param        active  query     bool    false  "Only active users"
// @Success      200     {object}  userListResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var users []domain.User
	switch {
	case c.QueryParam("role") != "":
		role := domain.Role(c.QueryParam("role"))
		if !role.Valid() {
			return domain.ErrInvalidRole
		}
		users = h.store.UsersByRole(ctx, role)
	case c.QueryParam("active") == "true":
		users = h.store.ActiveUsers(ctx)
	default:
		users = h.store.AllUsers(ctx)
	}

	return c.JSON(http.StatusOK, userListResponse{Items: users, Total: len(users)})
}

// Search matches users by name, email, or role.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  userListResponse
// @Router       /api/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	users := h.store.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	return c.JSON(http.StatusOK, userListResponse{Items: users, Total: len(users)})
}

// Stats reports user counts.
//
// @Summary      User counts
// @Tags         users
// @Produce      json
// @Success      200  {object}  userStatsResponse
// @Router       /api/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, userStatsResponse{
		Total:  h.store.Count(ctx),
		Active: h.store.ActiveCount(ctx),
	})
}

// Get returns one user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, ok := h.store.UserByID(c.Request().Context(), id)
	if !ok {
		return domain.ErrUserNotFound
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a new user.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	role, actorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}

	h.log.Info().Int("actor_id", actorID).Str("actor_role", role).Int("user_id", user.ID).Msg("user created")
	return c.JSON(http.StatusCreated, user)
}

// Update merges the provided fields into an existing user.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.store.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	role, actorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.store.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}

	h.log.Info().Int("actor_id", actorID).Str("actor_role", role).Int("user_id", id).Msg("user deleted")
	return c.NoContent(http.StatusNoContent)
}

// Toggle flips a user's active status.
//
// @Summary      Toggle user status
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id}/toggle [post]
func (h *UserHandler) Toggle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.store.ToggleUserStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
