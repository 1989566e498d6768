package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Position  string `json:"position,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=Employee Manager"`
	Region    string `json:"region,omitempty" validate:"omitempty,oneof=EMEA AMER APAC"`
	ManagerID string `json:"manager_id,omitempty"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Position  string `json:"position,omitempty"`
	Region    string `json:"region,omitempty" validate:"omitempty,oneof=EMEA AMER APAC"`
	ManagerID string `json:"manager_id,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=Employee Manager"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type notificationPrefRequest struct {
	Enabled bool `json:"enabled"`
}

// Create handles POST /v1/users. Manager only.
//
// @Summary      Add a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
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

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		ActorID:   userID,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
		Role:      req.Role,
		Region:    req.Region,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PUT /v1/users/:id.
//
// @Summary      Edit a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
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

	user, err := h.service.Update(c.Request().Context(), ports.UpdateUserInput{
		ActorID:   userID,
		UserID:    c.Param("id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
		Region:    req.Region,
		ManagerID: req.ManagerID,
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id. Manager only; cascades objectives.
//
// @Summary      Remove a user and their objectives
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get one user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        region  query     string  false  "Region filter"
// @Param        role    query     string  false  "Role filter"
// @Success      200     {array}   domain.User
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), ports.UserFilter{
		Region: c.QueryParam("region"),
		Role:   c.QueryParam("role"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetNotifications handles PUT /v1/users/me/notifications: the caller's
// own email opt-in preference.
//
// @Summary      Set the caller's email notification preference
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  notificationPrefRequest  true  "Preference"
// @Success      204
// @Router       /v1/users/me/notifications [put]
func (h *UserHandler) SetNotifications(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req notificationPrefRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.service.SetEmailNotifications(c.Request().Context(), userID, req.Enabled); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
