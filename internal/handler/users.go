package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/haatos/simple-cms/internal/views"
	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(g *echo.Group, h *UserHandler, m *Middleware) {
	usersGroup := g.Group("/users")
	usersGroup.GET("", h.GetUsersPage, m.Action("Users", "Index"))
	usersGroup.POST("", h.PostUser, m.Action("Users", "Add"))
	usersGroup.PATCH("/:user_id/password", h.PatchUserPassword, m.Action("Users", "Edit"))
	usersGroup.DELETE("/:user_id", h.DeleteUser, m.Action("Users", "Delete"))
}

type UserServicer interface {
	ListUsers(context.Context) ([]*store.User, error)
	GetUserByID(context.Context, int64) (*store.User, error)
	CreateUser(context.Context, string, string, bool) (*store.User, error)
	SetUserPassword(context.Context, int64, string) error
	DeleteUser(context.Context, int64) error
}

type UserHandler struct {
	userService UserServicer
}

func NewUserHandler(userService UserServicer) *UserHandler {
	return &UserHandler{userService}
}

func (h *UserHandler) GetUsersPage(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to list users")
	}
	return render(c, views.UsersPage(users))
}

func (h *UserHandler) PostUser(c echo.Context) error {
	up := new(UserParams)
	if err := c.Bind(up); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid user data")
	}
	if up.Email == "" {
		return newError(c, nil, http.StatusBadRequest, "email is required")
	}
	if security.CheckPassword(up.Password) == security.Weak {
		return newError(c, nil, http.StatusBadRequest, "password is too weak")
	}
	if u := getCtxUser(c); up.IsGod && (u == nil || !u.IsGod) {
		return newError(c, nil, http.StatusForbidden, "only god users can create god users")
	}

	u, err := h.userService.CreateUser(c.Request().Context(), up.Email, up.Password, up.IsGod)
	if err != nil {
		if isUniqueConstraintError(err) {
			return newError(c, err, http.StatusConflict, "a user with that email already exists")
		}
		return newError(c, err, http.StatusInternalServerError, "unable to create user")
	}
	if isHXRequest(c) {
		return renderToast(c, views.SuccessToast(fmt.Sprintf("user %s created", u.Email)))
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) PatchUserPassword(c echo.Context) error {
	up := new(UserParams)
	if err := c.Bind(up); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid user data")
	}
	if security.CheckPassword(up.Password) == security.Weak {
		return newError(c, nil, http.StatusBadRequest, "password is too weak")
	}
	if _, err := h.userService.GetUserByID(c.Request().Context(), up.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return newError(c, err, http.StatusNotFound, "user not found")
		}
		return newError(c, err, http.StatusInternalServerError, "unable to read user")
	}
	if err := h.userService.SetUserPassword(
		c.Request().Context(), up.UserID, up.Password,
	); err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to update password")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	up := new(UserParams)
	if err := c.Bind(up); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid user id")
	}
	if u := getCtxUser(c); u != nil && u.ID == up.UserID {
		return newError(c, nil, http.StatusBadRequest, "you cannot delete yourself")
	}
	if err := h.userService.DeleteUser(c.Request().Context(), up.UserID); err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}
