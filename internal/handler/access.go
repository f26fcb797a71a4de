package handler

import (
	"net/http"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/views"
	"github.com/labstack/echo/v4"
)

type AllowedResponse struct {
	Module   string `json:"module"`
	Action   string `json:"action,omitempty"`
	LoggedIn bool   `json:"logged_in"`
	Allowed  bool   `json:"allowed"`
}

type AccessHandler struct {
	authService AuthServicer
}

func NewAccessHandler(authService AuthServicer) *AccessHandler {
	return &AccessHandler{authService}
}

// GetAllowed reports the access decision for a module, and an action of it
// when one is given, for the current identity.
func (h *AccessHandler) GetAllowed(c echo.Context) error {
	ap := new(AllowedParams)
	if err := c.Bind(ap); err != nil || ap.Module == "" {
		return c.JSON(http.StatusBadRequest, echo.HTTPError{Message: "module is required"})
	}

	ctx := c.Request().Context()
	ev := getCtxEvaluation(c)
	allowed := h.authService.IsAllowedModule(ctx, ev, ap.Module)
	if allowed && ap.Action != "" {
		allowed = h.authService.IsAllowedAction(ctx, ev, ap.Action, ap.Module)
	}

	return c.JSON(http.StatusOK, AllowedResponse{
		Module:   service.NormalizeModule(ap.Module),
		Action:   ap.Action,
		LoggedIn: h.authService.IsLoggedIn(ctx, ev),
		Allowed:  allowed,
	})
}

func (h *AccessHandler) GetDashboardPage(c echo.Context) error {
	return render(c, views.DashboardPage(getCtxUser(c)))
}
