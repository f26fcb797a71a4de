package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/haatos/simple-cms/internal/views"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func SetupAuthRoutes(
	g *echo.Group,
	h *AuthHandler,
	m *Middleware,
	loginLimiter echo.MiddlewareFunc,
) {
	g.GET("/authentication", h.GetLoginPage, m.AlreadyLoggedIn)
	g.POST("/authentication/login", h.PostLogin, loginLimiter)
	g.GET("/authentication/logout", h.GetLogout)
	g.GET("/authentication/forgot-password", h.GetForgotPasswordPage)
	g.POST("/authentication/forgot-password", h.PostForgotPassword, loginLimiter)
	g.GET("/authentication/reset-password", h.GetResetPasswordPage)
	g.POST("/authentication/reset-password", h.PostResetPassword)
	g.POST("/authentication/password-strength", h.PostPasswordStrength)
}

type UserAuthServicer interface {
	RequestPasswordReset(context.Context, string, string) error
	VerifyResetKey(context.Context, string, string) (*store.User, error)
	ResetPassword(context.Context, string, string, string) error
}

type AuthHandler struct {
	authService AuthServicer
	userService UserAuthServicer
	baseURL     string
	logger      *zap.SugaredLogger
}

func NewAuthHandler(
	authService AuthServicer,
	userService UserAuthServicer,
	baseURL string,
	logger *zap.SugaredLogger,
) *AuthHandler {
	return &AuthHandler{authService, userService, baseURL, logger}
}

func (h *AuthHandler) GetLoginPage(c echo.Context) error {
	ev := getCtxEvaluation(c)
	if isHXRequest(c) {
		return render(c, views.LoginMain(ev.CSRFToken, "", ""))
	}
	return render(c, views.LoginPage(ev.CSRFToken, "", ""))
}

func (h *AuthHandler) PostLogin(c echo.Context) error {
	lp := new(LoginParams)
	if err := c.Bind(lp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid login data")
	}

	ev := getCtxEvaluation(c)
	_, err := h.authService.Login(c.Request().Context(), ev, lp.Email, lp.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return renderStatus(
			c, http.StatusUnauthorized,
			views.LoginPage(ev.CSRFToken, lp.Email, "invalid email or password"),
		)
	}
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to log in")
	}

	return redirect(c, nextURL(lp.Next))
}

// nextURL only follows local paths.
func nextURL(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

func (h *AuthHandler) GetLogout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), getCtxEvaluation(c)); err != nil {
		h.logger.Warnw("logging out", "error", err)
	}
	return redirect(c, "/authentication")
}

func (h *AuthHandler) GetForgotPasswordPage(c echo.Context) error {
	return render(c, views.ForgotPasswordPage(getCtxEvaluation(c).CSRFToken, ""))
}

// PostForgotPassword answers the same way whether or not the email is known.
func (h *AuthHandler) PostForgotPassword(c echo.Context) error {
	fp := new(ForgotPasswordParams)
	if err := c.Bind(fp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid email")
	}

	err := h.userService.RequestPasswordReset(c.Request().Context(), fp.Email, h.baseURL)
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		return newError(c, err, http.StatusInternalServerError, "unable to reset password")
	}
	if errors.Is(err, service.ErrUserNotFound) {
		h.logger.Debugw("reset password requested for unknown email", "email", fp.Email)
	}

	return render(c, views.ForgotPasswordPage(
		getCtxEvaluation(c).CSRFToken,
		"if the email is registered, a reset link is on its way",
	))
}

func (h *AuthHandler) GetResetPasswordPage(c echo.Context) error {
	rp := new(ResetPasswordParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid reset link")
	}
	if _, err := h.userService.VerifyResetKey(
		c.Request().Context(), rp.Email, rp.Key,
	); err != nil {
		return resetError(c, err)
	}
	return render(c, views.ResetPasswordPage(getCtxEvaluation(c).CSRFToken, rp.Email, rp.Key, ""))
}

func (h *AuthHandler) PostResetPassword(c echo.Context) error {
	rp := new(ResetPasswordParams)
	if err := c.Bind(rp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid password data")
	}

	token := getCtxEvaluation(c).CSRFToken
	if rp.Password != rp.PasswordConfirm {
		return renderStatus(c, http.StatusBadRequest,
			views.ResetPasswordPage(token, rp.Email, rp.Key, "passwords do not match"))
	}
	if security.CheckPassword(rp.Password) == security.Weak {
		return renderStatus(c, http.StatusBadRequest,
			views.ResetPasswordPage(token, rp.Email, rp.Key, "password is too weak"))
	}

	if err := h.userService.ResetPassword(
		c.Request().Context(), rp.Email, rp.Key, rp.Password,
	); err != nil {
		return resetError(c, err)
	}
	return redirect(c, "/authentication")
}

func resetError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrInvalidResetKey) || errors.Is(err, service.ErrResetKeyExpired) {
		return newError(c, err, http.StatusBadRequest, "the reset link is invalid or has expired")
	}
	return newError(c, err, http.StatusInternalServerError, "unable to reset password")
}

func (h *AuthHandler) PostPasswordStrength(c echo.Context) error {
	pp := new(PasswordStrengthParams)
	if err := c.Bind(pp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid password")
	}
	strength := security.CheckPassword(pp.Password)
	if isHXRequest(c) {
		return render(c, views.PasswordStrength(string(strength)))
	}
	return c.JSON(http.StatusOK, map[string]string{"strength": string(strength)})
}
