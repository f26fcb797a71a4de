package handler

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/haatos/simple-cms/internal"
	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthServicer interface {
	IsLoggedIn(context.Context, *service.Evaluation) bool
	Login(context.Context, *service.Evaluation, string, string) (*store.UserSession, error)
	Logout(context.Context, *service.Evaluation) error
	IsAllowedModule(context.Context, *service.Evaluation, string) bool
	IsAllowedAction(context.Context, *service.Evaluation, string, string) bool
}

type SessionCookieServicer interface {
	EnsureSessionID(echo.Context) (string, bool, error)
}

type SessionValueStore interface {
	Get(context.Context, string) (*store.SessionValues, error)
	Set(context.Context, *store.SessionValues) error
}

type Middleware struct {
	auth      AuthServicer
	cookies   SessionCookieServicer
	values    SessionValueStore
	valuesTTL time.Duration
	logger    *zap.SugaredLogger
}

func NewMiddleware(
	auth AuthServicer,
	cookies SessionCookieServicer,
	values SessionValueStore,
	valuesTTL time.Duration,
	logger *zap.SugaredLogger,
) *Middleware {
	return &Middleware{auth, cookies, values, valuesTTL, logger}
}

// Session builds the request's Evaluation from the transport session and
// writes the resulting session values back once the handler is done.
func (m *Middleware) Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sessionID, _, err := m.cookies.EnsureSessionID(c)
		if err != nil {
			return newError(c, err, http.StatusInternalServerError, "unable to start session")
		}

		sv, err := m.values.Get(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				m.logger.Warnw("reading session values", "error", err)
			}
			sv = &store.SessionValues{SessionID: sessionID}
		}

		ev := service.NewEvaluation(sessionID, "")
		ev.CSRFToken = sv.CSRFToken
		if ev.CSRFToken == "" {
			ev.CSRFToken = uuid.NewString()
		}
		if sv.LoggedIn {
			ev.SecretKey = sv.SecretKey
			m.auth.IsLoggedIn(ctx, ev)
		}
		c.Set(evaluationKey, ev)

		handlerErr := next(c)

		if ev.CSRFToken == "" {
			ev.CSRFToken = uuid.NewString()
		}
		if err := m.values.Set(ctx, &store.SessionValues{
			SessionID: sessionID,
			LoggedIn:  ev.LoggedIn(),
			SecretKey: ev.SecretKey,
			CSRFToken: ev.CSRFToken,
			Expires:   time.Now().UTC().Add(m.valuesTTL),
		}); err != nil {
			m.logger.Warnw("storing session values", "error", err)
		}
		return handlerErr
	}
}

// VerifyFormToken rejects state changing requests whose form token does not
// match the one stored in the session.
func (m *Middleware) VerifyFormToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return next(c)
		}
		token := c.Request().Header.Get(internal.CSRFTokenHeader)
		if token == "" {
			token = c.FormValue(internal.CSRFTokenField)
		}
		expected := getCtxEvaluation(c).CSRFToken
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
			return newError(c, nil, http.StatusForbidden, "invalid form token")
		}
		return next(c)
	}
}

func (m *Middleware) AlreadyLoggedIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.auth.IsLoggedIn(c.Request().Context(), getCtxEvaluation(c)) {
			return redirect(c, "/dashboard")
		}
		return next(c)
	}
}

// Action guards a route with the module and action rights of the current
// identity. Anonymous requests for anything not always allowed are sent to
// the login page.
func (m *Middleware) Action(module, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ev := getCtxEvaluation(c)
			if m.auth.IsAllowedModule(ctx, ev, module) &&
				m.auth.IsAllowedAction(ctx, ev, action, module) {
				return next(c)
			}
			if !m.auth.IsLoggedIn(ctx, ev) {
				return redirect(c, "/authentication?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}
			return newError(c, nil, http.StatusForbidden, "you are not allowed to access this page")
		}
	}
}
