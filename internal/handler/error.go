package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/haatos/simple-cms/internal/views"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// NewErrorHandler renders HTTP errors as pages, htmx errors as toasts and
// anything else as JSON.
func NewErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		var hxe *HTMXError
		switch {
		case errors.As(err, &hxe):
			logger.Errorw("handler error", "path", c.Request().URL.Path, "code", hxe.Code, "error", hxe.Internal)
			if err := renderToast(c, views.FailureToast(fmt.Sprint(hxe.Message))); err != nil {
				logger.Errorw("rendering toast", "error", err)
			}
		case errors.As(err, &he):
			logger.Errorw("handler error", "path", c.Request().URL.Path, "code", he.Code, "error", he.Internal)
			if err := errorPage(c, he.Code, fmt.Sprint(he.Message)); err != nil {
				logger.Errorw("rendering error page", "error", err)
			}
		default:
			logger.Errorw("handler error", "path", c.Request().URL.Path, "error", err)
			if err := c.JSON(
				http.StatusInternalServerError,
				echo.HTTPError{Message: "something went terribly wrong"},
			); err != nil {
				logger.Errorw("returning json", "error", err)
			}
		}
	}
}

func errorPage(c echo.Context, status int, message string) error {
	title := fmt.Sprintf("%d - %s", status, http.StatusText(status))
	if isHXRequest(c) {
		return renderStatus(c, status, views.ErrorMain(title, message))
	}
	return renderStatus(c, status, views.ErrorPage(title, message))
}

func isUniqueConstraintError(err error) bool {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func newError(c echo.Context, err error, status int, message string) error {
	if isHXRequest(c) {
		e := newHTMXError(status, message)
		if err != nil {
			e = e.WithInternal(err)
		}
		return e
	}

	e := echo.NewHTTPError(status, message)
	if err != nil {
		e = e.WithInternal(err)
	}
	return e
}
