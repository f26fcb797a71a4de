package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type HTMXError struct {
	Internal error `json:"-"`
	Message  any   `json:"message"`
	Code     int   `json:"-"`
}

func newHTMXError(code int, message ...any) *HTMXError {
	he := &HTMXError{Code: code, Message: http.StatusText(code)}
	if len(message) > 0 {
		he.Message = message[0]
	}
	return he
}

func (he *HTMXError) Error() string {
	if he.Internal == nil {
		return fmt.Sprintf("code=%d, message=%v", he.Code, he.Message)
	}
	return fmt.Sprintf("code=%d, message=%v, internal=%v", he.Code, he.Message, he.Internal)
}

func (he *HTMXError) WithInternal(err error) *HTMXError {
	return &HTMXError{
		Code:     he.Code,
		Message:  he.Message,
		Internal: err,
	}
}

func (he *HTMXError) Unwrap() error {
	return he.Internal
}

func isHXRequest(c echo.Context) bool {
	return c.Request().Header.Get("hx-request") != ""
}

// redirect answers htmx requests with hx-redirect and everything else with
// a 303.
func redirect(c echo.Context, url string) error {
	if isHXRequest(c) {
		c.Response().Header().Set("hx-redirect", url)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, url)
}
