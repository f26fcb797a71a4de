package service

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/haatos/simple-cms/internal"
	"github.com/haatos/simple-cms/internal/settings"
	"github.com/labstack/echo/v4"
)

// CookieService carries the transport session id in a signed and encrypted
// cookie. Everything else about the session lives server side.
type CookieService struct {
	s *securecookie.SecureCookie
}

func NewCookieService(hashKey, blockKey []byte) *CookieService {
	return &CookieService{
		s: securecookie.New(hashKey, blockKey),
	}
}

func (cs *CookieService) GetSessionID(c echo.Context) (string, error) {
	cookie, err := c.Cookie(internal.SessionCookie)
	if err != nil {
		return "", err
	}
	values := make(map[string]string)
	if err := cs.s.Decode(internal.SessionCookie, cookie.Value, &values); err != nil {
		return "", err
	}
	if values["session_id"] == "" {
		return "", ErrMissingSessionID
	}
	return values["session_id"], nil
}

// EnsureSessionID returns the session id from the request cookie, starting a
// new transport session when there is none or it cannot be decoded.
func (cs *CookieService) EnsureSessionID(c echo.Context) (string, bool, error) {
	if sessionID, err := cs.GetSessionID(c); err == nil {
		return sessionID, false, nil
	}
	sessionID := uuid.NewString()
	if err := cs.SetSessionCookie(c, sessionID); err != nil {
		return "", false, err
	}
	return sessionID, true, nil
}

func (cs *CookieService) SetSessionCookie(c echo.Context, sessionID string) error {
	encoded, err := cs.s.Encode(internal.SessionCookie, map[string]string{"session_id": sessionID})
	if err != nil {
		return err
	}
	c.SetCookie(cs.cookie(encoded, time.Now().UTC().Add(settings.Settings.CookieExpires)))
	return nil
}

func (cs *CookieService) RemoveSessionCookie(c echo.Context) {
	c.SetCookie(cs.cookie("", time.Now().UTC()))
}

func (cs *CookieService) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     internal.SessionCookie,
		Value:    value,
		Path:     "/",
		Secure:   settings.Settings.Domain != "localhost",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		Domain:   settings.Settings.Domain,
	}
}
