package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAccessHandler_GetAllowed(t *testing.T) {
	t.Run("success - module and action are checked", func(t *testing.T) {
		// arrange
		auth := new(testutil.MockAuthService)
		auth.On("IsAllowedModule", mock.Anything, mock.Anything, "users").Return(true)
		auth.On("IsAllowedAction", mock.Anything, mock.Anything, "Edit", "users").Return(true)
		auth.On("IsLoggedIn", mock.Anything, mock.Anything).Return(true)
		c, rec := newContext(http.MethodGet, "/api/allowed?module=users&action=Edit", nil)
		withEvaluation(c, service.NewEvaluation("sid", "secret"))
		h := NewAccessHandler(auth)

		// act
		err := h.GetAllowed(c)

		// assert
		assert.NoError(t, err)
		var res AllowedResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, AllowedResponse{Module: "Users", Action: "Edit", LoggedIn: true, Allowed: true}, res)
	})
	t.Run("success - denied module skips the action check", func(t *testing.T) {
		// arrange
		auth := new(testutil.MockAuthService)
		auth.On("IsAllowedModule", mock.Anything, mock.Anything, "Users").Return(false)
		auth.On("IsLoggedIn", mock.Anything, mock.Anything).Return(false)
		c, rec := newContext(http.MethodGet, "/api/allowed?module=Users&action=Edit", nil)
		withEvaluation(c, service.NewEvaluation("", ""))
		h := NewAccessHandler(auth)

		// act
		err := h.GetAllowed(c)

		// assert
		assert.NoError(t, err)
		var res AllowedResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Allowed)
		assert.False(t, res.LoggedIn)
		auth.AssertNotCalled(t, "IsAllowedAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("failure - module is required", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/allowed", nil)
		h := NewAccessHandler(new(testutil.MockAuthService))

		err := h.GetAllowed(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
