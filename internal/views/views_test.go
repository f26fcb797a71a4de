package views

import (
	"context"
	"strings"
	"testing"

	"github.com/haatos/simple-cms/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestLoginPage(t *testing.T) {
	// arrange
	sb := new(strings.Builder)

	// act
	err := LoginPage("tok<en>", `a"b@example.com`, "invalid email or password").
		Render(context.Background(), sb)

	// assert
	assert.NoError(t, err)
	html := sb.String()
	assert.Contains(t, html, `name="form_token" value="tok&lt;en&gt;"`)
	assert.Contains(t, html, `value="a&#34;b@example.com"`)
	assert.Contains(t, html, "invalid email or password")
	assert.True(t, strings.HasSuffix(html, "</html>"))
}

func TestUsersPage(t *testing.T) {
	// arrange
	sb := new(strings.Builder)
	users := []*store.User{
		{ID: 1, Email: "god@example.com", Active: true, IsGod: true},
		{ID: 2, Email: "<script>@example.com", Active: false},
	}

	// act
	err := UsersPage(users).Render(context.Background(), sb)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sb.String(), `<tr id="user-1"><td>god@example.com</td><td>true</td><td>true</td></tr>`)
	assert.NotContains(t, sb.String(), "<script>@")
}
