// Package views holds the backend pages. Components are plain
// templ.ComponentFunc values so they render without code generation.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/haatos/simple-cms/internal/store"
)

var e = templ.EscapeString

func write(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s</title>`+
				`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`+
				`</head><body hx-boost="true"><main id="main">`,
			e(title),
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</main></body></html>`)
	})
}

func csrfField(token string) string {
	return fmt.Sprintf(`<input type="hidden" name="form_token" value="%s">`, e(token))
}

func message(text string) string {
	if text == "" {
		return ""
	}
	return fmt.Sprintf(`<p class="message" role="alert">%s</p>`, e(text))
}

func LoginMain(csrfToken, email, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<h1>Log in</h1>%s`+
				`<form method="post" action="/authentication/login">%s`+
				`<label>Email <input type="email" name="email" value="%s" required autofocus></label>`+
				`<label>Password <input type="password" name="password" required></label>`+
				`<button type="submit">Log in</button></form>`+
				`<a href="/authentication/forgot-password">Forgot password?</a>`,
			message(errorMessage), csrfField(csrfToken), e(email),
		)
	})
}

func LoginPage(csrfToken, email, errorMessage string) templ.Component {
	return page("Log in", LoginMain(csrfToken, email, errorMessage))
}

func ForgotPasswordPage(csrfToken, info string) templ.Component {
	return page("Forgot password", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<h1>Forgot password</h1>%s`+
				`<form method="post" action="/authentication/forgot-password">%s`+
				`<label>Email <input type="email" name="email" required></label>`+
				`<button type="submit">Send reset link</button></form>`,
			message(info), csrfField(csrfToken),
		)
	}))
}

func ResetPasswordPage(csrfToken, email, key, errorMessage string) templ.Component {
	return page("Reset password", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<h1>Reset password</h1>%s`+
				`<form method="post" action="/authentication/reset-password">%s`+
				`<input type="hidden" name="email" value="%s">`+
				`<input type="hidden" name="key" value="%s">`+
				`<label>New password <input type="password" name="password" required `+
				`hx-post="/authentication/password-strength" hx-trigger="keyup changed delay:300ms" `+
				`hx-target="#strength"></label><span id="strength"></span>`+
				`<label>Confirm <input type="password" name="password_confirm" required></label>`+
				`<button type="submit">Save</button></form>`,
			message(errorMessage), csrfField(csrfToken), e(email), e(key),
		)
	}))
}

func DashboardPage(u *store.User) templ.Component {
	return page("Dashboard", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<h1>Dashboard</h1><p>Logged in as %s</p><a href="/authentication/logout">Log out</a>`,
			e(u.Email),
		)
	}))
}

func UsersPage(users []*store.User) templ.Component {
	return page("Users", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<h1>Users</h1><table><thead><tr><th>Email</th><th>Active</th><th>God</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, u := range users {
			if err := write(w,
				`<tr id="user-%d"><td>%s</td><td>%t</td><td>%t</td></tr>`,
				u.ID, e(u.Email), u.Active, u.IsGod,
			); err != nil {
				return err
			}
		}
		return write(w, `</tbody></table>`)
	}))
}

func ErrorMain(title, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w, `<h1>%s</h1><p>%s</p>`, e(title), e(text))
	})
}

func ErrorPage(title, text string) templ.Component {
	return page(title, ErrorMain(title, text))
}

func FailureToast(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w, `<div class="toast toast-failure" role="alert">%s</div>`, e(text))
	})
}

func SuccessToast(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w, `<div class="toast toast-success" role="status">%s</div>`, e(text))
	})
}

func PasswordStrength(strength string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w, `<span class="strength strength-%s">%s</span>`, e(strength), e(strength))
	})
}
