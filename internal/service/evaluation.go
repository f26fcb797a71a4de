package service

import "github.com/haatos/simple-cms/internal/store"

// Evaluation is the per-request authentication state. It carries the
// transport tokens and memoises the resolved identity, the installed modules
// and the rights of that identity. A fresh Evaluation is built for every
// request; it must never be shared between identities.
type Evaluation struct {
	SessionID string
	SecretKey string
	CSRFToken string

	loggedIn         *bool
	user             *store.User
	installedModules map[string]bool
	allowedModules   map[string]bool
	allowedActions   map[string]map[string]int64
}

func NewEvaluation(sessionID, secretKey string) *Evaluation {
	return &Evaluation{SessionID: sessionID, SecretKey: secretKey}
}

// User returns the resolved user, or nil when the evaluation is anonymous or
// has not been checked yet.
func (ev *Evaluation) User() *store.User {
	return ev.user
}

// LoggedIn reports the memoised login state without querying anything.
func (ev *Evaluation) LoggedIn() bool {
	return ev.loggedIn != nil && *ev.loggedIn
}

// Reset drops everything memoised so the next check starts over. The
// transport tokens are kept.
func (ev *Evaluation) Reset() {
	ev.loggedIn = nil
	ev.user = nil
	ev.installedModules = nil
	ev.allowedModules = nil
	ev.allowedActions = nil
}

func (ev *Evaluation) setLoggedIn(u *store.User) {
	ev.Reset()
	loggedIn := true
	ev.loggedIn = &loggedIn
	ev.user = u
}

func (ev *Evaluation) setAnonymous() {
	ev.Reset()
	loggedIn := false
	ev.loggedIn = &loggedIn
	ev.SecretKey = ""
}
