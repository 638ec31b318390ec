package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/session"
	"github.com/felixgeelhaar/feedfort/internal/validate"
)

// Restore loads the persisted session and opens the dashboard when it is
// valid, the login screen otherwise
func (a *App) Restore(ctx context.Context) bool {
	sess, err := a.sessions.Load()
	if err != nil {
		a.logger.WithError(err).Warn("could not restore session")
		sess = session.Session{}
	}

	if !sess.Valid() {
		a.client.SetToken("")
		a.Show(ctx, LoginScreen)
		return false
	}

	a.client.SetToken(sess.Token)
	a.store.Update(func(s *State) { s.Session = sess })
	a.logger.Info("session restored", "username", sess.User.Username)
	a.Show(ctx, DashboardScreen)
	return true
}

// Login posts the credentials. On success the session is persisted and the
// dashboard opens.
func (a *App) Login(ctx context.Context, username, password string) error {
	if err := validate.Login(username, password); err != nil {
		return a.fail(err, "")
	}

	release, ok := a.acquire("login")
	if !ok {
		return busyError
	}
	defer release()

	done := a.beginLoading()
	defer done()

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		if api.IsTransport(err) {
			return a.fail(err, "")
		}
		return a.fail(errors.Wrap(errors.ErrCodeLoginFailed, MsgLoginFailed, err), MsgLoginFailed)
	}
	if resp.Token == "" {
		return a.fail(errors.New(errors.ErrCodeLoginFailed, MsgLoginFailed), MsgLoginFailed)
	}

	user := resp.User
	sess := session.Session{Token: resp.Token, User: &user}
	if err := a.sessions.Save(sess); err != nil {
		a.logger.WithError(err).Warn("session not persisted")
	}

	a.client.SetToken(sess.Token)
	a.store.Update(func(s *State) {
		s.Session = sess
		s.Draft = Draft{}
	})
	a.logger.Info("logged in", "username", user.Username, "user_type", string(user.UserType))
	a.Notify(NotifySuccess, MsgLoginOK)
	a.Show(ctx, DashboardScreen)
	return nil
}

// Logout forgets the session in memory and on disk and opens the login
// screen
func (a *App) Logout(ctx context.Context) {
	a.clearSession()
	a.logger.Info("logged out")
	a.Show(ctx, LoginScreen)
	a.Notify(NotifyInfo, MsgLogoutOK)
}

// expire runs on any 401. It is the same as Logout with a different message,
// and only notifies once when several calls fail together.
func (a *App) expire() {
	wasLoggedIn := a.store.Snapshot().LoggedIn()
	a.clearSession()
	a.Show(context.Background(), LoginScreen)
	if wasLoggedIn {
		a.logger.Info("session expired")
		a.Notify(NotifyError, MsgSessionExpired)
	}
}

func (a *App) clearSession() {
	if err := a.sessions.Clear(); err != nil {
		a.logger.WithError(err).Warn("session file not cleared")
	}
	a.client.SetToken("")
	a.store.Update(func(s *State) {
		s.Session = session.Session{}
		s.Draft = Draft{}
		s.Overlay = OverlayNone
		s.Confirm = nil
		s.Banner = ""
		s.ShowAdmin = false
	})
}

// banner is the dashboard user line
func banner(sess session.Session) string {
	if !sess.Valid() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", sess.User.Username, sess.User.UserType)
}
