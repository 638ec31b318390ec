package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/session"
	"github.com/felixgeelhaar/feedfort/internal/tui"
	"github.com/felixgeelhaar/feedfort/internal/ux"
	"github.com/felixgeelhaar/feedfort/internal/validate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in to the feedback API. The token is stored encrypted in the session
file and reused by every other command and by the interactive interface.

Without --password-stdin the password is prompted for.

Examples:
  feedfort login
  feedfort login -u maria
  echo "$SENHA" | feedfort login -u maria --password-stdin`,
	Args: cobra.NoArgs,
	RunE: withEnv(runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runWhoami),
}

var (
	loginUsername      string
	loginPasswordStdin bool
)

// promptCredentials is swapped in tests
var promptCredentials = tui.PromptForCredentials

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(ctx context.Context, e *env, _ []string) error {
	username, password := strings.TrimSpace(loginUsername), ""

	switch {
	case loginPasswordStdin:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && line == "" {
			return errors.NewValidationError("Informe a senha")
		}
		password = strings.TrimRight(line, "\r\n")
	case shouldPrompt():
		var err error
		username, password, err = promptCredentials(username)
		if err != nil {
			return err
		}
	}

	if err := validate.Login(username, password); err != nil {
		return err
	}

	resp, err := e.Client.Login(ctx, username, password)
	if err != nil {
		if api.IsTransport(err) {
			return err
		}
		reason := "Erro no login"
		if r, ok := api.ServerReason(err); ok {
			reason = r
		}
		return errors.Wrap(errors.ErrCodeLoginFailed, reason, err)
	}
	if resp.Token == "" {
		return errors.New(errors.ErrCodeLoginFailed, "Erro no login")
	}

	user := resp.User
	if err := e.Sessions.Save(session.Session{Token: resp.Token, User: &user}); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "Erro ao salvar a sessão", err)
	}
	e.Logger.Info("logged in", "username", user.Username, "user_type", string(user.UserType))

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: user, Render: "Login realizado com sucesso! " + banner(user)})
}

func runLogout(_ context.Context, e *env, _ []string) error {
	if err := e.Sessions.Clear(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "Erro ao remover a sessão", err)
	}
	e.Logger.Info("logged out")
	_, err := fmt.Fprintln(e.Out, "Logout realizado com sucesso!")
	return err
}

func runWhoami(_ context.Context, e *env, _ []string) error {
	sess, err := e.requireSession()
	if err != nil {
		return err
	}
	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: sess.User, Render: banner(*sess.User)})
}

// banner is the "username (user_type)" line
func banner(u domain.User) string {
	return fmt.Sprintf("%s (%s)", u.Username, u.UserType)
}
