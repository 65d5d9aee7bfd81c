package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/validation"
)

// readLine prompts on stderr and reads one line from the command's input.
// The reader is shared so buffered input survives between prompts.
func (a *app) readLine(cmd *cobra.Command, prompt string) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// flagOrPrompt returns the flag value, asking for it when the flag is empty.
func (a *app) flagOrPrompt(cmd *cobra.Command, name, prompt string) (string, error) {
	v, _ := cmd.Flags().GetString(name)
	if v != "" {
		return v, nil
	}
	return a.readLine(cmd, prompt)
}

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			login, _ := cmd.Flags().GetString("login")
			email, _ := cmd.Flags().GetString("email")
			password, err := a.flagOrPrompt(cmd, "password", "Пароль: ")
			if err != nil {
				return err
			}

			if validation.ValidateRegistration(login, email, password, password).Valid() {
				if err := a.checkAvailable(cmd, login, email); err != nil {
					return err
				}
			}

			res, err := a.api.Register(cmd.Context(), client.RegisterRequest{
				Login:    login,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			a.notify.Success(fmt.Sprintf("Аккаунт %s создан", res.User.Login))
			return nil
		},
	}
	cmd.Flags().String("login", "", "login (3-64 letters, digits, _ or -)")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "password; prompted when omitted")
	return cmd
}

// checkAvailable asks the server about login and email before registering,
// the way the sign-up form does.
func (a *app) checkAvailable(cmd *cobra.Command, login, email string) error {
	taken := map[string]string{}
	ok, err := a.api.CheckLogin(cmd.Context(), login)
	if err != nil {
		return err
	}
	if !ok {
		taken["login"] = "Логин уже занят"
	}
	ok, err = a.api.CheckEmail(cmd.Context(), email)
	if err != nil {
		return err
	}
	if !ok {
		taken["email"] = "Email уже зарегистрирован"
	}
	if len(taken) > 0 {
		return &client.ValidationError{Errors: taken}
	}
	return nil
}

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <login-or-email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.flagOrPrompt(cmd, "password", "Пароль: ")
			if err != nil {
				return err
			}
			res, err := a.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			a.notify.Success(fmt.Sprintf("Вы вошли как %s", res.User.Login))
			return nil
		},
	}
	cmd.Flags().String("password", "", "password; prompted when omitted")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Logout(cmd.Context()); err != nil {
				return err
			}
			a.notify.Info("Вы вышли из аккаунта")
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%s <%s>\nКолод: %d\n", u.Login, u.Email, u.DecksCount)
			return nil
		},
	}
}

func (a *app) passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password and end other sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.flagOrPrompt(cmd, "current", "Текущий пароль: ")
			if err != nil {
				return err
			}
			next, err := a.flagOrPrompt(cmd, "new", "Новый пароль: ")
			if err != nil {
				return err
			}
			if err := a.api.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			a.notify.Success("Пароль изменён")
			return nil
		},
	}
	cmd.Flags().String("current", "", "current password")
	cmd.Flags().String("new", "", "new password")
	return cmd
}
