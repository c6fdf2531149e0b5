package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/pkg/model"
)

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.cmd.ErrOrStderr(), prompt)
	s, err := p.in.ReadString('\n')
	if err != nil && s == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return p.line(prompt)
}

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ")
			if err != nil {
				return err
			}

			creds := model.Credentials{Email: email, Password: password}
			if err := creds.Validate(); err != nil {
				return inputError(err)
			}
			if err := client.Session.Login(cmd.Context(), creds); err != nil {
				return err
			}

			user := client.Session.State().User
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved to %s\n", client.Tokens.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if username == "" {
				if username, err = p.line("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := p.secret("Confirm password: ")
			if err != nil {
				return err
			}

			reg := model.Registration{Username: username, Email: email, Password: password}
			if err := reg.Validate(confirm); err != nil {
				return inputError(err)
			}
			if err := client.Session.Register(cmd.Context(), reg); err != nil {
				return err
			}

			user := client.Session.State().User
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the session and show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := client.requireAuth(cmd.Context(), "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", user.Username)
			if user.Email != "" {
				fmt.Fprintf(out, "Email:    %s\n", user.Email)
			}
			fmt.Fprintf(out, "Role:     %s\n", user.Role)
			if exp, ok := authtoken.ExpirationDate(client.Session.State().Token); ok {
				fmt.Fprintf(out, "Expires:  %s\n", exp.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Decode the stored token without contacting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := client.Tokens.Token(cmd.Context())
			if err != nil {
				return fmt.Errorf("read credentials: %w", err)
			}
			report := authtoken.Inspect(tok, timeNow()).String()
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(report, "\n"))
			return nil
		},
	}
}
