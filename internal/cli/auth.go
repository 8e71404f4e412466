package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agentui/agentui/internal/session"
)

var errNotSignedIn = errors.New("not signed in, run: agentui login")

func newLoginCmd(o *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long:  "Sign in to the backend and store the access token and profile for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdin := cmd.InOrStdin()
			in := bufio.NewReader(stdin)
			out := cmd.OutOrStdout()
			var err error
			if email == "" {
				if email, err = prompt(in, out, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret(stdin, in, out, "Password: "); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			svc := o.newSession(o.log)
			if err := svc.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			u, _ := svc.Profile()
			color.New(color.FgGreen).Fprintf(out, "Signed in as %s\n", u.Email)
			fmt.Fprintln(out, greeting())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

// prompt writes label and reads one trimmed line.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads like prompt but turns echo off when stdin is a terminal.
func promptSecret(stdin io.Reader, in *bufio.Reader, out io.Writer, label string) (string, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(in, out, label)
	}
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(string(b)), nil
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			nav := session.NavigatorFunc(func(path string) {
				fmt.Fprintln(out, "Signed out. Sign in again with: agentui login")
			})
			svc := o.newSession(o.log, session.WithNavigator(nav))
			svc.Logout(cmd.Context())
			return nil
		},
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, roles and screen permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := o.newSession(o.log)
			if !svc.IsLoggedIn() {
				return errNotSignedIn
			}
			if refresh {
				if err := svc.RefreshProfile(cmd.Context()); err != nil {
					return err
				}
			}
			u, _ := svc.Profile()
			token, _ := svc.Token()

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)
			green := color.New(color.FgGreen)

			fmt.Fprintln(out)
			cyan.Fprintln(out, "  Identity")
			cyan.Fprintln(out, "  --------")
			fmt.Fprintf(out, "  Email:          %s\n", u.Email)
			fmt.Fprintf(out, "  User ID:        %s\n", u.UserID)
			if roles := u.RoleNames(); len(roles) > 0 {
				green.Fprintf(out, "  Roles:          %s\n", strings.Join(roles, ", "))
			} else {
				fmt.Fprintf(out, "  Roles:          (none)\n")
			}
			if screens := u.GrantedScreens(); len(screens) > 0 {
				green.Fprintf(out, "  Screens:        %s\n", strings.Join(screens, ", "))
			} else {
				fmt.Fprintf(out, "  Screens:        (none)\n")
			}
			if exp, ok := tokenExpiry(token); ok {
				fmt.Fprintf(out, "  Token expires:  %s\n", exp.Local().Format(time.RFC1123))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the profile from the backend first")
	return cmd
}

// tokenExpiry reads the exp claim when token is a JWT. The signature is not
// checked; the value is for display only.
func tokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	t, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
