package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentui/agentui/internal/session"
)

// newCanCmd and newRoleCmd answer permission questions for scripts: they
// print yes or no and exit 1 on no.
func newCanCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "can SCREEN",
		Short:   "Check whether the signed-in user holds a screen permission",
		Example: "  agentui can LEFT_MENU_ADMIN && echo admin",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return predicate(cmd, o, func(s *session.Service) bool { return s.HasPermission(args[0]) })
		},
	}
}

func newRoleCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "role NAME",
		Short: "Check whether the signed-in user has a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return predicate(cmd, o, func(s *session.Service) bool { return s.HasRole(args[0]) })
		},
	}
}

func predicate(cmd *cobra.Command, o *options, check func(*session.Service) bool) error {
	svc := o.newSession(o.log)
	out := cmd.OutOrStdout()
	if check(svc) {
		color.New(color.FgGreen).Fprintln(out, "yes")
		return nil
	}
	color.New(color.FgRed).Fprintln(out, "no")
	if !svc.IsLoggedIn() {
		fmt.Fprintln(cmd.ErrOrStderr(), errNotSignedIn)
	}
	return &ExitError{Code: 1}
}
