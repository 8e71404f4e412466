// Package cli implements the agentui command line: the interactive console
// and scripting commands over the same session core.
package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentui/agentui/internal/config"
	"github.com/agentui/agentui/internal/credstore"
	"github.com/agentui/agentui/internal/logging"
	"github.com/agentui/agentui/internal/session"
	"github.com/agentui/agentui/pkg/client"
)

// ExitError ends the process with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by the root command to a process exit
// code. The second result is false when the error should not be printed.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, false
	}
	return 1, true
}

type options struct {
	apiURL     string
	stateDir   string
	configPath string
	logLevel   string
	ephemeral  bool

	cfg   *config.Config
	level zerolog.Level
	log   zerolog.Logger

	// memory backs --ephemeral runs for the lifetime of the process.
	memory *credstore.MemoryBackend
}

// NewRootCmd creates the root cobra command for the agentui CLI.
func NewRootCmd(version string) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "agentui",
		Short: "AgentUI: chatbot admin console",
		Long:  "AgentUI manages chatbots, model keys and users of an AgentUI backend.\nRun without a command to open the interactive console.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(o)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&o.apiURL, "api-url", "", "Backend URL (or "+config.EnvAPIURL+" env)")
	root.PersistentFlags().StringVar(&o.stateDir, "state-dir", "", "Directory for credentials and logs (or "+config.EnvStateDir+" env)")
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "Config file (default ~/.agentui/config.yaml)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&o.ephemeral, "ephemeral", false, "Keep credentials in memory only")

	root.AddCommand(
		newLoginCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newCanCmd(o),
		newRoleCmd(o),
		newVersionCmd(version),
	)
	return root
}

// init loads the config file and applies flag overrides: flags beat env,
// env beats the file.
func (o *options) init(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.stateDir != "" {
		cfg.StateDir = o.stateDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	o.cfg = cfg
	o.level = logging.ParseLevel(cfg.Log.Level)
	o.log = logging.NewConsole(cmd.ErrOrStderr(), o.level)
	return nil
}

func (o *options) api() *client.Client {
	return client.New(o.cfg.APIURL).WithTimeout(o.cfg.HTTPTimeout)
}

func (o *options) backend() credstore.Backend {
	if o.ephemeral {
		if o.memory == nil {
			o.memory = credstore.NewMemoryBackend()
		}
		return o.memory
	}
	return credstore.NewFileBackend(o.cfg.StateDir)
}

// newSession builds the session service over the configured credential
// store, logging to log.
func (o *options) newSession(log zerolog.Logger, opts ...session.Option) *session.Service {
	store := credstore.New(o.backend(), log)
	opts = append([]session.Option{session.WithLogger(log)}, opts...)
	return session.New(store, o.api(), opts...)
}
