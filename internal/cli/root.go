// Package cli implements the caisson command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chazu/caisson/internal/config"
	"github.com/chazu/caisson/internal/logger"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configPath string
	logLevel   string
	jsonMode   bool
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	flags rootFlags
	cfg   config.Config
	log   *slog.Logger
}

// NewRootCmd creates the top-level "caisson" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "caisson",
		Short: "Cabinet joinery and panel drawings",
		Long: "Caisson evaluates a cabinet scene written in Lisp and derives its cut list,\n" +
			"machining holes, collision report, panel drawings and preview meshes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "config file (default: ./caisson.yaml or ~/.caisson/caisson.yaml)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newPanelsCmd(a))
	root.AddCommand(newHolesCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newDrawCmd(a))
	root.AddCommand(newMeshCmd(a))
	root.AddCommand(newWatchCmd(a))

	return root
}

// setup loads the config and installs the logger. The --log-level flag
// wins over the configured level.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lvl := cfg.Log.Level
	if a.flags.logLevel != "" {
		lvl = a.flags.logLevel
	}
	level, err := logger.ParseLevel(lvl)
	if err != nil {
		return err
	}

	lc := logger.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format
	lc.Output = stderr
	logger.Init(lc)
	a.log = logger.ForComponent("cli")
	if cfg.File != "" {
		a.log.Debug("config loaded", "file", cfg.File)
	}
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runContext(ctx, root, args, stderr)
}

func runContext(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		return exitSysError
	}
	return exitUserError
}
