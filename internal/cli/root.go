package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cerealdex/cerealdex/internal/cli/commands"
	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/config"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	return Run(argv, os.Stdout, os.Stderr)
}

// Run is Execute with explicit output streams
func Run(argv []string, stdout, stderr io.Writer) int {
	env := &cliopt.Env{Out: stdout, Err: stderr}
	g := cliopt.DefaultGlobalOptions()

	root := &cobra.Command{
		Use:           "cerealdex",
		Short:         "Cereal catalog with contradiction-aware filtering",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.ConfigPath)
			if err != nil {
				return commands.UsageError(err)
			}
			g.Apply(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				return commands.UsageError(fmt.Errorf("invalid config: %w", err))
			}
			env.Global = g
			env.Config = cfg
			env.Log = config.NewLogger(cfg.Log, stderr)
			return nil
		},
	}
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return commands.UsageError(err)
	})
	cliopt.BindGlobalFlags(root.PersistentFlags(), &g)

	root.AddCommand(
		commands.NewInitCmd(env),
		commands.NewServeCmd(env),
		commands.NewListCmd(env),
		commands.NewGetCmd(env),
		commands.NewFilterCmd(env),
		commands.NewCheckCmd(env),
		commands.NewImportCmd(env),
		commands.NewAddCmd(env),
		commands.NewUpdateCmd(env),
		commands.NewDeleteCmd(env),
		commands.NewPictureCmd(env),
		commands.NewUserCmd(env),
	)

	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "error:", err)
	var ee *commands.ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}
