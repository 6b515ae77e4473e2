package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/cliutil"
)

func NewUserCmd(env *cliopt.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	cmd.AddCommand(newUserAddCmd(env), newUserPasswdCmd(env))
	return cmd
}

func passwordFrom(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv("CEREALDEX_PASSWORD"); v != "" {
		return v, nil
	}
	return "", UsageError(fmt.Errorf("provide --password or CEREALDEX_PASSWORD"))
}

func newUserAddCmd(env *cliopt.Env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a user allowed to change the catalog over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(password)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			u, err := st.CreateUser(ctx, args[0], pw)
			if err != nil {
				return err
			}
			cliutil.OK(env.Out, "user %s created", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (or CEREALDEX_PASSWORD)")
	return cmd
}

func newUserPasswdCmd(env *cliopt.Env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <name>",
		Short: "Replace a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(password)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SetPassword(ctx, args[0], pw); err != nil {
				return notFound(err)
			}
			cliutil.OK(env.Out, "password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (or CEREALDEX_PASSWORD)")
	return cmd
}
