package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/cliutil"
)

func NewInitCmd(env *cliopt.Env) *cobra.Command {
	var csvPath, user, password string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user != "" && password == "" {
				password = os.Getenv("CEREALDEX_PASSWORD")
			}
			if user != "" && password == "" {
				return UsageError(fmt.Errorf("--user needs --password or CEREALDEX_PASSWORD"))
			}
			ctx := cmd.Context()
			st, err := cliutil.CreateStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			cliutil.OK(env.Out, "catalog ready (schema v%s)", st.Version())

			if csvPath != "" {
				f, err := os.Open(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := st.ImportCSV(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(env.Out, "imported %d cereal(s), skipped %d\n", res.Added, len(res.Skipped))
			}
			if user != "" {
				if _, err := st.CreateUser(ctx, user, password); err != nil {
					return err
				}
				fmt.Fprintf(env.Out, "user %s created\n", user)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "import this CSV after creating the tables")
	cmd.Flags().StringVar(&user, "user", "", "create this user")
	cmd.Flags().StringVar(&password, "password", "", "password for --user")
	return cmd
}

func NewListCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every cereal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			all, err := st.All(ctx)
			if err != nil {
				return err
			}
			cliutil.PrintCereals(env.Out, cliutil.ParseOutputFormat(env.Global.Format), all)
			return nil
		},
	}
}

func NewGetCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one cereal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			c, err := st.ByID(ctx, id)
			if err != nil {
				return notFound(err)
			}
			cliutil.PrintJSON(env.Out, c)
			return nil
		},
	}
}

func NewImportCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk add cereals from a CSV file with a header row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			res, err := st.ImportCSV(ctx, f)
			if err != nil {
				return err
			}
			if cliutil.ParseOutputFormat(env.Global.Format) == cliutil.FormatJSON {
				cliutil.PrintJSON(env.Out, res)
				return nil
			}
			cliutil.OK(env.Out, "imported %d cereal(s)", res.Added)
			for _, s := range res.Skipped {
				cliutil.Fail(env.Out, "row %d skipped: %s", s.Row, s.Reason)
			}
			return nil
		},
	}
}

func NewAddCmd(env *cliopt.Env) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "add -f column=value ...",
		Short: "Add a cereal; every column except id is required",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cliutil.ParseAssignments(fields)
			if err != nil {
				return UsageError(err)
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			c, err := st.Add(ctx, m)
			if err != nil {
				return err
			}
			cliutil.PrintJSON(env.Out, c)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "column=value (repeatable)")
	return cmd
}

func NewUpdateCmd(env *cliopt.Env) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "update <id> -f column=value ...",
		Short: "Change columns of a cereal; the id cannot change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := cliutil.ParseAssignments(fields)
			if err != nil {
				return UsageError(err)
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			c, err := st.Update(ctx, id, m)
			if err != nil {
				return notFound(err)
			}
			cliutil.PrintJSON(env.Out, c)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "column=value (repeatable)")
	return cmd
}

func NewDeleteCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a cereal and its picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()
			ok, err := st.Delete(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(env.Out, "deleted")
			} else {
				fmt.Fprintln(env.Out, "not found")
			}
			return nil
		},
	}
}
