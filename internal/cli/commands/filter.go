package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/filter"
	"github.com/cerealdex/cerealdex/cerealdex/query"
	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/cliutil"
)

func parseQuery(args []string) ([]filter.Triple, error) {
	triples, err := query.Parse(strings.Join(args, " "))
	if err != nil {
		return nil, UsageError(err)
	}
	return triples, nil
}

// verdict prints an infeasible filter in red and turns it into exit code 4
func verdict(env *cliopt.Env, err error) error {
	if !cerealdex.IsKind(err, cerealdex.ErrInfeasible) {
		return err
	}
	cliutil.Fail(env.Out, "infeasible: %v", err)
	return &ExitError{Code: 4, Err: err}
}

func NewFilterCmd(env *cliopt.Env) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "filter <query>",
		Short: "List cereals matching every filter",
		Example: `  cerealdex filter 'calories>=100 AND mfr!=Q'
  cerealdex filter fiber:greater:2 sugars:lesseq:5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			triples, err := parseQuery(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()

			if explain {
				tr, err := st.Check(triples)
				if err != nil {
					return verdict(env, err)
				}
				fmt.Fprintln(env.Out, "feasible ranges:")
				cliutil.PrintStates(env.Out, tr)
			}
			rows, err := st.Filter(ctx, triples)
			if err != nil {
				return verdict(env, err)
			}
			cliutil.PrintCereals(env.Out, cliutil.ParseOutputFormat(env.Global.Format), rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the feasible range of each filtered column")
	return cmd
}

func NewCheckCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <query>",
		Short: "Decide whether filters can match anything; needs no database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			triples, err := parseQuery(args)
			if err != nil {
				return err
			}
			filters, err := filter.Compile(filter.Catalog, triples)
			if err != nil {
				return err
			}
			tr, err := filter.Explain(filter.Catalog, filters)
			if err != nil {
				return verdict(env, err)
			}
			cliutil.OK(env.Out, "feasible")
			cliutil.PrintStates(env.Out, tr)
			return nil
		},
	}
}
