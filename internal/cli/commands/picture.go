package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/cliutil"
)

func NewPictureCmd(env *cliopt.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picture",
		Short: "Manage cereal pictures",
	}
	cmd.AddCommand(newPictureSetCmd(env), newPictureGetCmd(env))
	return cmd
}

func newPictureSetCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <image>",
		Short: "Copy an image (jfif, png, jpg, jpeg) into the static dir and attach it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
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
			pic, err := st.SavePicture(ctx, id, filepath.Base(args[1]), f)
			if err != nil {
				return notFound(err)
			}
			fmt.Fprintln(env.Out, st.PictureFile(pic))
			return nil
		},
	}
}

func newPictureGetCmd(env *cliopt.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the stored picture path of a cereal",
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
			pic, err := st.Picture(ctx, id)
			if err != nil {
				return notFound(err)
			}
			fmt.Fprintln(env.Out, st.PictureFile(pic))
			return nil
		},
	}
}
