package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cerealdex/cerealdex/internal/api"
	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/cliutil"
)

func NewServeCmd(env *cliopt.Env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg := env.Config.Server
			if addr != "" {
				srvCfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := cliutil.OpenStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()

			if srvCfg.RequireAuth {
				n, err := st.UserCount(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					env.Log.Warn("no users registered; mutating endpoints will reject every request")
				}
			}

			if env.Config.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			router := api.NewRouter(st, api.Options{
				RequireAuth:    srvCfg.RequireAuth,
				Metrics:        srvCfg.Metrics,
				MaxUploadBytes: srvCfg.MaxUploadBytes,
				Logger:         env.Log,
			})
			srv := &http.Server{Addr: srvCfg.Addr, Handler: router}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				env.Log.Info("listening", "addr", srvCfg.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
				defer cancel()
				env.Log.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
