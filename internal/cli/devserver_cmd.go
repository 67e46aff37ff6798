package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/devapi"
	"github.com/naumanrao/courseadmin/internal/domain"
)

func newDevServerCmd(a *App) *cobra.Command {
	var addr, username, password string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve an in-memory admin API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger().Named("devapi")
			srv := devapi.New(
				devapi.WithLogger(logger),
				devapi.WithUser(username, password, domain.User{Name: username, Role: "admin"}),
			)
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving the admin API on http://%s (user %q)\n", addr, username)
			fmt.Fprintf(cmd.OutOrStdout(), "Point the console at it with COURSEADMIN_API_BASE_URL=http://%s\n", addr)
			return serve(cmd.Context(), httpSrv, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "Listen address")
	cmd.Flags().StringVar(&username, "user", "admin", "Login username")
	cmd.Flags().StringVar(&password, "password", "admin", "Login password")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
