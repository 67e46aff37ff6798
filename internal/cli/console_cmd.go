package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConsoleCmd(a *App) *cobra.Command {
	var keepSession bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive admin console",
		Long: `Open the interactive admin console: log in, browse courses, run the
five-step publishing wizard and manage lessons.

The session lives as long as the console. Leaving it logs you out unless
--keep-session is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), a, keepSession)
		},
	}
	cmd.Flags().BoolVar(&keepSession, "keep-session", false, "Keep the session stored after the console exits")
	return cmd
}

func runConsole(ctx context.Context, a *App, keepSession bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m := newAppModel(ctx, a)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	if !keepSession {
		if logoutErr := a.Auth.Logout(context.Background()); logoutErr != nil {
			a.logger().Warn("clearing session on exit", zap.Error(logoutErr))
		}
	}
	return err
}
