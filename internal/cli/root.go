package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/config"
	"github.com/naumanrao/courseadmin/internal/session"
)

// App holds the services CLI commands and the console use.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Auth    app.AuthUseCase
	Guard   app.SessionGuard
	Prefs   app.PreferenceStore
	Courses app.CourseCatalog
	Lessons app.LessonCatalog

	// IsInteractive reports whether stdin is a terminal. When nil the CLI
	// behaves as non-interactive.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// annotationSession marks commands that need a live session.
const annotationSession = "courseadmin/session"

func requiresSession(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationSession] = "true"
	return cmd
}

// NewRootCmd creates the top-level "courseadmin" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "courseadmin",
		Short:         "Course publishing admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyTheme(cmd.Context(), a)
			if cmd.Annotations[annotationSession] == "" {
				return nil
			}
			_, err := a.Guard.Require(cmd.Context())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.interactive() {
				return runConsole(cmd.Context(), a, false)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCoursesCmd(a),
		newLessonsCmd(a),
		newThemeCmd(a),
		newConsoleCmd(a),
		newDevServerCmd(a),
	)
	return root
}

func applyTheme(ctx context.Context, a *App) {
	if a.Prefs == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	dark, err := a.Prefs.DarkMode(ctx)
	if err != nil {
		a.logger().Warn("reading theme preference", zap.Error(err))
		return
	}
	formatter.ApplyTheme(dark)
}

// ErrorMessage is the line printed for a failed command.
func ErrorMessage(err error) string {
	msg := api.Message(err)
	if api.RequiresLogin(err) {
		msg += " Run \"courseadmin login\"."
	}
	return msg
}

// Execute runs the root command and prints failures the way users see
// them in the console.
func Execute(ctx context.Context, a *App, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatter.StyleRed.Render("Error: ")+ErrorMessage(err))
		return 1
	}
	return 0
}

var _ app.AuthUseCase = (*session.Authenticator)(nil)
