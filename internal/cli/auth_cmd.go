package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/session"
)

func newLoginCmd(a *App) *cobra.Command {
	var req session.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if req.Username == "" {
				user, pass, ok, err := a.Prefs.RememberedLogin(ctx)
				if err != nil {
					return err
				}
				if ok {
					req.Username = user
					req.Password = domain.CoalesceStr(req.Password, pass)
					if !cmd.Flags().Changed("remember") {
						req.Remember = true
					}
				}
			}

			if (req.Username == "" || req.Password == "") && a.interactive() {
				if err := loginForm(&req).Run(); err != nil {
					return err
				}
			}

			cred, err := a.Auth.Login(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(cred.User.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&req.Remember, "remember", false, "Remember the username and password on this machine")
	return cmd
}

// loginForm prompts for whatever is missing from req.
func loginForm(req *session.LoginRequest) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Value(&req.Username).
				Validate(required("username")),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(required("password")),
			huh.NewConfirm().
				Key("remember").
				Title("Remember me").
				Value(&req.Remember),
		),
	).WithTheme(courseHuhTheme()).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return requiresSession(&cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and the session time left",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := a.Guard.Require(cmd.Context())
			if err != nil {
				return err
			}
			st := app.NewSessionStatus(cred, a.Guard.Remaining(cred))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(st))
			return nil
		},
	})
}

func newThemeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the console theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				dark, err := a.Prefs.DarkMode(ctx)
				if err != nil {
					return err
				}
				formatter.ApplyTheme(dark)
				fmt.Fprintln(cmd.OutOrStdout(), formatter.ThemeName())
				return nil
			}
			var dark bool
			switch strings.ToLower(args[0]) {
			case "dark":
				dark = true
			case "light":
			default:
				return fmt.Errorf("unknown theme %q (want dark or light)", args[0])
			}
			if err := a.Prefs.SetDarkMode(ctx, dark); err != nil {
				return err
			}
			formatter.ApplyTheme(dark)
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", formatter.ThemeName())
			return nil
		},
	}
}
