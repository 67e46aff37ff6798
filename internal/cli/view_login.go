package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/session"
)

type loginResultMsg struct {
	cred *session.Credential
	err  error
}

// loginView is the entry view when no live session exists.
type loginView struct {
	state     *SharedState
	req       *session.LoginRequest
	form      *huh.Form
	spinner   spinner.Model
	loggingIn bool
}

func newLoginView(ctx context.Context, state *SharedState) *loginView {
	req := &session.LoginRequest{}
	if prefs := state.App.Prefs; prefs != nil {
		user, pass, ok, err := prefs.RememberedLogin(ctx)
		if err != nil {
			state.App.logger().Warn("reading remembered login", zap.Error(err))
		}
		if ok {
			req.Username, req.Password, req.Remember = user, pass, true
		}
	}
	return &loginView{
		state:   state,
		req:     req,
		form:    loginForm(req),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StyleHeader)),
	}
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Login" }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.loggingIn = false
		if msg.err != nil {
			v.req.Password = ""
			v.form = loginForm(v.req)
			return v, tea.Batch(notify(app.Danger(msg.err)), v.form.Init())
		}
		v.state.setCredential(msg.cred)
		return v, tea.Batch(
			notify(app.Success("Login successful!", v.state.App.Config.NoticeSuccessTTL())),
			resetViews(newCourseListView(v.state)),
		)

	case spinner.TickMsg:
		if !v.loggingIn {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.loggingIn {
			return v, nil
		}
		if msg.String() == "ctrl+t" {
			return v, v.toggleTheme()
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted && !v.loggingIn {
		v.loggingIn = true
		return v, tea.Batch(v.login(), v.spinner.Tick)
	}
	return v, cmd
}

func (v *loginView) login() tea.Cmd {
	auth := v.state.App.Auth
	req := *v.req
	return func() tea.Msg {
		cred, err := auth.Login(context.Background(), req)
		return loginResultMsg{cred: cred, err: err}
	}
}

// toggleTheme rebuilds the form so the new palette applies.
func (v *loginView) toggleTheme() tea.Cmd {
	cmd := toggleTheme(v.state, func() { v.form = loginForm(v.req) })
	return tea.Batch(cmd, v.form.Init())
}

func (v *loginView) View() string {
	if v.loggingIn {
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Logging in...")
	}
	return "\n" + formatter.Header("Admin login") + "\n\n" + v.form.View()
}
