package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/app"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// resetViewsMsg replaces the whole stack with one view.
type resetViewsMsg struct {
	view View
}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// formDoneMsg is sent when a form view completes or is cancelled.
// The appModel handles it atomically: pop the form view, then run nextCmd.
type formDoneMsg struct {
	nextCmd tea.Cmd
}

type noticeMsg struct {
	notice app.Notice
}

type noticeExpiredMsg struct {
	seq int
}

// sessionLostMsg sends the console back to the login view.
type sessionLostMsg struct {
	err error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

func resetViews(v View) tea.Cmd {
	return func() tea.Msg { return resetViewsMsg{view: v} }
}

func refreshViews() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

func notify(n app.Notice) tea.Cmd {
	return func() tea.Msg { return noticeMsg{notice: n} }
}

// notifyErr shows err as a danger notice, or returns to login when the
// session is gone.
func notifyErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if api.RequiresLogin(err) {
		return func() tea.Msg { return sessionLostMsg{err: err} }
	}
	return notify(app.Danger(err))
}
