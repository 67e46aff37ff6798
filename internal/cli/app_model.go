package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
)

// appModel is the root bubbletea Model for the console.
// It manages a view stack and the notice bar.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	notice    app.Notice
	noticeSeq int
}

func newAppModel(ctx context.Context, a *App) appModel {
	state := newSharedState(a)
	m := appModel{state: state}

	if err := state.requireSession(ctx); err != nil {
		m.viewStack = []View{newLoginView(ctx, state)}
		if !errors.Is(err, api.ErrAuthenticationMissing) {
			m.notice = app.Danger(err)
		}
		return m
	}
	m.viewStack = []View{newCourseListView(state)}
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		if lost, cmd := m.guard(msg.view); lost {
			return m, cmd
		}
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case replaceViewMsg:
		if lost, cmd := m.guard(msg.view); lost {
			return m, cmd
		}
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case resetViewsMsg:
		if lost, cmd := m.guard(msg.view); lost {
			return m, cmd
		}
		m.viewStack = []View{msg.view}
		return m, msg.view.Init()

	case refreshViewMsg:
		// Broadcast so views under the top one reload after mutations made
		// above them.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case formDoneMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case noticeMsg:
		m.noticeSeq++
		m.notice = msg.notice
		if msg.notice.Expires() {
			seq := m.noticeSeq
			return m, tea.Tick(msg.notice.TTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
		}
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = app.Notice{}
		}
		return m, nil

	case sessionLostMsg:
		return m.toLogin(msg.err)
	}

	return m.forward(msg)
}

// forward passes msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

// guard runs the session guard before showing v. On failure the console
// is sent back to login.
func (m *appModel) guard(v View) (bool, tea.Cmd) {
	if !viewRequiresSession(v) {
		return false, nil
	}
	if err := m.state.requireSession(context.Background()); err != nil {
		_, cmd := m.toLogin(err)
		return true, cmd
	}
	return false, nil
}

func (m *appModel) toLogin(err error) (tea.Model, tea.Cmd) {
	m.state.App.logger().Info("returning to login", zap.Error(err))
	m.state.Wizard.Reset()
	m.state.Status = app.SessionStatus{}
	login := newLoginView(context.Background(), m.state)
	m.viewStack = []View{login}
	m.noticeSeq++
	m.notice = app.Danger(err)
	return *m, login.Init()
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Any key dismisses a danger notice.
	if m.notice.Kind == app.NoticeDanger {
		m.notice = app.Notice{}
	}

	v := m.activeView()
	if viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if n := m.renderNotice(); n != "" {
		sections = append(sections, n)
	}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("courseadmin")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if st := m.state.Status; st.User.DisplayName() != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(st.User.DisplayName()) +
			formatter.Dim(" · "+formatter.Remaining(st.Remaining)+"]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderNotice() string {
	if m.notice.IsZero() {
		return ""
	}
	switch m.notice.Kind {
	case app.NoticeDanger:
		return formatter.StyleRed.Render("✖ " + m.notice.Message)
	case app.NoticeInfo:
		return formatter.StyleYellow.Render("… " + m.notice.Message)
	}
	return formatter.StyleGreen.Render("✔ " + m.notice.Message)
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if !viewCapturesInput(v) {
			if len(m.viewStack) > 1 {
				hints = append(hints, formatter.Dim("esc: back"))
			}
			hints = append(hints, formatter.Dim("q: quit"))
		}
	}

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
