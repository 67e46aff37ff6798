package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	shortHelp  []key.Binding
	initCmd    tea.Cmd
	updateCmd  tea.Cmd
	updateSeen []tea.Msg
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, v.updateCmd
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return v.shortHelp }
func (v *stubView) Title() string            { return v.title }
func newStubView(id ViewID, title, text string) *stubView {
	return &stubView{id: id, title: title, viewText: text}
}

func loggedInModel(t *testing.T) (appModel, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	env.login(t)
	return newAppModel(context.Background(), env.app), env
}

func TestNewAppModel_StartsAtLoginWithoutSession(t *testing.T) {
	m := newAppModel(context.Background(), testApp(t))

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewLogin, m.activeView().ID())
	assert.True(t, m.notice.IsZero(), "a missing session is not an error worth showing")
}

func TestNewAppModel_StartsAtCourseListWithSession(t *testing.T) {
	m, _ := loggedInModel(t)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewCourseList, m.activeView().ID())
	assert.Equal(t, "Ada Admin", m.state.Status.User.DisplayName())
}

func TestNewAppModel_ExpiredSessionShowsNotice(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.clock.Advance(25 * time.Hour)

	m := newAppModel(context.Background(), env.app)
	assert.Equal(t, ViewLogin, m.activeView().ID())
	assert.Equal(t, app.NoticeDanger, m.notice.Kind)
	assert.Contains(t, m.notice.Message, "Your session has expired. Please log in again.")
}

func TestAppModel_NavigationMessages(t *testing.T) {
	m, _ := loggedInModel(t)
	v2 := newStubView(ViewLessons, "Lessons", "lessons view")
	v3 := newStubView(ViewForm, "Form", "form view")

	model, cmd := m.Update(pushViewMsg{view: v2})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v2, m.activeView())

	model, cmd = m.Update(replaceViewMsg{view: v3})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v3, m.activeView())

	model, cmd = m.Update(popViewMsg{})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewCourseList, m.activeView().ID())

	model, _ = m.Update(resetViewsMsg{view: v2})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, v2, m.activeView())
}

func TestAppModel_GuardSendsExpiredSessionToLogin(t *testing.T) {
	m, env := loggedInModel(t)
	m.state.Wizard.SetText(wizard.FieldTitle, domain.LocaleEN, "draft")
	env.clock.Advance(25 * time.Hour)

	model, _ := m.Update(pushViewMsg{view: newStubView(ViewLessons, "Lessons", "")})
	m = model.(appModel)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewLogin, m.activeView().ID())
	assert.Equal(t, app.NoticeDanger, m.notice.Kind)
	assert.Empty(t, m.state.Status.User.DisplayName())
	assert.Empty(t, m.state.Wizard.Text(wizard.FieldTitle, domain.LocaleEN))

	ok, err := env.store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppModel_LoginViewNeedsNoSession(t *testing.T) {
	m := newAppModel(context.Background(), testApp(t))
	login := newStubView(ViewLogin, "Login", "")

	model, _ := m.Update(resetViewsMsg{view: login})
	m = model.(appModel)
	assert.Equal(t, login, m.activeView())
	assert.True(t, m.notice.IsZero())
}

func TestAppModel_SessionLostMsg(t *testing.T) {
	m, _ := loggedInModel(t)
	m.viewStack = append(m.viewStack, newStubView(ViewLessons, "Lessons", ""))

	model, _ := m.Update(sessionLostMsg{err: api.ErrAuthenticationMissing})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewLogin, m.activeView().ID())
	assert.Equal(t, app.NoticeDanger, m.notice.Kind)
}

func TestAppModel_WindowResizeForwardsToActiveView(t *testing.T) {
	m, _ := loggedInModel(t)
	v := newStubView(ViewLessons, "Lessons", "lessons")
	m.viewStack = []View{v}

	model, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(appModel)
	require.Nil(t, cmd)

	assert.Equal(t, 100, m.state.Width)
	assert.Equal(t, 30, m.state.Height)
	require.Len(t, v.updateSeen, 1)
	_, ok := v.updateSeen[0].(tea.WindowSizeMsg)
	assert.True(t, ok)
}

func TestAppModel_KeyHandling_GlobalAndCaptured(t *testing.T) {
	t.Run("q quits when active view does not capture input", func(t *testing.T) {
		m, _ := loggedInModel(t)
		m.viewStack = []View{newStubView(ViewCourseList, "Courses", "courses")}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("capturing view receives q and does not quit", func(t *testing.T) {
		m, _ := loggedInModel(t)
		v := newStubView(ViewWizard, "New course", "wizard")
		m.viewStack = []View{v}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.Nil(t, cmd)
		assert.False(t, m.quitting)
		require.Len(t, v.updateSeen, 1)
		assert.Equal(t, "q", v.updateSeen[0].(tea.KeyMsg).String())
	})

	t.Run("ctrl+c quits even from a capturing view", func(t *testing.T) {
		m, _ := loggedInModel(t)
		m.viewStack = []View{newStubView(ViewForm, "Form", "")}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		m = model.(appModel)
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
	})

	t.Run("esc pops back stack", func(t *testing.T) {
		m, _ := loggedInModel(t)
		m.viewStack = []View{
			newStubView(ViewCourseList, "Courses", "courses"),
			newStubView(ViewLessons, "Lessons", "lessons"),
		}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = model.(appModel)
		require.Nil(t, cmd)
		require.Len(t, m.viewStack, 1)
	})

	t.Run("any key dismisses a danger notice", func(t *testing.T) {
		m, _ := loggedInModel(t)
		m.viewStack = []View{newStubView(ViewCourseList, "Courses", "courses")}
		m.notice = app.Danger(errors.New("boom"))

		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(appModel)
		assert.True(t, m.notice.IsZero())
	})
}

func TestAppModel_FormDonePopsAndRunsNext(t *testing.T) {
	m, _ := loggedInModel(t)
	m.viewStack = []View{
		newStubView(ViewLessons, "Lessons", "lessons"),
		newStubView(ViewForm, "Add lesson", "form"),
	}

	next := func() tea.Msg { return refreshViewMsg{} }
	model, cmd := m.Update(formDoneMsg{nextCmd: next})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewLessons, m.activeView().ID())
	require.NotNil(t, cmd)
	assert.IsType(t, refreshViewMsg{}, cmd())
}

func TestAppModel_RefreshReachesEveryView(t *testing.T) {
	m, _ := loggedInModel(t)
	bottom := newStubView(ViewCourseList, "Courses", "")
	top := newStubView(ViewLessons, "Lessons", "")
	m.viewStack = []View{bottom, top}

	m.Update(refreshViewMsg{})
	assert.Len(t, bottom.updateSeen, 1)
	assert.Len(t, top.updateSeen, 1)
}

func TestAppModel_SuccessNoticeExpires(t *testing.T) {
	m, _ := loggedInModel(t)

	model, cmd := m.Update(noticeMsg{notice: app.Success("Saved", time.Millisecond)})
	m = model.(appModel)
	require.NotNil(t, cmd)
	assert.Equal(t, "Saved", m.notice.Message)
	assert.Contains(t, m.View(), "Saved")

	// A newer notice outlives the older one's timer.
	model, _ = m.Update(noticeMsg{notice: app.Success("Again", time.Millisecond)})
	m = model.(appModel)
	model, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq - 1})
	m = model.(appModel)
	assert.Equal(t, "Again", m.notice.Message)

	model, _ = m.Update(cmd())
	m = model.(appModel)
	assert.Equal(t, "Again", m.notice.Message, "expiry of the first notice is stale")

	model, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	m = model.(appModel)
	assert.True(t, m.notice.IsZero())
}

func TestAppModel_DangerNoticeDoesNotExpire(t *testing.T) {
	m, _ := loggedInModel(t)

	model, cmd := m.Update(noticeMsg{notice: app.Danger(errors.New("upload failed"))})
	m = model.(appModel)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "upload failed")
}

func TestAppModel_HeaderShowsUserAndBreadcrumbs(t *testing.T) {
	m, _ := loggedInModel(t)
	m.viewStack = append(m.viewStack, newStubView(ViewLessons, "Lessons: Go", ""))

	out := m.View()
	assert.Contains(t, out, "courseadmin")
	assert.Contains(t, out, "Courses")
	assert.Contains(t, out, "Lessons: Go")
	assert.Contains(t, out, "Ada Admin")
	assert.Contains(t, out, "esc: back")
}

func TestViewCapturesInput(t *testing.T) {
	assert.False(t, viewCapturesInput(nil))
	assert.True(t, viewCapturesInput(newStubView(ViewLogin, "Login", "")))
	assert.True(t, viewCapturesInput(newStubView(ViewWizard, "Wizard", "")))
	assert.True(t, viewCapturesInput(newStubView(ViewForm, "Form", "")))
	assert.False(t, viewCapturesInput(newStubView(ViewCourseList, "Courses", "")))
	assert.False(t, viewCapturesInput(newStubView(ViewLessons, "Lessons", "")))
}
