package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/domain"
)

// coursesLoadedMsg signals that the course list has been fetched.
type coursesLoadedMsg struct {
	courses []domain.Course
	err     error
}

type loggedOutMsg struct {
	err error
}

// courseListView shows every course in a table and is the home view of a
// logged-in console.
type courseListView struct {
	state   *SharedState
	courses []domain.Course
	table   table.Model
	spinner spinner.Model
	loading bool
}

func newCourseListView(state *SharedState) *courseListView {
	t := table.New(
		table.WithColumns(courseColumns()),
		table.WithFocused(true),
		table.WithHeight(state.ContentHeight()-2),
	)
	t.SetStyles(courseTableStyles())
	return &courseListView{
		state:   state,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StyleHeader)),
		loading: true,
	}
}

func courseColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Title", Width: 32},
		{Title: "Price", Width: 10},
		{Title: "Thumbnail", Width: 9},
		{Title: "Video", Width: 5},
	}
}

func courseTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(formatter.ColorFg).
		Background(formatter.ColorDim).
		Bold(true)
	return s
}

func (v *courseListView) ID() ViewID    { return ViewCourseList }
func (v *courseListView) Title() string { return "Courses" }

func (v *courseListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lessons")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
	}
}

func (v *courseListView) Init() tea.Cmd {
	return tea.Batch(v.load(), v.spinner.Tick)
}

func (v *courseListView) load() tea.Cmd {
	courses := v.state.App.Courses
	return func() tea.Msg {
		list, err := courses.ListCourses(context.Background())
		return coursesLoadedMsg{courses: list, err: err}
	}
}

func (v *courseListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		v.setCourses(msg.courses)
		return v, nil

	case refreshViewMsg:
		v.loading = true
		return v, tea.Batch(v.load(), v.spinner.Tick)

	case loggedOutMsg:
		if msg.err != nil {
			return v, notify(app.Danger(msg.err))
		}
		v.state.Wizard.Reset()
		v.state.Status = app.SessionStatus{}
		return v, resetViews(newLoginView(context.Background(), v.state))

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		v.table.SetHeight(v.state.ContentHeight() - 2)
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *courseListView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		v.state.Wizard.Reset()
		return v, pushView(newCourseWizardView(v.state))

	case "e", "enter":
		c, ok := v.selected()
		if !ok {
			return v, nil
		}
		v.state.Wizard.Reset()
		if err := v.state.Wizard.Load(c); err != nil {
			return v, notify(app.Danger(err))
		}
		return v, pushView(newCourseWizardView(v.state))

	case "l":
		c, ok := v.selected()
		if !ok {
			return v, nil
		}
		return v, pushView(newLessonsView(v.state, c))

	case "r":
		v.loading = true
		return v, tea.Batch(v.load(), v.spinner.Tick)

	case "t":
		return v, toggleTheme(v.state, func() { v.table.SetStyles(courseTableStyles()) })

	case "o":
		auth := v.state.App.Auth
		return v, func() tea.Msg {
			return loggedOutMsg{err: auth.Logout(context.Background())}
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *courseListView) selected() (domain.Course, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.courses) {
		return domain.Course{}, false
	}
	return v.courses[i], true
}

func (v *courseListView) setCourses(courses []domain.Course) {
	v.courses = courses
	rows := make([]table.Row, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, table.Row{
			c.ID,
			c.Title.Display(),
			plainPrice(float64(c.Price)),
			yesNo(c.Thumbnail != ""),
			yesNo(c.PreviewVideo != ""),
		})
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (v *courseListView) View() string {
	if v.loading && len(v.courses) == 0 {
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Loading courses...")
	}
	if len(v.courses) == 0 {
		return "\n  " + formatter.Dim("No courses yet. Press n to create one.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.table.View())
	if v.loading {
		b.WriteString("\n  " + v.spinner.View() + " " + formatter.Dim("Refreshing..."))
	}
	return b.String()
}

// Table cells are measured as plain text, so they carry no styling.
func plainPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}

// toggleTheme flips the palette, stores the preference and lets the caller
// restyle its widgets.
func toggleTheme(state *SharedState, restyle func()) tea.Cmd {
	dark := !formatter.IsDark()
	formatter.ApplyTheme(dark)
	if restyle != nil {
		restyle()
	}
	if state.App.Prefs == nil {
		return nil
	}
	if err := state.App.Prefs.SetDarkMode(context.Background(), dark); err != nil {
		return notify(app.Danger(err))
	}
	return nil
}
