package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/lessons"
)

type lessonsLoadedMsg struct {
	rows []domain.Lesson
	err  error
}

type lessonOpenedMsg struct {
	lesson *domain.Lesson
	err    error
}

type lessonVideoMsg struct {
	err error
}

type lessonsSavedMsg struct {
	saved int
	err   error
}

// lessonsView lists the saved lessons of one course and holds unsaved
// drafts until they are saved together.
type lessonsView struct {
	state   *SharedState
	course  domain.Course
	table   *lessons.Table
	editor  *lessons.Editor
	cursor  int
	loading bool
	saving  bool
	open    *domain.Lesson
}

func newLessonsView(state *SharedState, course domain.Course) *lessonsView {
	logger := state.App.logger().Named("lessons")
	return &lessonsView{
		state:   state,
		course:  course,
		table:   lessons.NewTable(state.App.Lessons, course.ID),
		editor:  lessons.NewEditor(state.App.Lessons, course.ID, logger),
		loading: true,
	}
}

func (v *lessonsView) ID() ViewID { return ViewLessons }

func (v *lessonsView) Title() string {
	return "Lessons: " + formatter.Truncate(v.course.Title.Display(), 24)
}

func (v *lessonsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop draft")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *lessonsView) Init() tea.Cmd {
	return v.load()
}

func (v *lessonsView) load() tea.Cmd {
	t := v.table
	return func() tea.Msg {
		rows, err := t.Refresh(context.Background())
		return lessonsLoadedMsg{rows: rows, err: err}
	}
}

func (v *lessonsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		if v.cursor >= len(msg.rows) {
			v.cursor = max(len(msg.rows)-1, 0)
		}
		return v, nil

	case refreshViewMsg:
		v.loading = true
		return v, v.load()

	case lessonOpenedMsg:
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		v.open = msg.lesson
		return v, nil

	case lessonVideoMsg:
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, notify(app.Success("Video uploaded.", v.state.App.Config.NoticeSuccessTTL()))

	case lessonsSavedMsg:
		v.saving = false
		if msg.err != nil {
			return v, tea.Batch(notifyErr(msg.err), v.load())
		}
		return v, tea.Batch(
			notify(app.Success("Lessons saved successfully!", v.state.App.Config.NoticeSuccessTTL())),
			v.load(),
		)

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *lessonsView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := v.table.Rows()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(rows)-1 {
			v.cursor++
		}
	case "enter":
		if v.cursor < len(rows) {
			t, lessonKey := v.table, rows[v.cursor].Key
			return v, func() tea.Msg {
				l, err := t.Open(context.Background(), lessonKey)
				return lessonOpenedMsg{lesson: l, err: err}
			}
		}
	case "a":
		return v, pushView(v.addForm())
	case "x":
		if n := len(v.editor.Drafts()); n > 0 {
			v.editor.Remove(n - 1)
		}
	case "s":
		if v.saving {
			return v, nil
		}
		if err := v.editor.Validate(); err != nil {
			return v, notify(app.Danger(err))
		}
		v.saving = true
		editor := v.editor
		return v, func() tea.Msg {
			n, err := editor.Save(context.Background())
			return lessonsSavedMsg{saved: n, err: err}
		}
	case "r":
		v.loading = true
		return v, v.load()
	}
	return v, nil
}

// lessonInput is bound to the add-lesson form. Arrays are indexed like
// domain.Locales.
type lessonInput struct {
	title, content [3]string
	duration       string
	free           bool
	video          string
}

func (v *lessonsView) addForm() *formView {
	in := &lessonInput{}
	var groups []*huh.Group
	for i, loc := range domain.Locales {
		title := huh.NewInput().Title("Title").Value(&in.title[i])
		content := huh.NewText().Title("Content").Value(&in.content[i])
		if loc == domain.LocaleEN {
			title = title.Validate(required("English title"))
			content = content.Validate(required("English content"))
		}
		groups = append(groups, huh.NewGroup(title, content).Title(loc.Label()))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Video duration").
			Placeholder("12:30").
			Value(&in.duration),
		huh.NewConfirm().
			Title("Free preview?").
			Value(&in.free),
		huh.NewInput().
			Title("Video file").
			Description("Optional; uploaded right away").
			Value(&in.video).
			Validate(fileExists),
	))

	return newFormView("Add lesson", newForm(groups...), func() tea.Cmd {
		return v.addDraft(in)
	})
}

// addDraft copies a completed form into a new draft and starts the video
// upload when a file was given.
func (v *lessonsView) addDraft(in *lessonInput) tea.Cmd {
	i := v.editor.Add()
	for j, loc := range domain.Locales {
		_ = v.editor.SetText(i, lessons.FieldTitle, loc, in.title[j])
		_ = v.editor.SetText(i, lessons.FieldContent, loc, in.content[j])
	}
	_ = v.editor.SetDuration(i, in.duration)
	_ = v.editor.SetFree(i, in.free)

	path := strings.TrimSpace(in.video)
	if path == "" {
		return nil
	}
	editor := v.editor
	return func() tea.Msg {
		f, err := readAsset(path)
		if err != nil {
			return lessonVideoMsg{err: err}
		}
		return lessonVideoMsg{err: editor.AttachVideo(context.Background(), i, f)}
	}
}

func (v *lessonsView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n\n", formatter.Bold(v.course.Title.Display()), formatter.Dim(v.course.ID))

	rows := v.table.Rows()
	switch {
	case v.loading && !v.table.Loaded():
		b.WriteString("  " + formatter.Dim("Loading lessons...") + "\n")
	case len(rows) == 0:
		b.WriteString("  " + formatter.Dim("No lessons yet. Press a to add one.") + "\n")
	default:
		for i, l := range rows {
			cursor := "  "
			style := formatter.StyleFg
			if i == v.cursor {
				cursor = formatter.StyleGreen.Render("▸ ")
				style = formatter.StyleBold
			}
			free := ""
			if l.Data.IsFree {
				free = formatter.StyleGreen.Render(" free")
			}
			fmt.Fprintf(&b, "%s%s  %s%s\n", cursor,
				style.Render(formatter.PadRight(l.Data.Title.Display(), 36)),
				formatter.Dim(domain.CoalesceStr(l.Data.VideoDuration, "--:--")), free)
		}
	}

	if drafts := v.editor.Drafts(); len(drafts) > 0 {
		b.WriteString("\n  " + formatter.Header("Unsaved") + "\n")
		for i, d := range drafts {
			video := ""
			if d.Data.VideoURL != "" {
				video = formatter.Dim("  video " + d.VideoFile)
			}
			fmt.Fprintf(&b, "  %d. %s%s\n", i+1, d.Data.Title.Display(), video)
		}
	}
	if v.saving {
		b.WriteString("\n  " + formatter.Dim("Saving lessons...") + "\n")
	}

	if v.open != nil {
		b.WriteString("\n")
		b.WriteString(formatter.RenderBox("Lesson "+v.open.Key, formatter.FormatLesson(*v.open)))
	}
	return b.String()
}
