package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

// wizardOutcomeMsg reports a finished Next call of the shared machine.
type wizardOutcomeMsg struct {
	out wizard.Outcome
	err error
}

type contentTypesMsg struct {
	err error
}

// wizardInput holds the values bound to the current step's form. Arrays are
// indexed like domain.Locales.
type wizardInput struct {
	title, subtitle, description [3]string
	objectives, tags             [3]string
	contentType                  string
	price                        string

	thumbnail, video string

	reviewName, reviewComment string
	reviewRating              int
	addAnother                bool

	finish bool
}

// courseWizardView hosts the five publishing steps over SharedState.Wizard.
type courseWizardView struct {
	state   *SharedState
	in      *wizardInput
	form    *huh.Form
	spinner spinner.Model
	busy    string
}

func newCourseWizardView(state *SharedState) *courseWizardView {
	v := &courseWizardView{
		state:   state,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StyleHeader)),
	}
	v.buildForm()
	return v
}

func (v *courseWizardView) ID() ViewID { return ViewWizard }

func (v *courseWizardView) Title() string {
	if v.state.Wizard.CourseID() != "" {
		return "Edit course"
	}
	return "New course"
}

func (v *courseWizardView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous step")),
	}
	if v.state.Wizard.Step() == wizard.StepReviews {
		bindings = append(bindings, key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove last review")))
	}
	return append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")))
}

func (v *courseWizardView) Init() tea.Cmd {
	var cmds []tea.Cmd
	if len(v.state.Wizard.ContentTypes()) == 0 {
		m, courses := v.state.Wizard, v.state.App.Courses
		cmds = append(cmds, func() tea.Msg {
			_, err := m.LoadContentTypes(context.Background(), courses)
			return contentTypesMsg{err: err}
		})
	}
	if v.form != nil {
		cmds = append(cmds, v.form.Init())
	}
	return tea.Batch(cmds...)
}

func (v *courseWizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := v.state.Wizard

	switch msg := msg.(type) {
	case contentTypesMsg:
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		if m.Step() == wizard.StepAbout && v.form != nil {
			return v, v.buildForm()
		}
		return v, nil

	case wizardOutcomeMsg:
		return v.handleOutcome(msg)

	case spinner.TickMsg:
		if v.busy == "" {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Reset()
			return v, popView()
		case "ctrl+p":
			if v.busy != "" {
				return v, nil
			}
			m.Prev()
			return v, v.buildForm()
		case "ctrl+x":
			if v.busy == "" && m.Step() == wizard.StepReviews {
				if n := len(m.Reviews()); n > 0 {
					m.RemoveReview(n - 1)
				}
				return v, nil
			}
		}
		if v.busy != "" {
			return v, nil
		}
		if m.Step() == wizard.StepPreview {
			if msg.Type == tea.KeyEnter {
				return v, v.run("Publishing...", nil)
			}
			return v, nil
		}
	}

	if v.form == nil || v.busy != "" {
		return v, nil
	}
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return v, v.submit()
	}
	return v, cmd
}

// submit copies the completed form into the machine and advances.
func (v *courseWizardView) submit() tea.Cmd {
	m := v.state.Wizard
	in := v.in

	switch m.Step() {
	case wizard.StepDetails:
		for i, loc := range domain.Locales {
			m.SetText(wizard.FieldTitle, loc, in.title[i])
			m.SetText(wizard.FieldSubtitle, loc, in.subtitle[i])
		}
		if err := m.SetPrice(in.price); err != nil {
			return v.retry(err)
		}
		files, err := readSlotFiles(in.thumbnail, in.video)
		if err != nil {
			return v.retry(err)
		}
		return v.run("Saving...", files)

	case wizard.StepAbout:
		for i, loc := range domain.Locales {
			m.SetText(wizard.FieldDescription, loc, in.description[i])
			replaceList(m, wizard.FieldObjectives, loc, strings.Split(in.objectives[i], "\n"))
			replaceList(m, wizard.FieldTags, loc, strings.Split(in.tags[i], ","))
		}
		m.SetText(wizard.FieldContentType, domain.LocaleEN, in.contentType)
		return v.run("", nil)

	case wizard.StepReviews:
		if strings.TrimSpace(in.reviewName) != "" || strings.TrimSpace(in.reviewComment) != "" {
			if err := m.AddReview(in.reviewName, in.reviewRating, in.reviewComment); err != nil {
				return v.retry(err)
			}
		}
		if in.addAnother {
			return v.buildForm()
		}
		return v.run("", nil)

	case wizard.StepAssets:
		files, err := readSlotFiles(in.thumbnail, in.video)
		if err != nil {
			return v.retry(err)
		}
		if !in.finish {
			if len(files) == 0 {
				return v.buildForm()
			}
			return v.upload(files)
		}
		return v.run("Uploading and saving...", files)
	}
	return nil
}

// run stages files, then calls Next on the machine in the background.
func (v *courseWizardView) run(label string, files map[domain.Slot]domain.File) tea.Cmd {
	if label == "" && len(files) == 0 {
		out, err := v.state.Wizard.Next(context.Background())
		return func() tea.Msg { return wizardOutcomeMsg{out: out, err: err} }
	}
	v.busy = label
	m := v.state.Wizard
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if err := selectFiles(ctx, m, files); err != nil {
			return wizardOutcomeMsg{out: wizard.Outcome{Step: m.Step()}, err: err}
		}
		out, err := m.Next(ctx)
		return wizardOutcomeMsg{out: out, err: err}
	})
}

// upload selects files on the assets step without finishing.
func (v *courseWizardView) upload(files map[domain.Slot]domain.File) tea.Cmd {
	v.busy = "Uploading..."
	m := v.state.Wizard
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		err := selectFiles(context.Background(), m, files)
		return wizardOutcomeMsg{out: wizard.Outcome{Step: m.Step(), CourseID: m.CourseID()}, err: err}
	})
}

// selectFiles hands every file to the coordinator. Once the course exists
// each selection uploads, so the slots go out concurrently. One slot failing
// does not cancel the other.
func selectFiles(ctx context.Context, m *wizard.Machine, files map[domain.Slot]domain.File) error {
	var g errgroup.Group
	for slot, f := range files {
		g.Go(func() error {
			return m.Assets().Select(ctx, slot, f)
		})
	}
	return g.Wait()
}

func (v *courseWizardView) handleOutcome(msg wizardOutcomeMsg) (tea.Model, tea.Cmd) {
	v.busy = ""
	if msg.out.Stale {
		return v, nil
	}
	ttl := v.state.App.Config.NoticeSuccessTTL()

	if msg.err != nil {
		if errors.Is(msg.err, wizard.ErrBusy) {
			return v, notify(app.Info("Please wait for the current upload to finish.", ttl))
		}
		return v, tea.Batch(notifyErr(msg.err), v.buildForm())
	}

	switch {
	case msg.out.Finished:
		return v, tea.Batch(
			notify(app.Success("Course updated successfully!", ttl)),
			popView(),
			refreshViews(),
		)
	case msg.out.Published:
		n := notify(app.Success("Course published successfully! Please upload assets.", ttl))
		if msg.out.AssetErr != nil {
			n = notify(app.Danger(fmt.Errorf("course published, but an asset upload failed: %w", msg.out.AssetErr)))
		}
		return v, tea.Batch(n, v.buildForm(), refreshViews())
	}
	return v, v.buildForm()
}

// retry shows err and rebuilds the current step's form with the typed values.
func (v *courseWizardView) retry(err error) tea.Cmd {
	in := *v.in
	in.addAnother, in.finish = false, false
	return tea.Batch(notify(app.Danger(err)), v.buildFormWith(&in))
}

// buildForm creates the form for the machine's current step from its field
// values.
func (v *courseWizardView) buildForm() tea.Cmd {
	return v.buildFormWith(readWizardInput(v.state.Wizard))
}

// buildFormWith binds a fresh form to in. The preview step has no form.
func (v *courseWizardView) buildFormWith(in *wizardInput) tea.Cmd {
	m := v.state.Wizard
	v.in = in

	switch m.Step() {
	case wizard.StepDetails:
		v.form = detailsForm(in)
	case wizard.StepAbout:
		v.form = aboutForm(in, m.ContentTypes())
	case wizard.StepReviews:
		v.form = reviewForm(in)
	case wizard.StepAssets:
		v.form = assetsForm(in)
	default:
		v.form = nil
		return nil
	}
	return v.form.Init()
}

func readWizardInput(m *wizard.Machine) *wizardInput {
	in := &wizardInput{reviewRating: 5}
	for i, loc := range domain.Locales {
		in.title[i] = m.Text(wizard.FieldTitle, loc)
		in.subtitle[i] = m.Text(wizard.FieldSubtitle, loc)
		in.description[i] = m.Text(wizard.FieldDescription, loc)
		in.objectives[i] = strings.Join(m.List(wizard.FieldObjectives, loc), "\n")
		in.tags[i] = strings.Join(m.List(wizard.FieldTags, loc), ", ")
	}
	in.contentType = m.Text(wizard.FieldContentType, domain.LocaleEN)
	in.price, _ = m.Price()
	return in
}

func replaceList(m *wizard.Machine, field wizard.ListField, loc domain.Locale, items []string) {
	for len(m.List(field, loc)) > 0 {
		m.RemoveListItem(field, loc, 0)
	}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			m.AddListItem(field, loc, item)
		}
	}
}

func readSlotFiles(thumbnail, video string) (map[domain.Slot]domain.File, error) {
	files := map[domain.Slot]domain.File{}
	paths := map[domain.Slot]string{
		domain.SlotThumbnail:    strings.TrimSpace(thumbnail),
		domain.SlotPreviewVideo: strings.TrimSpace(video),
	}
	for slot, p := range paths {
		if p == "" {
			continue
		}
		f, err := readAsset(p)
		if err != nil {
			return nil, api.Invalid(string(slot), err.Error())
		}
		files[slot] = f
	}
	return files, nil
}

func fileExists(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot read %s", p)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	return nil
}

// ── step forms ───────────────────────────────────────────────────────────────

func detailsForm(in *wizardInput) *huh.Form {
	var groups []*huh.Group
	for i, loc := range domain.Locales {
		title := huh.NewInput().
			Title("Title").
			Value(&in.title[i])
		if loc == domain.LocaleEN {
			title = title.Validate(required("English title"))
		} else {
			title = title.Placeholder("falls back to English")
		}
		groups = append(groups, huh.NewGroup(
			title,
			huh.NewInput().Title("Subtitle").Value(&in.subtitle[i]),
		).Title(loc.Label()))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Price").
			Placeholder("0 for free").
			Value(&in.price),
		huh.NewInput().
			Title("Thumbnail image").
			Description("Path to a local file; uploaded once the course is published").
			Value(&in.thumbnail).
			Validate(fileExists),
		huh.NewInput().
			Title("Preview video").
			Value(&in.video).
			Validate(fileExists),
	).Title("Price & media"))
	return newForm(groups...)
}

func aboutForm(in *wizardInput, contentTypes []string) *huh.Form {
	if len(contentTypes) == 0 {
		contentTypes = []string{"p"}
	}
	if in.contentType == "" {
		in.contentType = contentTypes[0]
	}
	var groups []*huh.Group
	for i, loc := range domain.Locales {
		groups = append(groups, huh.NewGroup(
			huh.NewText().
				Title("Description").
				Value(&in.description[i]),
			huh.NewText().
				Title("Learning objectives").
				Description("One per line").
				Value(&in.objectives[i]),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&in.tags[i]),
		).Title(loc.Label()))
	}
	groups = append(groups, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Description block type").
			Options(huh.NewOptions(contentTypes...)...).
			Value(&in.contentType),
	))
	return newForm(groups...)
}

func reviewForm(in *wizardInput) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewInput().
			Title("Reviewer name").
			Description("Leave name and comment empty to skip").
			Value(&in.reviewName),
		huh.NewSelect[int]().
			Title("Rating").
			Options(huh.NewOptions(5, 4, 3, 2, 1)...).
			Value(&in.reviewRating),
		huh.NewText().
			Title("Comment").
			Value(&in.reviewComment),
		huh.NewConfirm().
			Title("Add another review?").
			Affirmative("Yes").
			Negative("No, continue").
			Value(&in.addAnother),
	))
}

func assetsForm(in *wizardInput) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewInput().
			Title("Thumbnail image").
			Description("Leave empty to keep the current one").
			Value(&in.thumbnail).
			Validate(fileExists),
		huh.NewInput().
			Title("Preview video").
			Value(&in.video).
			Validate(fileExists),
		huh.NewConfirm().
			Title("Finish and save the course?").
			Affirmative("Finish").
			Negative("Upload only").
			Value(&in.finish),
	))
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *courseWizardView) View() string {
	m := v.state.Wizard
	step := m.Step()

	var b strings.Builder
	b.WriteString("\n" + renderSteps(step) + "\n\n")

	switch step {
	case wizard.StepReviews:
		if reviews := m.Reviews(); len(reviews) > 0 {
			for i, r := range reviews {
				fmt.Fprintf(&b, "  %d. %s %s  %s\n", i+1, formatter.Bold(r.Name),
					formatter.StyleYellow.Render(strings.Repeat("★", r.Rating)), formatter.Truncate(r.Comment, 50))
			}
			b.WriteString("\n")
		}
	case wizard.StepPreview:
		b.WriteString(formatter.RenderBox("Preview", formatter.FormatTemplate(m.Template(false))))
		b.WriteString("\n")
		b.WriteString(formatter.FormatAssetStatuses(m.Assets().Statuses()))
		if v.busy == "" {
			b.WriteString("\n" + formatter.Dim("Press enter to publish."))
		}
	case wizard.StepAssets:
		fmt.Fprintf(&b, "  %s %s\n\n", formatter.Dim("Course"), formatter.Bold(m.CourseID()))
		b.WriteString(formatter.FormatAssetStatuses(m.Assets().Statuses()))
		b.WriteString("\n")
	}

	if v.busy != "" {
		b.WriteString("\n  " + v.spinner.View() + " " + formatter.Dim(v.busy))
		return b.String()
	}
	if v.form != nil {
		b.WriteString(v.form.View())
	}
	return b.String()
}

func renderSteps(current wizard.Step) string {
	parts := make([]string, 0, wizard.StepCount)
	for s := wizard.StepDetails; s <= wizard.StepAssets; s++ {
		label := fmt.Sprintf("%d %s", s, s)
		switch {
		case s == current:
			parts = append(parts, formatter.StyleHeader.Render(label))
		case s < current:
			parts = append(parts, formatter.StyleGreen.Render(label))
		default:
			parts = append(parts, formatter.Dim(label))
		}
	}
	return "  " + strings.Join(parts, formatter.Dim(" › "))
}
