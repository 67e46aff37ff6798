package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

// FormatCourseList renders the course table used by "courses list".
func FormatCourseList(courses []domain.Course) string {
	if len(courses) == 0 {
		return Dim("No courses yet.") + "\n"
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.ID,
			c.Title.Display(),
			Price(float64(c.Price)),
			Check(c.Thumbnail != ""),
			Check(c.PreviewVideo != ""),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "PRICE", "THUMB", "VIDEO"}, rows, 40)
}

// FormatTemplate renders a course payload for the preview step and for
// headless confirmation output.
func FormatTemplate(tmpl domain.CourseTemplate) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight(label, 12)), value)
	}

	line("Title", Localized(tmpl.Title))
	line("Subtitle", Localized(tmpl.Subtitle))
	line("Price", Price(float64(tmpl.Price)))

	for _, block := range tmpl.FullDetails.Content {
		if block.Type == domain.ContentTypeList {
			items, err := block.ListItems()
			if err != nil {
				continue
			}
			line("Objectives", strconv.Itoa(len(items)))
			for i, item := range items {
				fmt.Fprintf(&b, "  %s %s\n", Dim(fmt.Sprintf("%d.", i+1)), Localized(item))
			}
			continue
		}
		text, err := block.TextValue()
		if err != nil {
			continue
		}
		line("Description", Dim("("+block.Type+")"))
		fmt.Fprintf(&b, "  %s\n", Localized(text))
	}

	reviews := tmpl.FullDetails.OrderedReviews()
	line("Reviews", strconv.Itoa(len(reviews)))
	for _, r := range reviews {
		fmt.Fprintf(&b, "  %s %s %s\n", StyleYellow.Render(strings.Repeat("★", r.Rating)), Bold(r.Name), r.Comment.En)
	}

	var tags []string
	for _, loc := range domain.Locales {
		if t := tmpl.FullDetails.Tags[loc]; len(t) > 0 {
			tags = append(tags, Dim(string(loc)+":")+" "+strings.Join(t, ", "))
		}
	}
	if len(tags) == 0 {
		tags = []string{Dim("—")}
	}
	line("Tags", strings.Join(tags, "  "))

	if tmpl.Thumbnail != "" || tmpl.PreviewVideo != "" {
		line("Thumbnail", tmpl.Thumbnail)
		line("Video", tmpl.PreviewVideo)
	}
	return b.String()
}

// FormatAssetStatuses renders one line per staged slot.
func FormatAssetStatuses(statuses []wizard.SlotStatus) string {
	var b strings.Builder
	for _, st := range statuses {
		state := Dim(st.State.String())
		switch st.State {
		case wizard.SlotConfirmed:
			state = StyleGreen.Render("✔ " + st.Key)
		case wizard.SlotFailed:
			msg := "failed"
			if st.Err != nil {
				msg = st.Err.Error()
			}
			state = StyleRed.Render("✖ " + msg)
		case wizard.SlotUploading:
			state = StyleYellow.Render("uploading…")
		case wizard.SlotPending:
			state = StyleBlue.Render("waiting for course id")
		}
		file := Dim("no file")
		if st.Preview != nil {
			file = fmt.Sprintf("%s %s", st.Preview.Name, Dim(fmt.Sprintf("(%s, %d bytes)", st.Preview.ContentType, st.Preview.Size)))
		}
		fmt.Fprintf(&b, "%s %s  %s\n", StyleHeader.Render(PadRight(st.Slot.Label(), 14)), file, state)
	}
	return b.String()
}
