package formatter

import (
	"fmt"
	"strings"

	"github.com/naumanrao/courseadmin/internal/app"
	"github.com/naumanrao/courseadmin/internal/domain"
)

func FormatLessonList(lessons []domain.Lesson) string {
	if len(lessons) == 0 {
		return Dim("No lessons yet.") + "\n"
	}
	rows := make([][]string, 0, len(lessons))
	for i, l := range lessons {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			l.Key,
			l.Data.Title.Display(),
			l.Data.VideoDuration,
			Check(l.Data.IsFree),
			Check(l.Data.VideoURL != ""),
		})
	}
	return RenderTable([]string{"#", "KEY", "TITLE", "DURATION", "FREE", "VIDEO"}, rows, 40)
}

func FormatLesson(l domain.Lesson) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Key", 10)), l.Key)
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Title", 10)), Localized(l.Data.Title))
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Content", 10)), Localized(l.Data.Content))
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Duration", 10)), l.Data.VideoDuration)
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Video", 10)), l.Data.VideoURL)
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Free", 10)), Check(l.Data.IsFree))
	return b.String()
}

// FormatSession renders the whoami output.
func FormatSession(st app.SessionStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("User", 10)), st.User.DisplayName())
	if st.User.Email != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Email", 10)), st.User.Email)
	}
	if st.User.Role != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Role", 10)), st.User.Role)
	}
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Logged in", 10)), st.LoginTime.Local().Format("Jan 2, 2006 15:04"))
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(PadRight("Expires in", 10)), Remaining(st.Remaining))
	return b.String()
}
