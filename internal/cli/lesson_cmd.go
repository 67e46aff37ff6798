package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/lessons"
)

func newLessonsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lessons",
		Aliases: []string{"lesson"},
		Short:   "List, inspect and add lessons of a course",
	}
	cmd.AddCommand(
		newLessonsListCmd(a),
		newLessonsShowCmd(a),
		newLessonsAddCmd(a),
	)
	return cmd
}

func newLessonsListCmd(a *App) *cobra.Command {
	return requiresSession(&cobra.Command{
		Use:   "list <course-id>",
		Short: "List the lessons of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := lessons.NewTable(a.Lessons, args[0]).Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLessonList(rows))
			return nil
		},
	})
}

func newLessonsShowCmd(a *App) *cobra.Command {
	return requiresSession(&cobra.Command{
		Use:   "show <course-id> <lesson-key>",
		Short: "Show one lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lessons.NewTable(a.Lessons, args[0]).Open(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLesson(*l))
			return nil
		},
	})
}

func newLessonsAddCmd(a *App) *cobra.Command {
	var file string
	videoFlags := lessonVideoFlag{}

	cmd := &cobra.Command{
		Use:   "add <course-id>",
		Short: "Add lessons from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft, err := loadLessonsDraft(file)
			if err != nil {
				return err
			}
			editor := lessons.NewEditor(a.Lessons, args[0], a.logger().Named("lessons"))
			videos, err := draft.apply(editor)
			if err != nil {
				return err
			}
			for n, path := range videoFlags {
				if n > len(draft.Lessons) {
					return fmt.Errorf("--video %d=%s: lesson number must be 1..%d", n, path, len(draft.Lessons))
				}
				videos[n-1] = path
			}
			if err := editor.Validate(); err != nil {
				return err
			}

			idx := make([]int, 0, len(videos))
			for i := range videos {
				idx = append(idx, i)
			}
			sort.Ints(idx)
			for _, i := range idx {
				f, err := readAsset(videos[i])
				if err != nil {
					return err
				}
				if err := editor.AttachVideo(ctx, i, f); err != nil {
					return err
				}
			}

			n, err := editor.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d lessons.\n", formatter.StyleGreen.Render("✔"), n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML lessons file")
	cmd.Flags().Var(videoFlags, "video", "Lesson video by lesson number, e.g. --video 2=intro.mp4 (repeatable)")
	_ = cmd.MarkFlagRequired("file")
	return requiresSession(cmd)
}

// lessonVideoFlag collects repeated --video N=path values keyed by the
// 1-based lesson number.
type lessonVideoFlag map[int]string

var _ pflag.Value = lessonVideoFlag(nil)

func (f lessonVideoFlag) Set(v string) error {
	n, path, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return fmt.Errorf("want N=path, got %q", v)
	}
	i, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil || i < 1 {
		return fmt.Errorf("lesson number must be a positive integer, got %q", n)
	}
	f[i] = strings.TrimSpace(path)
	return nil
}

func (f lessonVideoFlag) String() string {
	keys := make([]int, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d=%s", k, f[k]))
	}
	return strings.Join(parts, ",")
}

func (f lessonVideoFlag) Type() string { return "lesson=path" }
