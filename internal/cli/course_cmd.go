package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/cli/formatter"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

func newCoursesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "List and publish courses",
	}
	cmd.AddCommand(
		newCoursesListCmd(a),
		newCoursesCreateCmd(a),
		newCoursesContentTypesCmd(a),
	)
	return cmd
}

func newCoursesListCmd(a *App) *cobra.Command {
	return requiresSession(&cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := a.Courses.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCourseList(courses))
			return nil
		},
	})
}

func newCoursesContentTypesCmd(a *App) *cobra.Command {
	return requiresSession(&cobra.Command{
		Use:   "content-types",
		Short: "List the content block types accepted for course descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.Courses.ContentTypes(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(types, "\n"))
			return nil
		},
	})
}

func newCoursesCreateCmd(a *App) *cobra.Command {
	var file, thumbnail, video string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a course from a YAML draft",
		Long: `Publish a course from a YAML draft.

The draft is walked through the same five wizard steps as the console:
details, about, reviews, preview & publish, then assets. Thumbnail and
preview video files are staged before publishing and uploaded once the
server assigns the course id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			draft, err := loadCourseDraft(file)
			if err != nil {
				return err
			}
			m := wizard.NewMachine(a.Courses, a.Courses, a.logger().Named("wizard"))
			if err := draft.apply(m); err != nil {
				return err
			}

			assets := map[domain.Slot]string{
				domain.SlotThumbnail:    domain.CoalesceStr(thumbnail, draft.Thumbnail),
				domain.SlotPreviewVideo: domain.CoalesceStr(video, draft.PreviewVideo),
			}
			for _, slot := range domain.CourseSlots {
				if assets[slot] == "" {
					continue
				}
				f, err := readAsset(assets[slot])
				if err != nil {
					return err
				}
				if err := m.Assets().Select(ctx, slot, f); err != nil {
					return err
				}
			}

			if dryRun {
				fmt.Fprint(out, formatter.FormatTemplate(m.Template(false)))
				return nil
			}

			for m.Step() < wizard.StepPreview {
				if _, err := m.Next(ctx); err != nil {
					return err
				}
			}

			published, err := m.Next(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Course published: %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(published.CourseID))
			fmt.Fprint(out, formatter.FormatAssetStatuses(m.Assets().Statuses()))

			finished, err := m.Next(ctx)
			if err != nil {
				return err
			}
			if !finished.Finished {
				return errors.New("course was not finalized")
			}
			if published.AssetErr != nil {
				return fmt.Errorf("course %s saved without some assets: %w", published.CourseID, published.AssetErr)
			}
			fmt.Fprintln(out, "Course created successfully!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML course draft")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Thumbnail image (overrides the draft)")
	cmd.Flags().StringVar(&video, "video", "", "Preview video (overrides the draft)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the payload preview without publishing")
	_ = cmd.MarkFlagRequired("file")
	return requiresSession(cmd)
}

var _ wizard.Publisher = (*api.Client)(nil)
