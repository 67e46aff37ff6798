package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/lessons"
	"github.com/naumanrao/courseadmin/internal/wizard"
)

// localizedYAML maps free-form locale tags ("en-US", "zh-Hant") to values.
type localizedYAML map[string]string

type reviewYAML struct {
	Name    string `yaml:"name"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

// courseDraftFile is the on-disk form of a wizard draft for headless
// "courses create".
type courseDraftFile struct {
	Title        localizedYAML       `yaml:"title"`
	Subtitle     localizedYAML       `yaml:"subtitle"`
	Description  localizedYAML       `yaml:"description"`
	ContentType  string              `yaml:"content_type"`
	Price        *float64            `yaml:"price"`
	Objectives   map[string][]string `yaml:"objectives"`
	Tags         map[string][]string `yaml:"tags"`
	Reviews      []reviewYAML        `yaml:"reviews"`
	Thumbnail    string              `yaml:"thumbnail"`
	PreviewVideo string              `yaml:"preview_video"`
}

type lessonYAML struct {
	Title    localizedYAML `yaml:"title"`
	Content  localizedYAML `yaml:"content"`
	Duration string        `yaml:"duration"`
	Free     bool          `yaml:"free"`
	Video    string        `yaml:"video"`
}

type lessonsDraftFile struct {
	Lessons []lessonYAML `yaml:"lessons"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func loadCourseDraft(path string) (*courseDraftFile, error) {
	var d courseDraftFile
	if err := readYAML(path, &d); err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	d.Thumbnail = resolveRelative(base, d.Thumbnail)
	d.PreviewVideo = resolveRelative(base, d.PreviewVideo)
	return &d, nil
}

func loadLessonsDraft(path string) (*lessonsDraftFile, error) {
	var d lessonsDraftFile
	if err := readYAML(path, &d); err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range d.Lessons {
		d.Lessons[i].Video = resolveRelative(base, d.Lessons[i].Video)
	}
	return &d, nil
}

func resolveRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func (l localizedYAML) each(fn func(domain.Locale, string)) error {
	for tag, v := range l {
		loc, err := domain.ParseLocale(tag)
		if err != nil {
			return err
		}
		fn(loc, v)
	}
	return nil
}

// apply writes the text, list, price and review fields into m. Asset paths
// are staged by the caller.
func (d *courseDraftFile) apply(m *wizard.Machine) error {
	texts := []struct {
		field wizard.TextField
		value localizedYAML
	}{
		{wizard.FieldTitle, d.Title},
		{wizard.FieldSubtitle, d.Subtitle},
		{wizard.FieldDescription, d.Description},
	}
	for _, t := range texts {
		err := t.value.each(func(loc domain.Locale, v string) { m.SetText(t.field, loc, v) })
		if err != nil {
			return fmt.Errorf("%s: %w", t.field, err)
		}
	}
	if d.ContentType != "" {
		m.SetText(wizard.FieldContentType, domain.LocaleEN, d.ContentType)
	}

	lists := []struct {
		field wizard.ListField
		value map[string][]string
	}{
		{wizard.FieldObjectives, d.Objectives},
		{wizard.FieldTags, d.Tags},
	}
	for _, l := range lists {
		for tag, items := range l.value {
			loc, err := domain.ParseLocale(tag)
			if err != nil {
				return fmt.Errorf("%s: %w", l.field, err)
			}
			for _, item := range items {
				m.AddListItem(l.field, loc, item)
			}
		}
	}

	if d.Price != nil {
		if err := m.SetPrice(strconv.FormatFloat(*d.Price, 'f', -1, 64)); err != nil {
			return err
		}
	}
	for _, r := range d.Reviews {
		if err := m.AddReview(r.Name, r.Rating, r.Comment); err != nil {
			return err
		}
	}
	return nil
}

// apply appends every lesson to e and returns the video path per draft
// index.
func (d *lessonsDraftFile) apply(e *lessons.Editor) (map[int]string, error) {
	videos := map[int]string{}
	for _, l := range d.Lessons {
		i := e.Add()
		var setErr error
		set := func(field lessons.Field) func(domain.Locale, string) {
			return func(loc domain.Locale, v string) {
				if err := e.SetText(i, field, loc, v); err != nil && setErr == nil {
					setErr = err
				}
			}
		}
		if err := l.Title.each(set(lessons.FieldTitle)); err != nil {
			return nil, fmt.Errorf("lesson %d title: %w", i+1, err)
		}
		if err := l.Content.each(set(lessons.FieldContent)); err != nil {
			return nil, fmt.Errorf("lesson %d content: %w", i+1, err)
		}
		if setErr != nil {
			return nil, setErr
		}
		if err := e.SetDuration(i, l.Duration); err != nil {
			return nil, err
		}
		if err := e.SetFree(i, l.Free); err != nil {
			return nil, err
		}
		if l.Video != "" {
			videos[i] = l.Video
		}
	}
	return videos, nil
}

func readAsset(path string) (domain.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.File{Name: path, Data: data}, nil
}
