package wizard

import (
	"encoding/json"
	"strings"

	"github.com/naumanrao/courseadmin/internal/domain"
)

const (
	// EmptySentinel stands in for a value that is blank in every locale.
	EmptySentinel = "-"

	// DefaultContentType is the block type used when none was chosen.
	DefaultContentType = "p"
)

// AssetKeys are the stored object keys merged into a template.
type AssetKeys struct {
	Thumbnail    string
	PreviewVideo string
}

// FillFromEnglish copies English into empty locales, and the sentinel into
// English when English itself is empty. Whitespace counts as a value.
func FillFromEnglish(t domain.LocalizedText) domain.LocalizedText {
	en := t.En
	if en == "" {
		en = EmptySentinel
	}
	out := domain.LocalizedText{En: en}
	for _, loc := range domain.Locales[1:] {
		v := t.Get(loc)
		if v == "" {
			v = en
		}
		out.Set(loc, v)
	}
	return out
}

// BuildTemplate serializes a draft into the course_template body.
func BuildTemplate(f *Fields, price float64, reviews []domain.Review, assets AssetKeys) domain.CourseTemplate {
	contentType := strings.TrimSpace(f.Text(FieldContentType, domain.LocaleEN))
	if contentType == "" {
		contentType = DefaultContentType
	}

	content := []domain.ContentBlock{
		domain.NewTextBlock(contentType, FillFromEnglish(f.Localized(FieldDescription))),
	}
	if objectives := buildObjectives(f.localizedList(FieldObjectives)); len(objectives) > 0 {
		content = append(content, domain.NewListBlock(objectives))
	}

	return domain.CourseTemplate{
		Title:        FillFromEnglish(f.Localized(FieldTitle)),
		Subtitle:     FillFromEnglish(f.Localized(FieldSubtitle)),
		Price:        domain.Price(price),
		PreviewVideo: assets.PreviewVideo,
		Thumbnail:    assets.Thumbnail,
		FullDetails: domain.FullDetails{
			Content: content,
			Reviews: buildReviews(reviews),
			Tags:    buildTags(f.localizedList(FieldTags)),
		},
		Lessons: map[string]json.RawMessage{},
	}
}

// buildObjectives pairs items by index across locales. The block is as long
// as the longest locale list and each index is filled from English.
func buildObjectives(list domain.LocalizedList) []domain.LocalizedText {
	n := list.MaxLen()
	out := make([]domain.LocalizedText, 0, n)
	for i := 0; i < n; i++ {
		var item domain.LocalizedText
		for _, loc := range domain.Locales {
			item.Set(loc, list.At(loc, i))
		}
		out = append(out, FillFromEnglish(item))
	}
	return out
}

func buildReviews(reviews []domain.Review) map[string]domain.ReviewEntry {
	out := make(map[string]domain.ReviewEntry, len(reviews))
	for i, r := range reviews {
		out[domain.ReviewKey(i)] = domain.ReviewEntry{
			Name:    r.Name,
			Comment: FillFromEnglish(domain.LocalizedText{En: r.Comment}),
			Rating:  r.Rating,
		}
	}
	return out
}

// buildTags drops locales without tags.
func buildTags(list domain.LocalizedList) map[domain.Locale][]string {
	out := make(map[domain.Locale][]string)
	for _, loc := range domain.Locales {
		if items := list.Get(loc); len(items) > 0 {
			out[loc] = items
		}
	}
	return out
}
