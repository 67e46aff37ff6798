package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/domain"
)

func TestFillFromEnglish(t *testing.T) {
	assert.Equal(t,
		domain.LocalizedText{En: "Go", ZhCN: "Go", ZhTW: "Go"},
		FillFromEnglish(domain.LocalizedText{En: "Go"}))

	assert.Equal(t,
		domain.LocalizedText{En: "Go", ZhCN: "围棋", ZhTW: "Go"},
		FillFromEnglish(domain.LocalizedText{En: "Go", ZhCN: "围棋"}))

	assert.Equal(t,
		domain.LocalizedText{En: "-", ZhCN: "-", ZhTW: "-"},
		FillFromEnglish(domain.LocalizedText{}))

	assert.Equal(t,
		domain.LocalizedText{En: "-", ZhCN: "中文", ZhTW: "-"},
		FillFromEnglish(domain.LocalizedText{ZhCN: "中文"}))

	assert.Equal(t,
		domain.LocalizedText{En: " ", ZhCN: " ", ZhTW: "Go "},
		FillFromEnglish(domain.LocalizedText{En: " ", ZhTW: "Go "}))
}

func TestBuildTemplate_TitleFanOut(t *testing.T) {
	f := NewFields()
	f.SetText(FieldTitle, domain.LocaleEN, "Go")

	tmpl := BuildTemplate(f, 0, nil, AssetKeys{})

	assert.Equal(t, domain.LocalizedText{En: "Go", ZhCN: "Go", ZhTW: "Go"}, tmpl.Title)
	assert.Equal(t, domain.LocalizedText{En: "-", ZhCN: "-", ZhTW: "-"}, tmpl.Subtitle)
}

func TestBuildTemplate_ObjectivesPairedByIndex(t *testing.T) {
	f := NewFields()
	f.AddListItem(FieldObjectives, domain.LocaleEN, "A")
	f.AddListItem(FieldObjectives, domain.LocaleEN, "B")
	f.AddListItem(FieldObjectives, domain.LocaleZhCN, "甲")

	tmpl := BuildTemplate(f, 0, nil, AssetKeys{})
	require.Len(t, tmpl.FullDetails.Content, 2)

	block := tmpl.FullDetails.Content[1]
	assert.Equal(t, "li", block.Type)
	items, err := block.ListItems()
	require.NoError(t, err)
	assert.Equal(t, []domain.LocalizedText{
		{En: "A", ZhCN: "甲", ZhTW: "A"},
		{En: "B", ZhCN: "B", ZhTW: "B"},
	}, items)
}

func TestBuildTemplate_ObjectivesLongerInChinese(t *testing.T) {
	f := NewFields()
	f.AddListItem(FieldObjectives, domain.LocaleZhTW, "一")
	f.AddListItem(FieldObjectives, domain.LocaleZhTW, "二")

	items, err := BuildTemplate(f, 0, nil, AssetKeys{}).FullDetails.Content[1].ListItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.LocalizedText{En: "-", ZhCN: "-", ZhTW: "二"}, items[1])
}

func TestBuildTemplate_NoObjectivesNoListBlock(t *testing.T) {
	tmpl := BuildTemplate(NewFields(), 0, nil, AssetKeys{})
	require.Len(t, tmpl.FullDetails.Content, 1)
	assert.Equal(t, DefaultContentType, tmpl.FullDetails.Content[0].Type)
}

func TestBuildTemplate_DescriptionUsesEnglishContentType(t *testing.T) {
	f := NewFields()
	f.SetText(FieldDescription, domain.LocaleEN, "About Go")
	f.SetText(FieldContentType, domain.LocaleEN, "h2")
	f.SetText(FieldContentType, domain.LocaleZhCN, "quote")

	block := BuildTemplate(f, 0, nil, AssetKeys{}).FullDetails.Content[0]
	assert.Equal(t, "h2", block.Type)
	text, err := block.TextValue()
	require.NoError(t, err)
	assert.Equal(t, domain.LocalizedText{En: "About Go", ZhCN: "About Go", ZhTW: "About Go"}, text)
}

func TestBuildTemplate_ReviewsAndTags(t *testing.T) {
	f := NewFields()
	f.AddListItem(FieldTags, domain.LocaleEN, "go")
	f.AddListItem(FieldTags, domain.LocaleZhTW, "程式")

	reviews := []domain.Review{
		{Name: "Ann", Rating: 5, Comment: "Great"},
		{Name: "Bo", Rating: 3, Comment: ""},
	}
	tmpl := BuildTemplate(f, 12.5, reviews, AssetKeys{Thumbnail: "k1", PreviewVideo: "v1"})

	assert.Equal(t, domain.Price(12.5), tmpl.Price)
	assert.Equal(t, "k1", tmpl.Thumbnail)
	assert.Equal(t, "v1", tmpl.PreviewVideo)

	assert.Equal(t, map[domain.Locale][]string{
		domain.LocaleEN:   {"go"},
		domain.LocaleZhTW: {"程式"},
	}, tmpl.FullDetails.Tags)

	require.Len(t, tmpl.FullDetails.Reviews, 2)
	first := tmpl.FullDetails.Reviews["user_1"]
	assert.Equal(t, "Ann", first.Name)
	assert.Equal(t, 5, first.Rating)
	assert.Equal(t, domain.LocalizedText{En: "Great", ZhCN: "Great", ZhTW: "Great"}, first.Comment)
	assert.Equal(t, "-", tmpl.FullDetails.Reviews["user_2"].Comment.ZhCN)
}

func TestBuildTemplate_WireShape(t *testing.T) {
	f := NewFields()
	f.SetText(FieldTitle, domain.LocaleEN, "Go")

	raw, err := json.Marshal(domain.CoursePayload{CourseTemplate: BuildTemplate(f, 0, nil, AssetKeys{})})
	require.NoError(t, err)

	var generic map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	tmpl := generic["course_template"]
	for _, key := range []string{"title", "subtitle", "price", "preview_video", "thumbnail", "full_details", "lessons"} {
		assert.Contains(t, tmpl, key)
	}
	assert.Equal(t, "", tmpl["thumbnail"])
	assert.Equal(t, map[string]any{}, tmpl["lessons"])
}
