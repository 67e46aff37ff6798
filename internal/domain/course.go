package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ContentTypeList marks the objectives block inside full_details.content.
const ContentTypeList = "li"

// Review is one testimonial as entered in the wizard.
type Review struct {
	Name    string
	Rating  int
	Comment string
}

// Price accepts both JSON numbers and numeric strings, since course records
// written by older admin tools store the price as text.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("price %q is not a number", s)
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// CourseTemplate is the body of the course_template object sent on create
// and update.
type CourseTemplate struct {
	Title        LocalizedText              `json:"title"`
	Subtitle     LocalizedText              `json:"subtitle"`
	Price        Price                      `json:"price"`
	PreviewVideo string                     `json:"preview_video"`
	Thumbnail    string                     `json:"thumbnail"`
	FullDetails  FullDetails                `json:"full_details"`
	Lessons      map[string]json.RawMessage `json:"lessons"`
}

// CoursePayload wraps a template the way the admin API expects it.
type CoursePayload struct {
	CourseTemplate CourseTemplate `json:"course_template"`
}

// Course is a course record as listed by the admin API.
type Course struct {
	ID string `json:"course_id"`
	CourseTemplate
}

// FullDetails is the free-form body of a course page.
type FullDetails struct {
	Content []ContentBlock         `json:"content"`
	Reviews map[string]ReviewEntry `json:"reviews"`
	Tags    map[Locale][]string    `json:"tags"`
}

// ContentBlock is one block of the course page. Text is a LocalizedText for
// ordinary blocks and a map of li1..liN to LocalizedText for list blocks.
type ContentBlock struct {
	Text json.RawMessage `json:"text"`
	Type string          `json:"type"`
}

// NewTextBlock builds a paragraph-like block.
func NewTextBlock(kind string, text LocalizedText) ContentBlock {
	raw, _ := json.Marshal(text)
	return ContentBlock{Text: raw, Type: kind}
}

// NewListBlock builds an objectives block keyed li1..liN.
func NewListBlock(items []LocalizedText) ContentBlock {
	m := make(map[string]LocalizedText, len(items))
	for i, item := range items {
		m[ListItemKey(i)] = item
	}
	raw, _ := json.Marshal(m)
	return ContentBlock{Text: raw, Type: ContentTypeList}
}

// ListItemKey returns the li-key for a zero-based index.
func ListItemKey(i int) string {
	return "li" + strconv.Itoa(i+1)
}

// TextValue decodes a non-list block.
func (b ContentBlock) TextValue() (LocalizedText, error) {
	var t LocalizedText
	if len(b.Text) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(b.Text, &t); err != nil {
		return t, fmt.Errorf("decoding %s block: %w", b.Type, err)
	}
	return t, nil
}

// ListItems decodes a list block, ordered by item number.
func (b ContentBlock) ListItems() ([]LocalizedText, error) {
	var m map[string]LocalizedText
	if len(b.Text) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(b.Text, &m); err != nil {
		return nil, fmt.Errorf("decoding list block: %w", err)
	}
	return orderedByNumber(m, "li"), nil
}

// ReviewEntry is a review as stored in full_details.reviews.
type ReviewEntry struct {
	Name    string        `json:"name"`
	Comment LocalizedText `json:"comment"`
	Rating  int           `json:"rating"`
}

// ReviewKey returns the user_N key for a zero-based index.
func ReviewKey(i int) string {
	return "user_" + strconv.Itoa(i+1)
}

// OrderedReviews returns the reviews ordered by their user_N number.
func (d FullDetails) OrderedReviews() []ReviewEntry {
	return orderedByNumber(d.Reviews, "user_")
}

func orderedByNumber[T any](m map[string]T, prefix string) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	num := func(k string) int {
		n, err := strconv.Atoi(strings.TrimPrefix(k, prefix))
		if err != nil {
			return int(^uint(0) >> 1)
		}
		return n
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ni, nj := num(keys[i]), num(keys[j])
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// User is the account returned by login.
type User struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers the full name over login identifiers.
func (u User) DisplayName() string {
	return CoalesceStr(u.Name, u.Username, u.Email)
}
