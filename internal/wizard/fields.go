package wizard

import "github.com/naumanrao/courseadmin/internal/domain"

// TextField names a single-value localized input.
type TextField int

const (
	FieldTitle TextField = iota
	FieldSubtitle
	FieldDescription
	FieldContentType
	numTextFields
)

func (f TextField) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldSubtitle:
		return "subtitle"
	case FieldDescription:
		return "description"
	case FieldContentType:
		return "content type"
	}
	return "unknown"
}

// ListField names a localized list input.
type ListField int

const (
	FieldObjectives ListField = iota
	FieldTags
	numListFields
)

func (f ListField) String() string {
	switch f {
	case FieldObjectives:
		return "objectives"
	case FieldTags:
		return "tags"
	}
	return "unknown"
}

// Fields holds the per-locale form values of one draft. Not safe for
// concurrent use; Machine serializes access.
type Fields struct {
	text  [numTextFields]domain.LocalizedText
	lists [numListFields]domain.LocalizedList
}

func NewFields() *Fields {
	return &Fields{}
}

func (f *Fields) Text(field TextField, loc domain.Locale) string {
	if field < 0 || field >= numTextFields {
		return ""
	}
	return f.text[field].Get(loc)
}

func (f *Fields) SetText(field TextField, loc domain.Locale, v string) {
	if field < 0 || field >= numTextFields {
		return
	}
	f.text[field].Set(loc, v)
}

// Localized returns every locale of field.
func (f *Fields) Localized(field TextField) domain.LocalizedText {
	if field < 0 || field >= numTextFields {
		return domain.LocalizedText{}
	}
	return f.text[field]
}

func (f *Fields) List(field ListField, loc domain.Locale) []string {
	if field < 0 || field >= numListFields {
		return nil
	}
	return f.lists[field].Get(loc)
}

func (f *Fields) AddListItem(field ListField, loc domain.Locale, item string) bool {
	if field < 0 || field >= numListFields {
		return false
	}
	return f.lists[field].Add(loc, item)
}

func (f *Fields) RemoveListItem(field ListField, loc domain.Locale, index int) bool {
	if field < 0 || field >= numListFields {
		return false
	}
	return f.lists[field].Remove(loc, index)
}

func (f *Fields) localizedList(field ListField) domain.LocalizedList {
	return f.lists[field]
}

// Reset empties every field.
func (f *Fields) Reset() {
	*f = Fields{}
}

// clone returns a deep copy, so payloads built outside the lock never alias
// live list storage.
func (f *Fields) clone() *Fields {
	out := &Fields{text: f.text}
	for i := range f.lists {
		for _, loc := range domain.Locales {
			for _, item := range f.lists[i].Get(loc) {
				out.lists[i].Add(loc, item)
			}
		}
	}
	return out
}
