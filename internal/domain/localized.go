package domain

import (
	"encoding/json"
	"strings"
)

// LocalizedText holds one value per supported locale. The fixed arity means
// a missing locale is an empty string, never an absent key.
type LocalizedText struct {
	En   string `json:"en"`
	ZhCN string `json:"zh-CN"`
	ZhTW string `json:"zh-TW"`
}

// Get returns the value for l, or "" for an unknown locale.
func (t LocalizedText) Get(l Locale) string {
	switch l {
	case LocaleEN:
		return t.En
	case LocaleZhCN:
		return t.ZhCN
	case LocaleZhTW:
		return t.ZhTW
	}
	return ""
}

// Set stores v for l. Unknown locales are ignored.
func (t *LocalizedText) Set(l Locale, v string) {
	switch l {
	case LocaleEN:
		t.En = v
	case LocaleZhCN:
		t.ZhCN = v
	case LocaleZhTW:
		t.ZhTW = v
	}
}

// IsZero reports whether every locale is blank.
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.En) == "" && strings.TrimSpace(t.ZhCN) == "" && strings.TrimSpace(t.ZhTW) == ""
}

// Display picks the English value, then any other non-empty one.
func (t LocalizedText) Display() string {
	return CoalesceStr(t.En, t.ZhCN, t.ZhTW)
}

// UnmarshalJSON accepts either the locale object or a bare string, which
// older course records use for English-only text.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = LocalizedText{En: s}
		return nil
	}
	type plain LocalizedText
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = LocalizedText(p)
	return nil
}

// LocalizedList is an ordered list of strings per locale.
type LocalizedList struct {
	En   []string `json:"en,omitempty"`
	ZhCN []string `json:"zh-CN,omitempty"`
	ZhTW []string `json:"zh-TW,omitempty"`
}

func (l *LocalizedList) slot(loc Locale) *[]string {
	switch loc {
	case LocaleEN:
		return &l.En
	case LocaleZhCN:
		return &l.ZhCN
	case LocaleZhTW:
		return &l.ZhTW
	}
	return nil
}

// Get returns a copy of the items for loc.
func (l LocalizedList) Get(loc Locale) []string {
	p := l.slot(loc)
	if p == nil || len(*p) == 0 {
		return nil
	}
	return append([]string(nil), (*p)...)
}

// Add appends the trimmed item to loc. Blank items and exact duplicates
// within the same locale are ignored; the return value reports whether the
// list changed.
func (l *LocalizedList) Add(loc Locale, item string) bool {
	item = strings.TrimSpace(item)
	p := l.slot(loc)
	if p == nil || item == "" {
		return false
	}
	for _, existing := range *p {
		if existing == item {
			return false
		}
	}
	*p = append(*p, item)
	return true
}

// Remove deletes the item at index; out-of-range indexes are a no-op.
func (l *LocalizedList) Remove(loc Locale, index int) bool {
	p := l.slot(loc)
	if p == nil || index < 0 || index >= len(*p) {
		return false
	}
	*p = append((*p)[:index:index], (*p)[index+1:]...)
	return true
}

// MaxLen is the length of the longest locale list.
func (l LocalizedList) MaxLen() int {
	n := 0
	for _, loc := range Locales {
		if m := len(l.Get(loc)); m > n {
			n = m
		}
	}
	return n
}

// At returns the item at index for loc, or "" when the list is shorter.
func (l LocalizedList) At(loc Locale, index int) string {
	items := l.Get(loc)
	if index < 0 || index >= len(items) {
		return ""
	}
	return items[index]
}
