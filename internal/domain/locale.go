package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the content languages the course platform serves.
type Locale string

const (
	LocaleEN   Locale = "en"
	LocaleZhCN Locale = "zh-CN"
	LocaleZhTW Locale = "zh-TW"
)

// Locales lists every supported locale in display order. English comes
// first because it is the fallback for the others.
var Locales = []Locale{LocaleEN, LocaleZhCN, LocaleZhTW}

// localeTags is index-aligned with Locales.
var localeTags = []language.Tag{
	language.English,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var localeMatcher = language.NewMatcher(localeTags)

// Label is the human name shown next to a locale's input fields.
func (l Locale) Label() string {
	switch l {
	case LocaleEN:
		return "English"
	case LocaleZhCN:
		return "Simplified Chinese"
	case LocaleZhTW:
		return "Traditional Chinese"
	}
	return string(l)
}

// ParseLocale maps user input such as "en-US", "zh-Hans" or "zh_TW" onto
// the closed locale set. Languages the platform does not serve are rejected.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	for _, l := range Locales {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("parsing locale %q: %w", s, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported locale %q (want one of en, zh-CN, zh-TW)", s)
	}
	return Locales[idx], nil
}
