package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocale_MatchesSupportedVariants(t *testing.T) {
	cases := map[string]Locale{
		"en":      LocaleEN,
		"EN":      LocaleEN,
		"en-US":   LocaleEN,
		"en_GB":   LocaleEN,
		"zh-CN":   LocaleZhCN,
		"zh-Hans": LocaleZhCN,
		"zh-TW":   LocaleZhTW,
		"zh-Hant": LocaleZhTW,
		"zh_tw":   LocaleZhTW,
	}
	for input, want := range cases {
		got, err := ParseLocale(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseLocale_RejectsUnsupported(t *testing.T) {
	for _, input := range []string{"fr", "de-DE", "not a locale"} {
		_, err := ParseLocale(input)
		assert.Error(t, err, input)
	}
}
