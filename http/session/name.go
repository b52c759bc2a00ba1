package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CookieName derives a cookie name from an application's title,
// e.g. "My App" becomes "my_app_session".
func CookieName(title string) string {
	lower := cases.Lower(language.Und).String(strings.TrimSpace(title))

	var b strings.Builder
	underscore := false
	for _, r := range lower {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}

		if b.Len() > 0 && !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}

	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		return "trailhead_session"
	}

	return name + "_session"
}
