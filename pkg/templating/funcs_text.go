package templating

import (
	"strings"
	"unicode/utf8"
)

// generate returns the next n symbols from the bound source. n is clamped to
// MaxGenerate; a non-positive n yields an empty string.
func (tm *TemplateManager) generate(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	if n > tm.config.MaxGenerate {
		tm.logger.Warn("generate request clamped", "requested", n, "max", tm.config.MaxGenerate)
		n = tm.config.MaxGenerate
	}
	if tm.source == nil {
		return "", ErrNoSource
	}
	return tm.source.Next(n)
}

// wrap greedily breaks s into lines of at most width runes. Words longer than
// width are placed on a line of their own.
func (tm *TemplateManager) wrap(width int, s string) string {
	if width < 1 {
		width = tm.config.DefaultWrap
	}
	var sb strings.Builder
	for i, para := range strings.Split(s, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		lineLen := 0
		for _, word := range strings.Fields(para) {
			wl := utf8.RuneCountInString(word)
			switch {
			case lineLen == 0:
			case lineLen+1+wl > width:
				sb.WriteByte('\n')
				lineLen = 0
			default:
				sb.WriteByte(' ')
				lineLen++
			}
			sb.WriteString(word)
			lineLen += wl
		}
	}
	return sb.String()
}

// upper returns s in upper case.
func upper(s string) string {
	return strings.ToUpper(s)
}

// trim removes leading and trailing whitespace.
func trim(s string) string {
	return strings.TrimSpace(s)
}
