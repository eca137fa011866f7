package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

const maxFreeTextLen = 500

var (
	reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f]+`)
	reMultiSpace   = regexp.MustCompile(`\s+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, " ")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

func truncate(s string) string {
	if len(s) <= maxFreeTextLen {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxFreeTextLen {
		runes = runes[:maxFreeTextLen]
	}
	return strings.TrimSpace(string(runes))
}

// SanitizeFreeText normalizes user-supplied prose such as cancellation
// reasons: control characters stripped, whitespace collapsed, length capped.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		trim,
		truncate,
	}
	return p.Apply(input)
}
