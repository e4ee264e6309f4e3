package wikitext

import (
	"regexp"
	"strings"
)

// Reserved control characters used to temporarily hide characters from
// the argument splitter. Legitimate wikitext does not contain them;
// both are always restored before any value reaches a caller.
const (
	// pipeSentinel stands in for a pipe inside a not-yet-closed nested
	// template, a wikilink target, or a verbatim region.
	pipeSentinel = '\x01'
	// equalsSentinel stands in for a whole {{=}} magic-word occurrence
	// so its equals sign is never read as a name/value delimiter.
	equalsSentinel = '\x02'
)

var (
	wikilinkPipeRe  = regexp.MustCompile(`(\[\[[^\]]*?)\|(.*?\]\])`)
	escapedEqualsRe = regexp.MustCompile(`\{\{\s*=\s*\}\}`)
)

// maskWikilinkPipes hides every pipe inside a wikilink. A file link can
// carry several pipes, so the rewrite repeats until it settles.
func maskWikilinkPipes(s string) string {
	for wikilinkPipeRe.MatchString(s) {
		s = wikilinkPipeRe.ReplaceAllString(s, "${1}\x01${2}")
	}
	return s
}

func unmaskPipes(s string) string {
	return strings.ReplaceAll(s, string(pipeSentinel), "|")
}

// maskEscapedEquals replaces every {{=}} occurrence with the equals
// sentinel and records the matched text, in order, so
// unmaskEscapedEquals can restore each occurrence verbatim.
func maskEscapedEquals(s string) (string, []string) {
	var originals []string
	masked := escapedEqualsRe.ReplaceAllStringFunc(s, func(m string) string {
		originals = append(originals, m)
		return string(equalsSentinel)
	})
	return masked, originals
}

// unmaskEscapedEquals restores recorded {{=}} occurrences left to right.
func unmaskEscapedEquals(s string, originals []string) string {
	if len(originals) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == equalsSentinel && next < len(originals) {
			b.WriteString(originals[next])
			next++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
