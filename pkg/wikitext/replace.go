package wikitext

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Replace substitutes every occurrence of each search string outside
// verbatim regions. A single replacement is broadcast over all
// searches; otherwise the lists must have equal length. On a length
// mismatch nothing is applied and an error is returned.
func Replace(text string, searches, replacements []string) (string, error) {
	if err := checkReplacementCount(len(searches), len(replacements)); err != nil {
		return "", err
	}
	return replaceOutsideVerbatim(text, func(segment string) string {
		for i, search := range searches {
			segment = strings.ReplaceAll(segment, search, replacementFor(replacements, i))
		}
		return segment
	}), nil
}

// ReplaceRegexp is Replace for compiled patterns. Replacement strings
// may use the usual $1 group references.
func ReplaceRegexp(text string, patterns []*regexp.Regexp, replacements []string) (string, error) {
	if err := checkReplacementCount(len(patterns), len(replacements)); err != nil {
		return "", err
	}
	return replaceOutsideVerbatim(text, func(segment string) string {
		for i, pattern := range patterns {
			segment = pattern.ReplaceAllString(segment, replacementFor(replacements, i))
		}
		return segment
	}), nil
}

func checkReplacementCount(searches, replacements int) error {
	if replacements == searches || replacements == 1 {
		return nil
	}
	return errors.Errorf("got %d replacements for %d searches", replacements, searches)
}

func replacementFor(replacements []string, i int) string {
	if len(replacements) == 1 {
		return replacements[0]
	}
	return replacements[i]
}

// replaceOutsideVerbatim applies apply to every maximal stretch of the
// document not covered by a verbatim region and splices the regions
// back unchanged. Regions are addressed by offset, never by their text,
// so identical verbatim spans are unambiguous.
func replaceOutsideVerbatim(text string, apply func(string) string) string {
	regions := VerbatimRegions(text)
	if len(regions) == 0 {
		return apply(text)
	}
	var b strings.Builder
	last := 0
	for _, r := range regions {
		b.WriteString(apply(text[last:r.Span.Start]))
		b.WriteString(r.Text)
		last = r.Span.End
	}
	b.WriteString(apply(text[last:]))
	return b.String()
}
