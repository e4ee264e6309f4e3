package wikitext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Template is one {{ ... }} invocation.
type Template struct {
	// Text is the exact source text including the outer braces. Its
	// brace nesting is balanced, reaching depth zero only at its own
	// boundaries.
	Text string
	// Name is the invocation's first path segment, trimmed, with the
	// first letter upper-cased.
	Name string
	// Arguments are the parsed arguments in source order.
	Arguments []Argument
	// NestLevel is 0 for an outermost invocation, otherwise one more
	// than that of the invocation containing it.
	NestLevel int
}

// TemplateOptions configures ParseTemplates. Nil fields keep everything.
type TemplateOptions struct {
	// OutermostOnly suppresses the recursive scan of each matched
	// invocation's inner text; only depth-zero invocations are reported.
	OutermostOnly bool
	// NamePredicate keeps only templates whose Name satisfies it.
	NamePredicate func(name string) bool
	// TemplatePredicate keeps only templates satisfying it. Evaluated
	// after NamePredicate has already pruned the set.
	TemplatePredicate func(t Template) bool
}

// nestedBracesRe reports whether an invocation's inner text still holds
// another {{ ... }} occurrence worth recursing into.
var nestedBracesRe = regexp.MustCompile(`(?s)\{\{.*\}\}`)

// ParseTemplates scans wikitext for template invocations and returns
// them in match order, outermost first, nested invocations (unless
// OutermostOnly is set) following their containers.
//
// The scan tracks brace depth, {{{parameter}}} placeholders (opaque to
// brace counting) and verbatim regions (inside which nothing is
// interpreted) in a single left-to-right pass. Malformed input never
// fails the scan: unbalanced closers are ignored and an unclosed
// invocation is simply not reported.
func ParseTemplates(text string, opts *TemplateOptions) []Template {
	if opts == nil {
		opts = &TemplateOptions{}
	}

	templates := scanTemplates(text, !opts.OutermostOnly, 0)

	if opts.NamePredicate != nil {
		kept := make([]Template, 0, len(templates))
		for _, t := range templates {
			if opts.NamePredicate(t.Name) {
				kept = append(kept, t)
			}
		}
		templates = kept
	}
	if opts.TemplatePredicate != nil {
		kept := make([]Template, 0, len(templates))
		for _, t := range templates {
			if opts.TemplatePredicate(t) {
				kept = append(kept, t)
			}
		}
		templates = kept
	}
	return templates
}

func scanTemplates(text string, recursive bool, nestLevel int) []Template {
	// The scan works on a private copy so protected pipes can be
	// overwritten with the sentinel without touching the input.
	buf := []byte(text)

	var result []Template
	numUnclosed := 0
	inParameter := false
	var verbatimStack []string
	startIdx := 0

	for i := 0; i < len(buf); {
		if inParameter || len(verbatimStack) > 0 {
			// Inside a {{{parameter}}} or a verbatim region only the
			// matching close is recognized. Pipes still get masked so
			// the enclosing template's argument split stays aligned.
			switch {
			case buf[i] == '|':
				buf[i] = pipeSentinel
				i++
			case inParameter && hasPrefixAt(buf, i, "}}}"):
				inParameter = false
				i += 3
			case len(verbatimStack) > 0 && (buf[i] == '<' || buf[i] == '-'):
				if n := matchVerbatimClose(buf[i:], verbatimStack[len(verbatimStack)-1]); n > 0 {
					verbatimStack = verbatimStack[:len(verbatimStack)-1]
					i += n
				} else {
					i++
				}
			default:
				i++
			}
			continue
		}

		switch {
		case hasPrefixAt(buf, i, "{{{") && !hasPrefixAt(buf, i, "{{{{"):
			inParameter = true
			i += 3
		case hasPrefixAt(buf, i, "{{"):
			if numUnclosed == 0 {
				startIdx = i + 2
			}
			numUnclosed += 2
			i += 2
		case hasPrefixAt(buf, i, "}}"):
			if numUnclosed == 2 {
				result = append(result, buildTemplate(string(buf[startIdx:i]), nestLevel))
			}
			// A stray closer clamps at zero instead of going negative,
			// so it cannot suppress later legitimate matches.
			if numUnclosed >= 2 {
				numUnclosed -= 2
			}
			i += 2
		case buf[i] == '|' && numUnclosed > 2:
			// A pipe inside a nested, not-yet-closed template must not
			// be mistaken for an argument separator at an outer level.
			buf[i] = pipeSentinel
			i++
		case buf[i] == '<':
			if name, n, enter := matchVerbatimOpen(buf[i:]); n > 0 {
				if enter {
					verbatimStack = append(verbatimStack, name)
				}
				i += n
			} else {
				i++
			}
		default:
			i++
		}
	}

	if recursive {
		var nested []Template
		for _, t := range result {
			inner := t.Text[2 : len(t.Text)-2]
			if nestedBracesRe.MatchString(inner) {
				nested = append(nested, scanTemplates(inner, true, nestLevel+1)...)
			}
		}
		result = append(result, nested...)
	}
	return result
}

// buildTemplate turns the masked text between an invocation's outer
// braces into a Template. All masking is reversed before anything is
// stored on the record.
func buildTemplate(inner string, nestLevel int) Template {
	name := inner
	if idx := strings.IndexAny(inner, "|}"); idx != -1 {
		name = inner[:idx]
	}
	name = capitalizeFirst(strings.TrimSpace(unmaskPipes(name)))

	return Template{
		Text:      "{{" + unmaskPipes(inner) + "}}",
		Name:      name,
		Arguments: parseTemplateArguments("{{" + inner + "}}"),
		NestLevel: nestLevel,
	}
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func hasPrefixAt(buf []byte, i int, prefix string) bool {
	if i+len(prefix) > len(buf) {
		return false
	}
	return string(buf[i:i+len(prefix)]) == prefix
}

// matchVerbatimOpen reports whether buf starts a verbatim region. The
// returned length covers the opening match; enter is false for a
// self-closing form, which opens nothing but is still skipped whole.
func matchVerbatimOpen(buf []byte) (name string, n int, enter bool) {
	rest := string(buf)
	if strings.HasPrefix(rest, "<!--") {
		return commentName, len("<!--"), true
	}
	if m := selfClosingTagRe.FindStringSubmatch(rest); m != nil {
		if tag := strings.ToLower(m[1]); verbatimTagNames[tag] {
			return tag, len(m[0]), false
		}
		return "", 0, false
	}
	if m := openingTagRe.FindStringSubmatch(rest); m != nil {
		if tag := strings.ToLower(m[1]); verbatimTagNames[tag] {
			return tag, len(m[0]), true
		}
	}
	return "", 0, false
}

// matchVerbatimClose reports the length of the close matching the given
// verbatim tag at the start of buf, or 0.
func matchVerbatimClose(buf []byte, name string) int {
	rest := string(buf)
	if name == commentName {
		if strings.HasPrefix(rest, "-->") {
			return len("-->")
		}
		return 0
	}
	if m := closingTagRe.FindStringSubmatch(rest); m != nil && strings.ToLower(m[1]) == name {
		return len(m[0])
	}
	return 0
}
