package wikitext

import (
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/wikilex/pkg/position"
)

// Tag is one HTML-like span found in a document.
type Tag struct {
	// Text is the exact source substring from the start of the opening
	// tag to the end of the match.
	Text string
	// Name is the lower-cased tag name, or "comment" for <!-- --> spans.
	Name string
	// SelfClosing reports whether the span never had an explicit closer.
	SelfClosing bool
	// Span locates Text in the input.
	Span position.Span
	// NestLevel is the number of other reported spans that strictly
	// contain this one. It is a property of the finished result set,
	// computed after the scan.
	NestLevel int
}

// TagOptions configures ParseTags. Nil fields keep everything.
type TagOptions struct {
	// NamePredicate keeps only tags whose Name satisfies it.
	NamePredicate func(name string) bool
	// TagPredicate keeps only tags satisfying it. Evaluated after
	// NamePredicate, and after nest levels have been assigned.
	TagPredicate func(tag Tag) bool
}

// commentName is the fixed tag name reported for <!-- --> spans.
const commentName = "comment"

var (
	selfClosingTagRe = regexp.MustCompile(`^<([A-Za-z][\w-]*)(?:\s[^<>]*?)?/\s*>`)
	openingTagRe     = regexp.MustCompile(`^<([A-Za-z][\w-]*)(?:\s[^<>]*)?>`)
	closingTagRe     = regexp.MustCompile(`^</\s*([A-Za-z][\w-]*)\s*>`)
)

// openTag is a stack entry for a tag whose closer has not been seen yet.
type openTag struct {
	name  string
	start int
	// assumedEnd is the offset just past the opening tag text. It
	// becomes the span end if the tag never gets an explicit closer.
	assumedEnd int
}

// ParseTags scans text left to right and reports every tag-like span in
// position order.
//
// The matching policy is a deliberate heuristic for ill-formed markup,
// not a grammar: a closing tag is matched to the nearest still-open tag
// of the same name, openers skipped over by that match are reported as
// implicitly self-closing at the end of their opening text, and an
// unmatched closing tag contributes nothing. Tag names are matched
// case-insensitively and reported lower-cased.
func ParseTags(text string, opts *TagOptions) []Tag {
	if opts == nil {
		opts = &TagOptions{}
	}

	var spans []Tag
	var stack []openTag

	emitAssumed := func(t openTag) {
		spans = append(spans, Tag{
			Text:        text[t.start:t.assumedEnd],
			Name:        t.name,
			SelfClosing: true,
			Span:        position.NewSpan(t.start, t.assumedEnd),
		})
	}

	for i := 0; i < len(text); {
		if text[i] != '<' && text[i] != '-' {
			i++
			continue
		}
		rest := text[i:]

		if m := selfClosingTagRe.FindStringSubmatch(rest); m != nil {
			spans = append(spans, Tag{
				Text:        m[0],
				Name:        strings.ToLower(m[1]),
				SelfClosing: true,
				Span:        position.NewSpan(i, i+len(m[0])),
			})
			i += len(m[0])
			continue
		}

		if strings.HasPrefix(rest, "<!--") {
			stack = append(stack, openTag{name: commentName, start: i, assumedEnd: i + len("<!--")})
			i += len("<!--")
			continue
		}
		if m := openingTagRe.FindStringSubmatch(rest); m != nil {
			stack = append(stack, openTag{name: strings.ToLower(m[1]), start: i, assumedEnd: i + len(m[0])})
			i += len(m[0])
			continue
		}

		var closeName string
		var closeLen int
		if strings.HasPrefix(rest, "-->") {
			closeName, closeLen = commentName, len("-->")
		} else if m := closingTagRe.FindStringSubmatch(rest); m != nil {
			closeName, closeLen = strings.ToLower(m[1]), len(m[0])
		} else {
			i++
			continue
		}

		matched := -1
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j].name == closeName {
				matched = j
				break
			}
		}
		if matched == -1 {
			// Unmatched closer: contributes no span, stack untouched.
			i += closeLen
			continue
		}

		spans = append(spans, Tag{
			Text:        text[stack[matched].start : i+closeLen],
			Name:        closeName,
			SelfClosing: false,
			Span:        position.NewSpan(stack[matched].start, i+closeLen),
		})
		// Everything opened after the matched entry never saw a closer.
		for j := matched + 1; j < len(stack); j++ {
			emitAssumed(stack[j])
		}
		stack = stack[:matched]
		i += closeLen
	}

	// Leftover openers at end of input.
	for _, t := range stack {
		emitAssumed(t)
	}

	sort.Slice(spans, func(a, b int) bool {
		if spans[a].Span.Start != spans[b].Span.Start {
			return spans[a].Span.Start < spans[b].Span.Start
		}
		return spans[a].Span.End > spans[b].Span.End
	})
	for i := range spans {
		for j := range spans {
			if j != i && spans[j].Span.StrictlyContains(spans[i].Span) {
				spans[i].NestLevel++
			}
		}
	}

	if opts.NamePredicate == nil && opts.TagPredicate == nil {
		return spans
	}
	filtered := make([]Tag, 0, len(spans))
	for _, t := range spans {
		if opts.NamePredicate != nil && !opts.NamePredicate(t.Name) {
			continue
		}
		if opts.TagPredicate != nil && !opts.TagPredicate(t) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}
