package wikitext

import (
	"strconv"
	"strings"
)

// Argument is one argument of a template invocation.
type Argument struct {
	// Text is the raw argument text, including the explicit name and
	// equals sign when one was written.
	Text string
	// Name is the explicit name if one was given, otherwise the 1-based
	// position among positional arguments, as a string.
	Name string
	// Value is the trimmed value.
	Value string
}

// parseTemplateArguments splits one invocation's raw text into its
// arguments. raw includes the outer braces and arrives with nested
// pipes already masked by the scanner; pipes inside wikilinks are
// masked here. Positional numbering advances over unnamed arguments
// and over an explicit name equal to the next pending position, so
// "2=foo" consumes slot 2 and a later unnamed argument takes slot 3.
func parseTemplateArguments(raw string) []Argument {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "{{"), "}}")
	inner = maskWikilinkPipes(inner)
	if !strings.Contains(inner, "|") {
		return nil
	}

	// The first segment is the invocation name, not an argument.
	chunks := strings.Split(inner, "|")[1:]
	args := make([]Argument, 0, len(chunks))
	nextPosition := 1

	for _, chunk := range chunks {
		masked, originals := maskEscapedEquals(chunk)

		var name, value string
		if eq := strings.IndexByte(masked, '='); eq != -1 {
			nameMasked, valueMasked := masked[:eq], masked[eq+1:]
			// Split the recorded {{=}} occurrences at the delimiter so
			// each side restores its own.
			split := strings.Count(nameMasked, string(equalsSentinel))
			name = strings.TrimSpace(unmaskPipes(unmaskEscapedEquals(nameMasked, originals[:split])))
			value = strings.TrimSpace(unmaskPipes(unmaskEscapedEquals(valueMasked, originals[split:])))
			if name == strconv.Itoa(nextPosition) {
				nextPosition++
			}
		} else {
			name = strconv.Itoa(nextPosition)
			value = strings.TrimSpace(unmaskPipes(unmaskEscapedEquals(masked, originals)))
			nextPosition++
		}

		args = append(args, Argument{
			Text:  unmaskPipes(chunk),
			Name:  name,
			Value: value,
		})
	}
	return args
}
