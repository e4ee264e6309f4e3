package wikitext

// verbatimTagNames are the transclusion-preventing tags: inside them
// templates and other markup are never interpreted. This set is part of
// the package's stable contract.
var verbatimTagNames = map[string]bool{
	commentName:       true,
	"nowiki":          true,
	"pre":             true,
	"syntaxhighlight": true,
	"source":          true,
}

// VerbatimRegions returns the maximal transclusion-preventing spans of
// text, in position order. Spans strictly contained in another verbatim
// span are dropped, so nested verbatim syntax is never reported twice.
func VerbatimRegions(text string) []Tag {
	tags := ParseTags(text, &TagOptions{
		NamePredicate: func(name string) bool { return verbatimTagNames[name] },
	})

	out := make([]Tag, 0, len(tags))
	for i, t := range tags {
		contained := false
		for j, other := range tags {
			if j != i && other.Span.StrictlyContains(t.Span) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, t)
		}
	}
	return out
}

// Comments returns the raw text of every outermost <!-- --> span in
// position order.
func Comments(text string) []string {
	var out []string
	for _, t := range VerbatimRegions(text) {
		if t.Name == commentName {
			out = append(out, t.Text)
		}
	}
	return out
}
