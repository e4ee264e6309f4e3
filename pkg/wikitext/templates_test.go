package wikitext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/wikilex/pkg/wikitext"
)

func TestParseTemplates(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts *wikitext.TemplateOptions
		want []wikitext.Template
	}{
		{
			name: "named and positional arguments",
			text: "Hello {{Foo|bar=baz|qux}}",
			want: []wikitext.Template{
				{
					Text: "{{Foo|bar=baz|qux}}",
					Name: "Foo",
					Arguments: []wikitext.Argument{
						{Text: "bar=baz", Name: "bar", Value: "baz"},
						{Text: "qux", Name: "1", Value: "qux"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "nested invocation is reported at depth one",
			text: "{{a|{{b|1}}}}",
			want: []wikitext.Template{
				{
					Text: "{{a|{{b|1}}}}",
					Name: "A",
					Arguments: []wikitext.Argument{
						{Text: "{{b|1}}", Name: "1", Value: "{{b|1}}"},
					},
					NestLevel: 0,
				},
				{
					Text: "{{b|1}}",
					Name: "B",
					Arguments: []wikitext.Argument{
						{Text: "1", Name: "1", Value: "1"},
					},
					NestLevel: 1,
				},
			},
		},
		{
			name: "outermost only",
			text: "{{a|{{b|1}}}}",
			opts: &wikitext.TemplateOptions{OutermostOnly: true},
			want: []wikitext.Template{
				{
					Text: "{{a|{{b|1}}}}",
					Name: "A",
					Arguments: []wikitext.Argument{
						{Text: "{{b|1}}", Name: "1", Value: "{{b|1}}"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "verbatim region hides braces",
			text: "<nowiki>{{Fake}}</nowiki>",
			want: nil,
		},
		{
			name: "pre region hides braces but following text is scanned",
			text: "<pre>{{x}}</pre>{{y}}",
			want: []wikitext.Template{
				{Text: "{{y}}", Name: "Y", NestLevel: 0},
			},
		},
		{
			name: "comment hides braces",
			text: "a<!-- {{Gone}} -->b",
			want: nil,
		},
		{
			name: "no double braces",
			text: "nothing here {single} [[link|label]]",
			want: nil,
		},
		{
			name: "stray closer then valid template",
			text: "}} {{Real}}",
			want: []wikitext.Template{
				{Text: "{{Real}}", Name: "Real", NestLevel: 0},
			},
		},
		{
			name: "parameter placeholder is opaque to brace counting",
			text: "{{Echo|{{{1}}}}}",
			want: []wikitext.Template{
				{
					Text: "{{Echo|{{{1}}}}}",
					Name: "Echo",
					Arguments: []wikitext.Argument{
						{Text: "{{{1}}}", Name: "1", Value: "{{{1}}}"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "bare parameter placeholder is not a template",
			text: "{{{1}}}",
			want: nil,
		},
		{
			name: "unclosed invocation is not reported",
			text: "{{a|b",
			want: nil,
		},
		{
			name: "name is trimmed and capitalized",
			text: "{{ foo bar |x}}",
			want: []wikitext.Template{
				{
					Text: "{{ foo bar |x}}",
					Name: "Foo bar",
					Arguments: []wikitext.Argument{
						{Text: "x", Name: "1", Value: "x"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "explicit numeric name consumes its position",
			text: "{{T|a|2=second|tail}}",
			want: []wikitext.Template{
				{
					Text: "{{T|a|2=second|tail}}",
					Name: "T",
					Arguments: []wikitext.Argument{
						{Text: "a", Name: "1", Value: "a"},
						{Text: "2=second", Name: "2", Value: "second"},
						{Text: "tail", Name: "3", Value: "tail"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "explicit numeric name ahead of its position does not consume",
			text: "{{T|2=b|a}}",
			want: []wikitext.Template{
				{
					Text: "{{T|2=b|a}}",
					Name: "T",
					Arguments: []wikitext.Argument{
						{Text: "2=b", Name: "2", Value: "b"},
						{Text: "a", Name: "1", Value: "a"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "wikilink pipes are not argument separators",
			text: "{{T|[[File:Photo.jpg|thumb|Caption]]|x}}",
			want: []wikitext.Template{
				{
					Text: "{{T|[[File:Photo.jpg|thumb|Caption]]|x}}",
					Name: "T",
					Arguments: []wikitext.Argument{
						{Text: "[[File:Photo.jpg|thumb|Caption]]", Name: "1", Value: "[[File:Photo.jpg|thumb|Caption]]"},
						{Text: "x", Name: "2", Value: "x"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "escaped equals is never a delimiter",
			text: "{{T|a{{=}}b|x=y{{=}}z}}",
			opts: &wikitext.TemplateOptions{OutermostOnly: true},
			want: []wikitext.Template{
				{
					Text: "{{T|a{{=}}b|x=y{{=}}z}}",
					Name: "T",
					Arguments: []wikitext.Argument{
						{Text: "a{{=}}b", Name: "1", Value: "a{{=}}b"},
						{Text: "x=y{{=}}z", Name: "x", Value: "y{{=}}z"},
					},
					NestLevel: 0,
				},
			},
		},
		{
			name: "adjacent outermost invocations",
			text: "{{a}}{{b}}",
			want: []wikitext.Template{
				{Text: "{{a}}", Name: "A", NestLevel: 0},
				{Text: "{{b}}", Name: "B", NestLevel: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wikitext.ParseTemplates(tt.text, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTemplates_NamePredicateRunsBeforeTemplatePredicate(t *testing.T) {
	var seen []string

	got := wikitext.ParseTemplates("{{a|1}} {{b|2}}", &wikitext.TemplateOptions{
		NamePredicate: func(name string) bool { return name == "A" },
		TemplatePredicate: func(tmpl wikitext.Template) bool {
			seen = append(seen, tmpl.Name)
			return true
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	// The template predicate only ever sees the name-filtered set.
	assert.Equal(t, []string{"A"}, seen)
}

func TestParseTemplates_DeepNesting(t *testing.T) {
	got := wikitext.ParseTemplates("{{a|{{b|{{c}}}}}}", nil)

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 0, got[0].NestLevel)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, 1, got[1].NestLevel)
	assert.Equal(t, "C", got[2].Name)
	assert.Equal(t, 2, got[2].NestLevel)
}

// Re-running the scan on a record's own text reproduces an equivalent
// single top-level record.
func TestParseTemplates_Idempotence(t *testing.T) {
	got := wikitext.ParseTemplates("intro {{Cite|title=X|p. 5}} outro", nil)
	require.Len(t, got, 1)

	again := wikitext.ParseTemplates(got[0].Text, nil)
	require.Len(t, again, 1)
	assert.Equal(t, got[0].Text, again[0].Text)
	assert.Equal(t, got[0].Name, again[0].Name)
	assert.Equal(t, got[0].Arguments, again[0].Arguments)
}
