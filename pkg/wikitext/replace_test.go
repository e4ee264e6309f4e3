package wikitext_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/wikilex/pkg/wikitext"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		searches     []string
		replacements []string
		want         string
		wantErr      bool
	}{
		{
			name:         "verbatim regions are shielded",
			text:         "{{a}} <nowiki>{{a}}</nowiki>",
			searches:     []string{"{{a}}"},
			replacements: []string{"{{b}}"},
			want:         "{{b}} <nowiki>{{a}}</nowiki>",
		},
		{
			name:         "comments are shielded",
			text:         "x <!--x--> x",
			searches:     []string{"x"},
			replacements: []string{"y"},
			want:         "y <!--x--> y",
		},
		{
			name:         "identical verbatim spans stay distinct",
			text:         "a <!--s--> a <!--s--> a",
			searches:     []string{"a"},
			replacements: []string{"b"},
			want:         "b <!--s--> b <!--s--> b",
		},
		{
			name:         "single replacement broadcasts",
			text:         "one two",
			searches:     []string{"one", "two"},
			replacements: []string{"-"},
			want:         "- -",
		},
		{
			name:         "pairwise replacements",
			text:         "one two",
			searches:     []string{"one", "two"},
			replacements: []string{"1", "2"},
			want:         "1 2",
		},
		{
			name:         "length mismatch fails without applying anything",
			text:         "one two",
			searches:     []string{"one", "two", "three"},
			replacements: []string{"1", "2"},
			wantErr:      true,
		},
		{
			name:         "no verbatim regions",
			text:         "plain a text",
			searches:     []string{"a"},
			replacements: []string{"b"},
			want:         "plain b text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wikitext.Replace(tt.text, tt.searches, tt.replacements)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceRegexp(t *testing.T) {
	got, err := wikitext.ReplaceRegexp(
		"{{cleanup|old}} <pre>{{cleanup|old}}</pre>",
		[]*regexp.Regexp{regexp.MustCompile(`\{\{cleanup\|(\w+)\}\}`)},
		[]string{"{{cleanup|$1|date=now}}"},
	)

	require.NoError(t, err)
	assert.Equal(t, "{{cleanup|old|date=now}} <pre>{{cleanup|old}}</pre>", got)
}

func TestReplaceRegexp_LengthMismatch(t *testing.T) {
	_, err := wikitext.ReplaceRegexp(
		"text",
		[]*regexp.Regexp{regexp.MustCompile(`a`)},
		[]string{"x", "y"},
	)

	require.Error(t, err)
}
