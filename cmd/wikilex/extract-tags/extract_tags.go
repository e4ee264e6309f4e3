package extract_tags

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/wikilex/pkg/finder"
	"github.com/walteh/wikilex/pkg/position"
	"github.com/walteh/wikilex/pkg/wikitext"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	name         string
	verbatimOnly bool
}

func NewExtractTagsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "extract-tags <pattern>...",
		Short: "list the html-like tag spans found in wikitext files",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.name, "name", "", "only report tags with this name")
	cmd.Flags().BoolVar(&me.verbatimOnly, "verbatim-only", false, "only report outermost transclusion-preventing spans")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

type tagRecord struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	SelfClosing bool   `json:"selfclosing"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	NestLevel   int    `json:"nestlevel"`
	Text        string `json:"text"`
}

func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	files, err := finder.NewDefaultFinder(afero.NewOsFs()).FindInputs(ctx, patterns)
	if err != nil {
		return errors.Errorf("resolving inputs: %w", err)
	}

	var opts *wikitext.TagOptions
	if me.name != "" {
		opts = &wikitext.TagOptions{
			NamePredicate: func(name string) bool { return name == me.name },
		}
	}

	enc := json.NewEncoder(out)
	for _, file := range files {
		doc := string(file.Content)
		var tags []wikitext.Tag
		if me.verbatimOnly {
			tags = wikitext.VerbatimRegions(doc)
		} else {
			tags = wikitext.ParseTags(doc, opts)
		}
		spans := make(position.SpanArray, 0, len(tags))
		for _, tag := range tags {
			spans = append(spans, tag.Span)
		}
		zerolog.Ctx(ctx).Debug().Str("file", file.Path).Strs("spans", spans.ToStrings()).Msg("scanned file")

		for _, tag := range tags {
			line, _ := tag.Span.GetLineAndColumn(doc)
			rec := tagRecord{
				File:        file.Path,
				Name:        tag.Name,
				SelfClosing: tag.SelfClosing,
				Start:       tag.Span.Start,
				End:         tag.Span.End,
				Line:        line,
				Column:      tag.Span.DisplayColumn(doc),
				NestLevel:   tag.NestLevel,
				Text:        tag.Text,
			}
			if err := enc.Encode(rec); err != nil {
				return errors.Errorf("encoding record: %w", err)
			}
		}
	}
	return nil
}
