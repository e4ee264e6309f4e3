package extract_templates

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/wikilex/pkg/finder"
	"github.com/walteh/wikilex/pkg/wikitext"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	outermostOnly bool
	name          string
}

func NewExtractTemplatesCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "extract-templates <pattern>...",
		Short: "list the template invocations found in wikitext files",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().BoolVar(&me.outermostOnly, "outermost-only", false, "skip invocations nested inside other invocations")
	cmd.Flags().StringVar(&me.name, "name", "", "only report invocations of this template")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

type argumentRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type templateRecord struct {
	File      string           `json:"file"`
	Name      string           `json:"name"`
	NestLevel int              `json:"nestlevel"`
	Arguments []argumentRecord `json:"arguments,omitempty"`
	Text      string           `json:"text"`
}

func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	files, err := finder.NewDefaultFinder(afero.NewOsFs()).FindInputs(ctx, patterns)
	if err != nil {
		return errors.Errorf("resolving inputs: %w", err)
	}

	opts := &wikitext.TemplateOptions{OutermostOnly: me.outermostOnly}
	if me.name != "" {
		opts.NamePredicate = func(name string) bool { return name == me.name }
	}

	enc := json.NewEncoder(out)
	for _, file := range files {
		templates := wikitext.ParseTemplates(string(file.Content), opts)
		zerolog.Ctx(ctx).Debug().Str("file", file.Path).Int("templates", len(templates)).Msg("scanned file")

		for _, tmpl := range templates {
			rec := templateRecord{
				File:      file.Path,
				Name:      tmpl.Name,
				NestLevel: tmpl.NestLevel,
				Text:      tmpl.Text,
			}
			for _, arg := range tmpl.Arguments {
				rec.Arguments = append(rec.Arguments, argumentRecord{Name: arg.Name, Value: arg.Value})
			}
			if err := enc.Encode(rec); err != nil {
				return errors.Errorf("encoding record: %w", err)
			}
		}
	}
	return nil
}
