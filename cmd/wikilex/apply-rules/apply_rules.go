package apply_rules

import (
	"context"
	"io"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/wikilex/pkg/finder"
	"github.com/walteh/wikilex/pkg/wikitext"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	configPath   string
	writeInPlace bool
}

func NewApplyRulesCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "apply-rules <pattern>...",
		Short: "apply substitution rules to wikitext files, skipping verbatim regions",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.configPath, "config", "c", "rules.hcl", "path to the rules file")
	cmd.Flags().BoolVarP(&me.writeInPlace, "write", "w", false, "rewrite files in place instead of printing")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

// RuleSet is the top-level shape of a rules file.
type RuleSet struct {
	Rules []Rule `hcl:"rule,block"`
}

// Rule is one substitution. A regex rule compiles Search as a regular
// expression and supports capture group references in Replace.
type Rule struct {
	Search  string `hcl:"search"`
	Replace string `hcl:"replace"`
	Regex   bool   `hcl:"regex,optional"`
}

type compiledRule struct {
	rule    Rule
	pattern *regexp.Regexp
}

func loadRules(fs afero.Fs, path string) ([]compiledRule, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading rules file %q: %w", path, err)
	}

	var set RuleSet
	if err := hclsimple.Decode(filepath.Base(path), data, nil, &set); err != nil {
		return nil, errors.Errorf("decoding rules file %q: %w", path, err)
	}

	rules := make([]compiledRule, 0, len(set.Rules))
	for _, rule := range set.Rules {
		compiled := compiledRule{rule: rule}
		if rule.Regex {
			pattern, err := regexp.Compile(rule.Search)
			if err != nil {
				return nil, errors.Errorf("compiling rule pattern %q: %w", rule.Search, err)
			}
			compiled.pattern = pattern
		}
		rules = append(rules, compiled)
	}
	return rules, nil
}

func applyRules(text string, rules []compiledRule) (string, error) {
	for _, rule := range rules {
		var err error
		if rule.pattern != nil {
			text, err = wikitext.ReplaceRegexp(text, []*regexp.Regexp{rule.pattern}, []string{rule.rule.Replace})
		} else {
			text, err = wikitext.Replace(text, []string{rule.rule.Search}, []string{rule.rule.Replace})
		}
		if err != nil {
			return "", errors.Errorf("applying rule %q: %w", rule.rule.Search, err)
		}
	}
	return text, nil
}

func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	fs := afero.NewOsFs()

	rules, err := loadRules(fs, me.configPath)
	if err != nil {
		return err
	}

	files, err := finder.NewDefaultFinder(fs).FindInputs(ctx, patterns)
	if err != nil {
		return errors.Errorf("resolving inputs: %w", err)
	}

	for _, file := range files {
		result, err := applyRules(string(file.Content), rules)
		if err != nil {
			return errors.Errorf("processing %q: %w", file.Path, err)
		}

		if !me.writeInPlace {
			if _, err := io.WriteString(out, result); err != nil {
				return errors.Errorf("writing output: %w", err)
			}
			continue
		}

		if result == string(file.Content) {
			zerolog.Ctx(ctx).Debug().Str("file", file.Path).Msg("no changes")
			continue
		}
		if err := afero.WriteFile(fs, file.Path, []byte(result), 0o644); err != nil {
			return errors.Errorf("writing %q: %w", file.Path, err)
		}
		zerolog.Ctx(ctx).Info().Str("file", file.Path).Msg("rewrote file")
	}
	return nil
}
