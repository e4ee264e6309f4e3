package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	apply_rules "github.com/walteh/wikilex/cmd/wikilex/apply-rules"
	extract_tags "github.com/walteh/wikilex/cmd/wikilex/extract-tags"
	extract_templates "github.com/walteh/wikilex/cmd/wikilex/extract-templates"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "wikilex",
		Short: "lexical scanning tools for wikitext",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		if verbose {
			logger = logger.Level(zerolog.DebugLevel)
		} else {
			logger = logger.Level(zerolog.InfoLevel)
		}
		cmd.SetContext(logger.WithContext(cmd.Context()))
	}

	rootCmd.AddCommand(extract_templates.NewExtractTemplatesCommand())
	rootCmd.AddCommand(extract_tags.NewExtractTagsCommand())
	rootCmd.AddCommand(apply_rules.NewApplyRulesCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
