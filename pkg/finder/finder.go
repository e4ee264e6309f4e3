package finder

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// InputFinder is responsible for resolving input patterns to loadable
// wikitext files.
type InputFinder interface {
	// FindInputs resolves each pattern (a doublestar glob or a plain
	// path) and loads the matching files.
	FindInputs(ctx context.Context, patterns []string) ([]FileInfo, error)
}

// FileInfo represents one resolved input file.
type FileInfo struct {
	Path    string
	Content []byte
}

// DefaultFinder is the default implementation of InputFinder, backed by
// an afero filesystem.
type DefaultFinder struct {
	fs afero.Fs
}

// NewDefaultFinder creates a new DefaultFinder. A nil fs means the OS
// filesystem.
func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DefaultFinder{fs: fs}
}

// FindInputs implements InputFinder. A pattern with no glob
// metacharacters must name an existing file; a glob that matches
// nothing is not an error. Duplicates across patterns are returned
// once.
func (f *DefaultFinder) FindInputs(ctx context.Context, patterns []string) ([]FileInfo, error) {
	iofs := afero.NewIOFS(f.fs)
	seen := make(map[string]bool)
	var files []FileInfo

	for _, pattern := range patterns {
		var matches []string
		if strings.ContainsAny(pattern, "*?[{") {
			m, err := doublestar.Glob(iofs, pattern)
			if err != nil {
				return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
			}
			matches = m
		} else {
			matches = []string{pattern}
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := f.fs.Stat(path)
			if err != nil {
				return nil, errors.Errorf("reading input %q: %w", path, err)
			}
			if info.IsDir() {
				continue
			}

			content, err := afero.ReadFile(f.fs, path)
			if err != nil {
				return nil, errors.Errorf("reading input %q: %w", path, err)
			}
			files = append(files, FileInfo{Path: path, Content: content})
		}
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(files)).Msg("resolved inputs")
	return files, nil
}
