package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs resolves the given patterns to a sorted list of files relative to root.
// Directories expand to the files below them.
func (r *Resolver) ResolveInputs(patterns []string, root string, ignores []string) ([]string, error) {
	unique := make(map[string]bool)

	for _, pattern := range patterns {
		if err := checkInsideRoot(pattern); err != nil {
			return nil, err
		}
		path := filepath.Join(root, pattern)

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", pattern)
		}

		if len(matches) == 0 {
			return nil, domain.Tag(domain.ErrInputNotFound, "path", pattern)
		}

		for _, match := range matches {
			if err := r.collect(root, match, ignores, unique); err != nil {
				return nil, err
			}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

func (r *Resolver) collect(root, match string, ignores []string, into map[string]bool) error {
	info, err := os.Lstat(match)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", match)
	}

	if !info.IsDir() {
		rel, err := filepath.Rel(root, match)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", match)
		}
		into[rel] = true
		return nil
	}

	for file := range r.walker.WalkFiles(match, ignores) {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", file)
		}
		into[rel] = true
	}
	return nil
}

func checkInsideRoot(pattern string) error {
	clean := filepath.Clean(pattern)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return domain.Tag(domain.ErrPathOutsideRoot, "path", pattern)
	}
	return nil
}
