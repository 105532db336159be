// Package prepare ensures the runtime directories of the payload exist with the
// ownership the execution identity needs, before the service starts.
package prepare

import (
	"context"
	"errors"
	"io/fs"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Preparer creates and chowns runtime directories. Running it twice is a no-op.
type Preparer struct {
	fs     ports.RuntimeFS
	logger ports.Logger
}

// New creates a Preparer.
func New(fsys ports.RuntimeFS, logger ports.Logger) *Preparer {
	return &Preparer{fs: fsys, logger: logger}
}

// Prepare processes every path of dirs and reports what it did. The first failure
// stops preparation: the service must not start with a directory it cannot write.
func (p *Preparer) Prepare(ctx context.Context, dirs domain.RuntimeDirs) ([]domain.PrepareResult, error) {
	if err := dirs.Validate(); err != nil {
		return nil, err
	}
	mode := fs.FileMode(dirs.Mode)
	if mode == 0 {
		mode = domain.DefaultRuntimeMode
	}

	results := make([]domain.PrepareResult, 0, len(dirs.Paths))
	for _, path := range dirs.Paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		action, err := p.prepare(path, dirs.Owner, mode)
		if err != nil {
			return results, errors.Join(domain.Tag(domain.ErrRuntimeDirPrepareFailed, "path", path), err)
		}
		results = append(results, domain.PrepareResult{Path: path, Action: action})
		if action != domain.PrepareUnchanged {
			p.logger.Info(string(action) + " " + path)
		}
	}
	return results, nil
}

func (p *Preparer) prepare(path string, owner domain.Owner, mode fs.FileMode) (domain.PrepareAction, error) {
	current, err := p.fs.Owner(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := p.fs.MkdirAll(path, mode); err != nil {
			return "", err
		}
		if err := p.fs.Chown(path, owner); err != nil {
			return "", err
		}
		return domain.PrepareCreated, nil
	case err != nil:
		return "", zerr.With(zerr.Wrap(err, "failed to read owner"), "path", path)
	case current == owner:
		return domain.PrepareUnchanged, nil
	}

	if err := p.fs.Chown(path, owner); err != nil {
		return "", err
	}
	return domain.PrepareChowned, nil
}
