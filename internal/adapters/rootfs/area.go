package rootfs

import (
	"os"
	"path/filepath"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StagingArea = (*Area)(nil)

// Area creates staging trees below a state directory.
type Area struct{}

// NewArea creates a new Area.
func NewArea() *Area {
	return &Area{}
}

// Create makes a fresh, empty tree in the staging directory of stateDir.
func (a *Area) Create(stateDir string) (ports.Tree, error) {
	parent := filepath.Join(stateDir, domain.StagingDirName)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create staging directory"), "path", parent)
	}
	dir, err := os.MkdirTemp(parent, "tree-")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create staging tree"), "path", parent)
	}
	tree, err := newTree(dir)
	if err != nil {
		return nil, err
	}
	return tree, nil
}
