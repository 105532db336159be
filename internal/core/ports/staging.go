package ports

import (
	"io"
	"io/fs"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// OwnerFunc decides the owner of a path added since the last snapshot.
type OwnerFunc func(imagePath string) domain.Owner

// Tree is a staging root filesystem that builds accumulate stage layers in.
// Image paths are absolute paths inside the image.
//
//go:generate go run go.uber.org/mock/mockgen -source=staging.go -destination=mocks/mock_staging.go -package=mocks
type Tree interface {
	// Root is the host directory backing the tree.
	Root() string
	// HostPath maps an image path to the host. Paths escaping the root are rejected.
	HostPath(imagePath string) (string, error)
	Mkdir(imagePath string, mode fs.FileMode, owner domain.Owner) error
	// CopyIn copies a host file into the tree.
	CopyIn(hostSrc, imagePath string, owner domain.Owner) error
	Chown(imagePath string, owner domain.Owner, recursive bool) error
	Remove(imagePath string) error
	ReadFile(imagePath string) ([]byte, error)
	WriteFile(imagePath string, data []byte, mode fs.FileMode) error
	// Snapshot records the current tree state. Commit diffs against it.
	Snapshot() error
	// Commit writes the changes since the last snapshot as a layer and takes a new snapshot.
	// Paths with no recorded owner are assigned by owners.
	Commit(w io.Writer, owners OwnerFunc) (domain.LayerStats, error)
	// Apply unpacks a layer into the tree, honoring whiteouts.
	Apply(r io.Reader) error
	// Discard removes the tree.
	Discard() error
}

// StagingArea creates staging trees.
type StagingArea interface {
	Create(stateDir string) (Tree, error)
}
