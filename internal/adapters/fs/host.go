package fs

import (
	iofs "io/fs"
	"os"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RuntimeFS = (*Host)(nil)

// Host is the container filesystem seen from the entrypoint.
type Host struct{}

// NewHost creates a new Host.
func NewHost() *Host {
	return &Host{}
}

// Owner returns the numeric owner of path.
func (h *Host) Owner(path string) (domain.Owner, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return domain.Owner{}, err
	}
	return ownerOf(info), nil
}

// MkdirAll creates path and any missing parents.
func (h *Host) MkdirAll(path string, mode iofs.FileMode) error {
	if err := os.MkdirAll(path, mode); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Chown changes the numeric owner of path without following symlinks.
func (h *Host) Chown(path string, owner domain.Owner) error {
	if err := os.Lchown(path, owner.UID, owner.GID); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to change owner"), "path", path)
	}
	return nil
}
