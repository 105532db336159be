package ports

import (
	"io/fs"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// RuntimeFS is the host filesystem as seen by the container entrypoint.
//
//go:generate go run go.uber.org/mock/mockgen -source=runtime_fs.go -destination=mocks/mock_runtime_fs.go -package=mocks
type RuntimeFS interface {
	// Owner returns the owner of path. Missing paths are reported with fs.ErrNotExist.
	Owner(path string) (domain.Owner, error)
	MkdirAll(path string, mode fs.FileMode) error
	Chown(path string, owner domain.Owner) error
}
