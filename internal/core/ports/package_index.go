package ports

import (
	"context"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// PackageIndex lists the published versions of a package.
//
//go:generate go run go.uber.org/mock/mockgen -source=package_index.go -destination=mocks/mock_package_index.go -package=mocks
type PackageIndex interface {
	// Versions returns every installable version of a package, in no particular order.
	// Unknown packages are reported as domain.ErrPackageNotFound.
	Versions(ctx context.Context, name string) ([]string, error)
	// Source identifies the index. It is part of the dependency stage's cache key.
	Source() string
}

// DependencyResolver pins every requirement of a manifest to a concrete version.
type DependencyResolver interface {
	Resolve(ctx context.Context, manifest *domain.Manifest, index PackageIndex) (domain.Lock, error)
}

// IndexOpener opens the package index named by an image descriptor: an index URL or
// the path of a static index file.
type IndexOpener interface {
	Open(location string) (PackageIndex, error)
}
