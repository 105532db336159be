package ports

import (
	"io"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
)

// LayerStore defines the content-addressed store of stage layers.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LayerStore interface {
	// Get retrieves the layer record committed under a cache key.
	// Returns nil, nil if not found.
	Get(root string, key digest.Digest) (*domain.LayerRecord, error)

	// Put commits a layer record under its key.
	Put(root string, record domain.LayerRecord) error

	// WriteBlob stores a layer blob and returns its digest and size.
	WriteBlob(root string, r io.Reader) (digest.Digest, int64, error)

	// OpenBlob opens a stored blob. Missing blobs are reported as domain.ErrBlobNotFound.
	OpenBlob(root string, d digest.Digest) (io.ReadCloser, error)
}
