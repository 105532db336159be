package ports

import (
	"context"
	"io"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
)

// BaseProvider resolves the base image a build starts from.
//
//go:generate go run go.uber.org/mock/mockgen -source=image.go -destination=mocks/mock_image.go -package=mocks
type BaseProvider interface {
	// Resolve inspects the base image. A reference without an archive resolves to an
	// opaque base with no layers.
	Resolve(ctx context.Context, spec domain.BaseSpec) (*domain.BaseImage, error)
	// OpenLayer opens the uncompressed tar stream of one base layer.
	OpenLayer(ctx context.Context, spec domain.BaseSpec, layer domain.BaseLayer) (io.ReadCloser, error)
}

// ExportRequest is everything an exporter needs to write the final image.
type ExportRequest struct {
	Spec      *domain.ImageSpec
	BaseSpec  domain.BaseSpec
	Base      *domain.BaseImage
	Layers    []domain.LayerRecord
	User      string
	StateDir  string
	OutputDir string
}

// Exporter writes a built image.
type Exporter interface {
	// Export writes the image and returns the digest of its manifest.
	Export(ctx context.Context, req ExportRequest) (digest.Digest, error)
}
