// Package oci reads base images from OCI image archives and writes built images as
// OCI image layouts.
package oci

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	tarfs "github.com/nlepage/go-tarfs"
	"github.com/opencontainers/go-digest"
	imagespec "github.com/opencontainers/image-spec/specs-go/v1"
	"go.trai.ch/zerr"
)

// Docker media types found in archives produced by docker save.
const (
	dockerManifest  = "application/vnd.docker.distribution.manifest.v2+json"
	dockerLayer     = "application/vnd.docker.image.rootfs.diff.tar"
	dockerLayerGzip = "application/vnd.docker.image.rootfs.diff.tar.gzip"
)

var _ ports.BaseProvider = (*BaseProvider)(nil)

// BaseProvider resolves base images. Archives may be an OCI layout directory or a
// tar of one.
type BaseProvider struct{}

// NewBaseProvider creates a new BaseProvider.
func NewBaseProvider() *BaseProvider {
	return &BaseProvider{}
}

// Resolve inspects the base. Without an archive the reference is opaque and the base
// key depends on its name only.
func (p *BaseProvider) Resolve(ctx context.Context, spec domain.BaseSpec) (*domain.BaseImage, error) {
	if spec.Archive == "" {
		return &domain.BaseImage{
			Ref: domain.BaseRef{Reference: spec.Reference, Digest: digest.FromString(spec.Reference)},
			OS:  "linux",
		}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, closer, err := openArchive(spec.Archive)
	if err != nil {
		return nil, err
	}
	defer closer.Close() //nolint:errcheck // read-only

	manifestDesc, manifest, err := readManifest(archive)
	if err != nil {
		return nil, domain.Tag(err, "archive", spec.Archive)
	}
	var config imagespec.Image
	if err := readJSON(archive, blobPath(manifest.Config.Digest), &config); err != nil {
		return nil, domain.Tag(err, "archive", spec.Archive)
	}
	if len(config.RootFS.DiffIDs) != len(manifest.Layers) {
		return nil, zerr.With(domain.Tag(domain.ErrBaseImageInvalid, "archive", spec.Archive),
			"reason", "layer count does not match diff ids")
	}

	img := &domain.BaseImage{
		Ref:          domain.BaseRef{Reference: spec.Reference, Digest: manifestDesc.Digest},
		Env:          config.Config.Env,
		Architecture: config.Architecture,
		OS:           config.OS,
	}
	for i, l := range manifest.Layers {
		img.Layers = append(img.Layers, domain.BaseLayer{
			MediaType: l.MediaType,
			Digest:    l.Digest,
			DiffID:    config.RootFS.DiffIDs[i],
			Size:      l.Size,
		})
	}
	return img, nil
}

// OpenLayer opens the uncompressed tar stream of a base layer. The compressed blob is
// verified against its digest when fully read.
func (p *BaseProvider) OpenLayer(
	_ context.Context,
	spec domain.BaseSpec,
	layer domain.BaseLayer,
) (io.ReadCloser, error) {
	blob, err := p.openBlob(spec, layer.Digest)
	if err != nil {
		return nil, err
	}

	switch layer.MediaType {
	case imagespec.MediaTypeImageLayer, dockerLayer:
		return blob, nil
	case imagespec.MediaTypeImageLayerGzip, dockerLayerGzip:
		gz, err := gzip.NewReader(blob)
		if err != nil {
			_ = blob.Close()
			return nil, errors.Join(domain.Tag(domain.ErrLayerCorrupt, "digest", layer.Digest.String()), err)
		}
		return &stackedReader{Reader: gz, closers: []io.Closer{gz, blob}}, nil
	default:
		_ = blob.Close()
		return nil, domain.Tag(domain.ErrBaseImageInvalid, "media_type", layer.MediaType)
	}
}

// openBlob opens a raw blob of the base archive.
func (p *BaseProvider) openBlob(spec domain.BaseSpec, d digest.Digest) (io.ReadCloser, error) {
	if err := d.Validate(); err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "digest", d.String()), err)
	}
	archive, closer, err := openArchive(spec.Archive)
	if err != nil {
		return nil, err
	}
	f, err := archive.Open(blobPath(d))
	if err != nil {
		_ = closer.Close()
		return nil, errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "blob", d.String()), err)
	}
	verifier := d.Verifier()
	return &stackedReader{
		Reader:  &verifyingReader{r: io.TeeReader(f, verifier), verifier: verifier, digest: d},
		closers: []io.Closer{f, closer},
	}, nil
}

func openArchive(location string) (fs.FS, io.Closer, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, nil, errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "archive", location), err)
	}
	if info.IsDir() {
		return os.DirFS(location), noClose{}, nil
	}

	//nolint:gosec // archive path comes from the image descriptor
	f, err := os.Open(location)
	if err != nil {
		return nil, nil, errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "archive", location), err)
	}
	archive, err := tarfs.New(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "archive", location), err)
	}
	return archive, f, nil
}

// readManifest returns the single image manifest the archive index points to.
func readManifest(archive fs.FS) (imagespec.Descriptor, imagespec.Manifest, error) {
	var index imagespec.Index
	if err := readJSON(archive, imagespec.ImageIndexFile, &index); err != nil {
		return imagespec.Descriptor{}, imagespec.Manifest{}, err
	}

	var found []imagespec.Descriptor
	for _, m := range index.Manifests {
		if m.MediaType == imagespec.MediaTypeImageManifest || m.MediaType == dockerManifest {
			found = append(found, m)
		}
	}
	if len(found) != 1 {
		return imagespec.Descriptor{}, imagespec.Manifest{},
			domain.Tag(domain.ErrBaseImageInvalid, "manifests", len(found))
	}

	var manifest imagespec.Manifest
	if err := readJSON(archive, blobPath(found[0].Digest), &manifest); err != nil {
		return imagespec.Descriptor{}, imagespec.Manifest{}, err
	}
	return found[0], manifest, nil
}

func readJSON(archive fs.FS, name string, out any) error {
	data, err := fs.ReadFile(archive, name)
	if err != nil {
		return errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "file", name), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Join(domain.Tag(domain.ErrBaseImageInvalid, "file", name), err)
	}
	return nil
}

func blobPath(d digest.Digest) string {
	return path.Join("blobs", d.Algorithm().String(), d.Encoded())
}

type verifyingReader struct {
	r        io.Reader
	verifier digest.Verifier
	digest   digest.Digest
}

func (v *verifyingReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	if errors.Is(err, io.EOF) && !v.verifier.Verified() {
		return n, domain.Tag(domain.ErrLayerCorrupt, "digest", v.digest.String())
	}
	return n, err
}

type noClose struct{}

func (noClose) Close() error { return nil }

// stackedReader closes every closer in order.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
