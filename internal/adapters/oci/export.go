package oci

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	imagespec "github.com/opencontainers/image-spec/specs-go/v1"
	"go.trai.ch/zerr"
)

// Label keys carrying the health check, since image configs have no field for it.
const (
	LabelHealthTest        = "io.stevedore.healthcheck.test"
	LabelHealthInterval    = "io.stevedore.healthcheck.interval"
	LabelHealthTimeout     = "io.stevedore.healthcheck.timeout"
	LabelHealthStartPeriod = "io.stevedore.healthcheck.start-period"
	LabelHealthRetries     = "io.stevedore.healthcheck.retries"
)

var _ ports.Exporter = (*Exporter)(nil)

// Exporter writes an OCI image layout from the base layers and the committed stage layers.
type Exporter struct {
	store ports.LayerStore
	base  *BaseProvider
}

// NewExporter creates an Exporter reading stage layers from store.
func NewExporter(store ports.LayerStore) *Exporter {
	return &Exporter{store: store, base: NewBaseProvider()}
}

// Export writes the image into a temporary directory next to the output directory and
// renames it into place, so a failed export never leaves a partial image behind.
func (e *Exporter) Export(ctx context.Context, req ports.ExportRequest) (digest.Digest, error) {
	parent := filepath.Dir(req.OutputDir)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return "", errors.Join(domain.Tag(domain.ErrExportFailed, "path", parent), err)
	}
	tmp, err := os.MkdirTemp(parent, ".export-*")
	if err != nil {
		return "", errors.Join(domain.Tag(domain.ErrExportFailed, "path", parent), err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	manifest, err := e.write(ctx, tmp, req)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrExportFailed, err), "image", req.Spec.Name)
	}
	if err := replaceDir(tmp, req.OutputDir); err != nil {
		return "", errors.Join(domain.Tag(domain.ErrExportFailed, "path", req.OutputDir), err)
	}
	return manifest, nil
}

func (e *Exporter) write(ctx context.Context, dir string, req ports.ExportRequest) (digest.Digest, error) {
	layout := &layoutWriter{dir: dir}
	if err := layout.writeFile(imagespec.ImageLayoutFile, imagespec.ImageLayout{Version: imagespec.ImageLayoutVersion}); err != nil {
		return "", err
	}

	var (
		layers  []imagespec.Descriptor
		diffIDs []digest.Digest
		history []imagespec.History
	)

	if req.Base != nil {
		for _, l := range req.Base.Layers {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			blob, err := e.base.openBlob(req.BaseSpec, l.Digest)
			if err != nil {
				return "", err
			}
			_, size, err := layout.writeBlob(blob, nil)
			_ = blob.Close()
			if err != nil {
				return "", err
			}
			layers = append(layers, imagespec.Descriptor{MediaType: l.MediaType, Digest: l.Digest, Size: size})
			diffIDs = append(diffIDs, l.DiffID)
			history = append(history, imagespec.History{CreatedBy: "base " + req.Base.Ref.Reference})
		}
	}

	for _, rec := range req.Layers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if rec.Entries == 0 {
			history = append(history, imagespec.History{CreatedBy: "stage " + rec.Stage, EmptyLayer: true})
			continue
		}
		blob, err := e.store.OpenBlob(req.StateDir, rec.DiffID)
		if err != nil {
			return "", domain.Tag(err, "stage", rec.Stage)
		}
		d, size, err := layout.writeBlob(blob, compress)
		_ = blob.Close()
		if err != nil {
			return "", domain.Tag(err, "stage", rec.Stage)
		}
		layers = append(layers, imagespec.Descriptor{MediaType: imagespec.MediaTypeImageLayerGzip, Digest: d, Size: size})
		diffIDs = append(diffIDs, rec.DiffID)
		history = append(history, imagespec.History{CreatedBy: "stage " + rec.Stage})
	}

	config := imageConfig(req, diffIDs, history)
	configDesc, err := layout.writeJSONBlob(imagespec.MediaTypeImageConfig, config)
	if err != nil {
		return "", err
	}

	manifestDesc, err := layout.writeJSONBlob(imagespec.MediaTypeImageManifest, imagespec.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: imagespec.MediaTypeImageManifest,
		Config:    configDesc,
		Layers:    layers,
	})
	if err != nil {
		return "", err
	}
	if req.Spec.Name != "" {
		manifestDesc.Annotations = map[string]string{imagespec.AnnotationRefName: req.Spec.Name}
	}
	manifestDesc.Platform = &config.Platform

	err = layout.writeFile(imagespec.ImageIndexFile, imagespec.Index{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: imagespec.MediaTypeImageIndex,
		Manifests: []imagespec.Descriptor{manifestDesc},
	})
	if err != nil {
		return "", err
	}
	return manifestDesc.Digest, nil
}

func imageConfig(req ports.ExportRequest, diffIDs []digest.Digest, history []imagespec.History) imagespec.Image {
	spec := req.Spec
	platform := imagespec.Platform{OS: "linux", Architecture: runtime.GOARCH}
	var env []string
	if req.Base != nil {
		if req.Base.OS != "" {
			platform.OS = req.Base.OS
		}
		if req.Base.Architecture != "" {
			platform.Architecture = req.Base.Architecture
		}
		env = req.Base.Env
	}

	labels := maps.Clone(spec.Labels)
	if labels == nil {
		labels = make(map[string]string)
	}
	if spec.Probe != nil {
		test, _ := json.Marshal([]string{"CMD", "stevedore", "probe"})
		labels[LabelHealthTest] = string(test)
		labels[LabelHealthInterval] = spec.Probe.Interval.String()
		labels[LabelHealthTimeout] = spec.Probe.Timeout.String()
		labels[LabelHealthStartPeriod] = spec.Probe.StartPeriod.String()
		labels[LabelHealthRetries] = strconv.Itoa(spec.Probe.Retries)
	}

	return imagespec.Image{
		Platform: platform,
		Config: imagespec.ImageConfig{
			User:         req.User,
			ExposedPorts: map[string]struct{}{spec.ExposedPort(): {}},
			Env:          mergeEnv(env, spec.EnvList()),
			Cmd:          spec.DefaultCmd(),
			WorkingDir:   spec.Identity.Home,
			Labels:       labels,
			StopSignal:   spec.StopSignal,
		},
		RootFS:  imagespec.RootFS{Type: "layers", DiffIDs: diffIDs},
		History: history,
	}
}

// mergeEnv overlays KEY=VALUE entries onto base and returns them sorted by key.
func mergeEnv(base, overlay []string) []string {
	merged := make(map[string]string, len(base)+len(overlay))
	for _, kv := range slices.Concat(base, overlay) {
		k, v, _ := strings.Cut(kv, "=")
		merged[k] = v
	}
	out := make([]string, 0, len(merged))
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, k+"="+merged[k])
	}
	return out
}

func compress(w io.Writer) io.WriteCloser {
	return gzip.NewWriter(w)
}

// layoutWriter writes content-addressed files into an image layout directory.
type layoutWriter struct {
	dir string
}

func (l *layoutWriter) writeFile(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode layout file"), "file", name)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write layout file"), "file", name)
	}
	return nil
}

func (l *layoutWriter) writeJSONBlob(mediaType string, v any) (imagespec.Descriptor, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return imagespec.Descriptor{}, zerr.With(zerr.Wrap(err, "failed to encode blob"), "media_type", mediaType)
	}
	d, size, err := l.writeBlob(bytes.NewReader(data), nil)
	if err != nil {
		return imagespec.Descriptor{}, err
	}
	return imagespec.Descriptor{MediaType: mediaType, Digest: d, Size: size}, nil
}

// writeBlob stores r under the sha256 digest of what is written, optionally through filter.
func (l *layoutWriter) writeBlob(r io.Reader, filter func(io.Writer) io.WriteCloser) (digest.Digest, int64, error) {
	blobs := filepath.Join(l.dir, "blobs", string(digest.SHA256))
	if err := os.MkdirAll(blobs, domain.DirPerm); err != nil {
		return "", 0, zerr.Wrap(err, "failed to create blob directory")
	}
	tmp, err := os.CreateTemp(blobs, ".blob-*")
	if err != nil {
		return "", 0, zerr.Wrap(err, "failed to create blob")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	digester := digest.SHA256.Digester()
	counter := &countingWriter{w: io.MultiWriter(tmp, digester.Hash())}
	var sink io.Writer = counter
	var closer io.Closer
	if filter != nil {
		wc := filter(counter)
		sink, closer = wc, wc
	}

	if _, err := io.Copy(sink, r); err != nil {
		_ = tmp.Close()
		return "", 0, zerr.Wrap(err, "failed to write blob")
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			_ = tmp.Close()
			return "", 0, zerr.Wrap(err, "failed to finish blob")
		}
	}
	if err := tmp.Close(); err != nil {
		return "", 0, zerr.Wrap(err, "failed to write blob")
	}

	d := digester.Digest()
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return "", 0, zerr.Wrap(err, "failed to write blob")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(blobs, d.Encoded())); err != nil {
		return "", 0, zerr.Wrap(err, "failed to write blob")
	}
	return d, counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// replaceDir moves src to dst. An existing dst is restored if the move fails.
func replaceDir(src, dst string) error {
	if _, err := os.Lstat(dst); errors.Is(err, fs.ErrNotExist) {
		return os.Rename(src, dst)
	}

	old := dst + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if err := os.Rename(dst, old); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Join(err, os.Rename(old, dst))
	}
	return os.RemoveAll(old)
}
