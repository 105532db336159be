// Package cas implements Content Addressable Storage for stage layers.
package cas

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

// Store implements ports.LayerStore using a file-per-record strategy.
// Records live under <root>/store and blobs under <root>/blobs/<algorithm>/<hex>.
type Store struct{}

// NewStore creates a new LayerStore.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the layer record committed under key.
func (s *Store) Get(root string, key digest.Digest) (*domain.LayerRecord, error) {
	filename := s.recordFilename(root, key)
	//nolint:gosec // Path is constructed from trusted directory and validated digest
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var rec domain.LayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}

	return &rec, nil
}

// Put stores the layer record.
func (s *Store) Put(root string, rec domain.LayerRecord) error {
	if err := rec.Key.Validate(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", rec.Key.String())
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.recordFilename(root, rec.Key)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	return writeAtomic(filename, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// WriteBlob stores a layer blob under its sha256 digest.
func (s *Store) WriteBlob(root string, r io.Reader) (digest.Digest, int64, error) {
	dir := filepath.Join(root, domain.BlobDirName, string(digest.SHA256))
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	digester := digest.SHA256.Digester()
	size, err := io.Copy(io.MultiWriter(tmp, digester.Hash()), r)
	if err != nil {
		_ = tmp.Close()
		return "", 0, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	d := digester.Digest()
	if err := os.Rename(tmp.Name(), s.blobFilename(root, d)); err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return d, size, nil
}

// OpenBlob opens a stored blob. The returned reader fails with domain.ErrLayerCorrupt
// at EOF when the content does not match d. Close reads whatever the caller left
// unread, so a consumer that stops early still gets the check.
func (s *Store) OpenBlob(root string, d digest.Digest) (io.ReadCloser, error) {
	if err := d.Validate(); err != nil {
		return nil, errors.Join(domain.ErrBlobNotFound, err)
	}
	//nolint:gosec // Path is constructed from trusted directory and validated digest
	f, err := os.Open(s.blobFilename(root, d))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.Tag(domain.ErrBlobNotFound, "digest", d.String())
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return &verifyingReader{file: f, verifier: d.Verifier(), digest: d}, nil
}

func (s *Store) recordFilename(root string, key digest.Digest) string {
	return filepath.Join(root, domain.StoreDirName, key.Encoded()+".json")
}

func (s *Store) blobFilename(root string, d digest.Digest) string {
	return filepath.Join(root, domain.BlobDirName, d.Algorithm().String(), d.Encoded())
}

// writeAtomic writes through a temp file in the target directory and renames it into place.
func writeAtomic(filename string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".tmp-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

type verifyingReader struct {
	file     *os.File
	verifier digest.Verifier
	digest   digest.Digest
}

func (r *verifyingReader) Read(p []byte) (int, error) {
	n, err := r.file.Read(p)
	if n > 0 {
		_, _ = r.verifier.Write(p[:n])
	}
	if errors.Is(err, io.EOF) && !r.verifier.Verified() {
		return n, domain.Tag(domain.ErrLayerCorrupt, "digest", r.digest.String())
	}
	return n, err
}

func (r *verifyingReader) Close() error {
	_, err := io.Copy(io.Discard, r)
	return errors.Join(err, r.file.Close())
}
