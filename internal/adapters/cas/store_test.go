package cas_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/cas"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/rootfs"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	rec := domain.LayerRecord{
		Stage:     "deps",
		Key:       digest.FromString("deps-key"),
		DiffID:    digest.FromString("layer"),
		Size:      1024,
		Entries:   12,
		Privilege: domain.PrivilegeProvisioned,
		Timestamp: time.Now().Truncate(time.Second),
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(root, rec))

		got, err := store.Get(root, rec.Key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec.Stage, got.Stage)
		assert.Equal(t, rec.DiffID, got.DiffID)
		assert.Equal(t, rec.Privilege, got.Privilege)
		assert.True(t, rec.Timestamp.Equal(got.Timestamp))
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(root, digest.FromString("missing"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_GetCorruptRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	key := digest.FromString("corrupt")
	require.NoError(t, store.Put(root, domain.LayerRecord{Stage: "payload", Key: key}))

	entries, err := os.ReadDir(filepath.Join(root, domain.StoreDirName))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	//nolint:gosec // test fixture
	err = os.WriteFile(filepath.Join(root, domain.StoreDirName, entries[0].Name()), []byte("{ invalid json"), 0o600)
	require.NoError(t, err)

	_, err = store.Get(root, key)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_Blobs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	d, size, err := store.WriteBlob(root, strings.NewReader("layer contents"))
	require.NoError(t, err)
	assert.Equal(t, digest.FromString("layer contents"), d)
	assert.Equal(t, int64(len("layer contents")), size)

	rc, err := store.OpenBlob(root, d)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "layer contents", string(data))

	_, err = store.OpenBlob(root, digest.FromString("absent"))
	require.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestStore_OpenBlobDetectsCorruption(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	d, _, err := store.WriteBlob(root, strings.NewReader("original"))
	require.NoError(t, err)

	path := filepath.Join(root, domain.BlobDirName, d.Algorithm().String(), d.Encoded())
	//nolint:gosec // test fixture
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o600))

	rc, err := store.OpenBlob(root, d)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	_, err = io.ReadAll(rc)
	require.ErrorIs(t, err, domain.ErrLayerCorrupt)
}

func TestStore_CorruptLayerFailsOnApply(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)
	area := rootfs.NewArea()

	src, err := area.Create(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Discard() })
	require.NoError(t, src.WriteFile("/app/settings.py", []byte("DEBUG = False\n"), 0o644))
	var layer bytes.Buffer
	_, err = src.Commit(&layer, func(string) domain.Owner { return domain.Owner{} })
	require.NoError(t, err)

	d, _, err := store.WriteBlob(root, bytes.NewReader(layer.Bytes()))
	require.NoError(t, err)

	// Same length, so the tar stream stays well formed.
	tampered := bytes.Replace(layer.Bytes(), []byte("False"), []byte("True!"), 1)
	require.NotEqual(t, layer.Bytes(), tampered)
	path := filepath.Join(root, domain.BlobDirName, d.Algorithm().String(), d.Encoded())
	//nolint:gosec // test fixture
	require.NoError(t, os.WriteFile(path, tampered, 0o600))

	dst, err := area.Create(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Discard() })

	rc, err := store.OpenBlob(root, d)
	require.NoError(t, err)
	require.NoError(t, dst.Apply(rc))
	require.ErrorIs(t, rc.Close(), domain.ErrLayerCorrupt)
}

func TestStore_IntactLayerClosesCleanly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	d, _, err := store.WriteBlob(root, strings.NewReader("layer contents plus trailing padding"))
	require.NoError(t, err)

	rc, err := store.OpenBlob(root, d)
	require.NoError(t, err)
	buf := make([]byte, 5)
	_, err = io.ReadFull(rc, buf)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}
