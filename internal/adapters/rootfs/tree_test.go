package rootfs_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/rootfs"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var app = domain.Owner{UID: 1000, GID: 1000}

func newTree(t *testing.T) ports.Tree {
	t.Helper()
	tree, err := rootfs.NewArea().Create(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tree.Discard() })
	return tree
}

type tarEntry struct {
	Name string
	Type byte
	UID  int
	GID  int
	Mode int64
	Body string
}

func readLayer(t *testing.T, data []byte) []tarEntry {
	t.Helper()
	var out []tarEntry
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		out = append(out, tarEntry{hdr.Name, hdr.Typeflag, hdr.Uid, hdr.Gid, hdr.Mode, string(body)})
	}
}

func populate(t *testing.T, tree ports.Tree) {
	t.Helper()
	require.NoError(t, tree.Mkdir("/app/logs", 0o750, app))
	require.NoError(t, tree.WriteFile("/etc/passwd", []byte("root:x:0:0::/root:/bin/sh\n"), 0o644))

	src := filepath.Join(t.TempDir(), "manage.py")
	require.NoError(t, os.WriteFile(src, []byte("print('hi')\n"), 0o755))
	require.NoError(t, tree.CopyIn(src, "/app/manage.py", app))
}

func TestTree_CommitIsDeterministic(t *testing.T) {
	t.Parallel()

	commit := func() []byte {
		tree := newTree(t)
		require.NoError(t, tree.Snapshot())
		populate(t, tree)
		var buf bytes.Buffer
		_, err := tree.Commit(&buf, nil)
		require.NoError(t, err)
		return buf.Bytes()
	}

	assert.Equal(t, commit(), commit())
}

func TestTree_CommitRecordsOwnership(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	require.NoError(t, tree.Snapshot())
	populate(t, tree)

	var buf bytes.Buffer
	stats, err := tree.Commit(&buf, func(string) domain.Owner { return domain.Owner{} })
	require.NoError(t, err)
	assert.Equal(t, domain.LayerStats{Added: 5}, stats)

	assert.Equal(t, []tarEntry{
		{Name: "app/", Type: tar.TypeDir, UID: 1000, GID: 1000, Mode: 0o755},
		{Name: "app/logs/", Type: tar.TypeDir, UID: 1000, GID: 1000, Mode: 0o750},
		{Name: "app/manage.py", Type: tar.TypeReg, UID: 1000, GID: 1000, Mode: 0o755, Body: "print('hi')\n"},
		{Name: "etc/", Type: tar.TypeDir, Mode: 0o755},
		{Name: "etc/passwd", Type: tar.TypeReg, Mode: 0o644, Body: "root:x:0:0::/root:/bin/sh\n"},
	}, readLayer(t, buf.Bytes()))
}

func TestTree_CommitOnlyChanges(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	require.NoError(t, tree.Snapshot())
	populate(t, tree)
	_, err := tree.Commit(io.Discard, nil)
	require.NoError(t, err)

	var empty bytes.Buffer
	stats, err := tree.Commit(&empty, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries())
	assert.Empty(t, readLayer(t, empty.Bytes()))

	require.NoError(t, tree.Chown("/etc/passwd", app, false))
	require.NoError(t, tree.Remove("/app"))

	var buf bytes.Buffer
	stats, err = tree.Commit(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LayerStats{Modified: 1, Removed: 1}, stats)

	entries := readLayer(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, ".wh.app", entries[0].Name, "whiteout for the directory only")
	assert.Equal(t, "etc/passwd", entries[1].Name)
	assert.Equal(t, 1000, entries[1].UID)
}

func TestTree_ApplyRoundTrip(t *testing.T) {
	t.Parallel()

	src := newTree(t)
	require.NoError(t, src.Snapshot())
	populate(t, src)
	var first bytes.Buffer
	_, err := src.Commit(&first, nil)
	require.NoError(t, err)

	require.NoError(t, src.Remove("/app/logs"))
	var second bytes.Buffer
	_, err = src.Commit(&second, nil)
	require.NoError(t, err)

	dst := newTree(t)
	require.NoError(t, dst.Apply(bytes.NewReader(first.Bytes())))
	require.NoError(t, dst.Apply(bytes.NewReader(second.Bytes())))

	data, err := dst.ReadFile("/app/manage.py")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(data))

	host, err := dst.HostPath("/app/logs")
	require.NoError(t, err)
	assert.NoDirExists(t, host)

	// Recommitting the applied tree reproduces the combined state with the same owners.
	var replay bytes.Buffer
	_, err = dst.Commit(&replay, nil)
	require.NoError(t, err)
	for _, e := range readLayer(t, replay.Bytes()) {
		if strings.HasPrefix(e.Name, "app/") {
			assert.Equal(t, 1000, e.UID, e.Name)
		}
	}
}

func TestTree_ApplyOpaqueWhiteout(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	require.NoError(t, tree.WriteFile("/var/cache/apt/pkgcache.bin", []byte("x"), 0o644))

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "var/cache/apt/.wh..wh..opq", Typeflag: tar.TypeReg}))
	require.NoError(t, tw.Close())

	require.NoError(t, tree.Apply(&buf))

	host, err := tree.HostPath("/var/cache/apt")
	require.NoError(t, err)
	entries, err := os.ReadDir(host)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTree_ApplyCorruptLayer(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	err := tree.Apply(strings.NewReader(strings.Repeat("garbage", 100)))
	require.ErrorIs(t, err, domain.ErrLayerCorrupt)
}

func TestTree_HostPathStaysInside(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	_, err := tree.HostPath("etc/passwd")
	require.ErrorIs(t, err, domain.ErrPathOutsideRoot)

	require.NoError(t, os.Symlink("../../../../", filepath.Join(tree.Root(), "escape")))

	host, err := tree.HostPath("/escape/etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(host, tree.Root()+string(filepath.Separator)), host)

	host, err = tree.HostPath("/../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tree.Root(), "etc", "passwd"), host)
}

func TestTree_PermissionsKeptLogically(t *testing.T) {
	t.Parallel()

	tree := newTree(t)
	require.NoError(t, tree.Snapshot())
	require.NoError(t, tree.WriteFile("/usr/bin/tool", []byte("#!/bin/sh\n"), 0o555))

	var buf bytes.Buffer
	_, err := tree.Commit(&buf, nil)
	require.NoError(t, err)

	for _, e := range readLayer(t, buf.Bytes()) {
		if e.Name == "usr/bin/tool" {
			assert.Equal(t, int64(0o555), e.Mode)
			return
		}
	}
	t.Fatal("tool not in layer")
}
