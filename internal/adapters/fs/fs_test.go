package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/fs"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".git/config":         "git config",
		"ignored/file":        "ignored content",
		"lyvio/settings.py":   "DEBUG = False",
		"lyvio/__pycache__/x": "bytecode",
		"README.md":           "# Readme",
		"notes.pyc":           "bytecode",
	})

	walker := fs.NewWalker()

	files := make(map[string]bool)
	for path := range walker.WalkFiles(tmpDir, []string{"ignored", "__pycache__", "*.pyc"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.Equal(t, map[string]bool{
		"lyvio/settings.py": true,
		"README.md":         true,
	}, files)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	hasher := fs.NewHasher()

	hash1, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotZero(t, hash1)

	hash2, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)

	_, err = hasher.ComputeFileHash(filepath.Join(tmpDir, "missing"))
	require.Error(t, err)
}

func TestHasher_HashFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.py": "print('a')",
		"b.py": "print('b')",
	})

	hasher := fs.NewHasher()

	forward, err := hasher.HashFiles(tmpDir, []string{"a.py", "b.py"})
	require.NoError(t, err)
	reversed, err := hasher.HashFiles(tmpDir, []string{"b.py", "a.py", "a.py"})
	require.NoError(t, err)
	assert.Equal(t, forward, reversed, "order and duplicates do not matter")

	only, err := hasher.HashFiles(tmpDir, []string{"a.py"})
	require.NoError(t, err)
	assert.NotEqual(t, forward, only)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.py"), []byte("print('B')"), 0o600))
	changed, err := hasher.HashFiles(tmpDir, []string{"a.py", "b.py"})
	require.NoError(t, err)
	assert.NotEqual(t, forward, changed, "content change alters the hash")

	require.NoError(t, os.Chmod(filepath.Join(tmpDir, "b.py"), 0o700))
	chmodded, err := hasher.HashFiles(tmpDir, []string{"a.py", "b.py"})
	require.NoError(t, err)
	assert.NotEqual(t, changed, chmodded, "mode change alters the hash")
}

func TestHasher_HashFiles_RenameChangesHash(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTree(t, first, map[string]string{"a.py": "same"})
	writeTree(t, second, map[string]string{"b.py": "same"})

	hasher := fs.NewHasher()
	h1, err := hasher.HashFiles(first, []string{"a.py"})
	require.NoError(t, err)
	h2, err := hasher.HashFiles(second, []string{"b.py"})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHost_MkdirAllAndOwner(t *testing.T) {
	tmpDir := t.TempDir()
	host := fs.NewHost()

	path := filepath.Join(tmpDir, "app", "media")
	require.NoError(t, host.MkdirAll(path, 0o755))

	owner, err := host.Owner(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getuid(), owner.UID)

	require.NoError(t, host.Chown(path, domain.Owner{UID: os.Getuid(), GID: os.Getgid()}))

	_, err = host.Owner(filepath.Join(tmpDir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
