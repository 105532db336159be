package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/fs"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolveInputs_Glob(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"a.txt": "a", "b.txt": "b", "c.log": "c"})

	resolver := fs.NewResolver(fs.NewWalker())

	resolved, err := resolver.ResolveInputs([]string{"*.txt"}, tmpDir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, resolved)
}

func TestResolver_ResolveInputs_Directory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"manage.py":          "",
		"lyvio/settings.py":  "",
		"lyvio/urls.py":      "",
		".stevedore/store/x": "",
		"node_modules/pkg/y": "",
	})

	resolver := fs.NewResolver(fs.NewWalker())

	resolved, err := resolver.ResolveInputs([]string{"."}, tmpDir, []string{domain.StateDirName, "node_modules"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("lyvio", "settings.py"),
		filepath.Join("lyvio", "urls.py"),
		"manage.py",
	}, resolved)
}

func TestResolver_ResolveInputs_MultiplePatternsDeduplicate(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"requirements.txt": "django", "lyvio/app.py": ""})

	resolver := fs.NewResolver(fs.NewWalker())

	resolved, err := resolver.ResolveInputs([]string{"requirements.txt", "*.txt", "lyvio"}, tmpDir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("lyvio", "app.py"), "requirements.txt"}, resolved)
}

func TestResolver_ResolveInputs_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	resolver := fs.NewResolver(fs.NewWalker())

	_, err := resolver.ResolveInputs([]string{"*.nonexistent"}, tmpDir, nil)
	require.ErrorIs(t, err, domain.ErrInputNotFound)

	_, err = resolver.ResolveInputs([]string{"["}, tmpDir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")

	_, err = resolver.ResolveInputs([]string{"../outside"}, tmpDir, nil)
	require.ErrorIs(t, err, domain.ErrPathOutsideRoot)

	_, err = resolver.ResolveInputs([]string{"/etc/passwd"}, tmpDir, nil)
	require.ErrorIs(t, err, domain.ErrPathOutsideRoot)
}
