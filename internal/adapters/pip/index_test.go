package pip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/pip"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPyPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/python-docx/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"releases": {
			"1.0.0": [{"yanked": false}],
			"1.1.0": [{"yanked": true}, {"yanked": false}],
			"1.1.1": [{"yanked": true}],
			"0.1": []
		}}`))
	})
	mux.HandleFunc("/pypi/broken/json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPyPI_Versions(t *testing.T) {
	t.Parallel()

	srv := newPyPIServer(t)
	index := pip.NewPyPI(srv.URL+"/", srv.Client())

	versions, err := index.Versions(context.Background(), "Python_Docx")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.0.0", "1.1.0"}, versions)
	assert.Equal(t, srv.URL, index.Source())
}

func TestPyPI_Errors(t *testing.T) {
	t.Parallel()

	srv := newPyPIServer(t)
	index := pip.NewPyPI(srv.URL, srv.Client())

	_, err := index.Versions(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, err = index.Versions(context.Background(), "broken")
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestStaticIndex(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packages:
  Django: ["4.2.11", "5.0.3"]
  python_docx: ["1.1.0"]
`), domain.FilePerm))

	index, err := pip.NewOpener(nil).Open(path)
	require.NoError(t, err)

	versions, err := index.Versions(context.Background(), "python-docx")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.0"}, versions)

	_, err = index.Versions(context.Background(), "flask")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestOpener_SelectsByLocation(t *testing.T) {
	t.Parallel()

	index, err := pip.NewOpener(nil).Open("https://pypi.org")
	require.NoError(t, err)
	assert.IsType(t, &pip.PyPI{}, index)

	_, err = pip.NewOpener(nil).Open(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}
