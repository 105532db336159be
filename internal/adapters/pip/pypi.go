package pip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageIndex = (*PyPI)(nil)

// PyPI lists versions through the JSON API of a Python package index.
type PyPI struct {
	base   string
	client *http.Client
}

// NewPyPI creates an index client for the index at base, for example https://pypi.org.
func NewPyPI(base string, client *http.Client) *PyPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &PyPI{base: strings.TrimSuffix(base, "/"), client: client}
}

// Source returns the index base URL.
func (p *PyPI) Source() string {
	return p.base
}

type projectResponse struct {
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Yanked bool `json:"yanked"`
}

// Versions returns every version with at least one file that is not yanked.
func (p *PyPI) Versions(ctx context.Context, name string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", p.base, url.PathEscape(domain.NormalizeName(name)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrIndexUnavailable, "url", endpoint), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrIndexUnavailable, "url", endpoint), err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.Tag(domain.ErrPackageNotFound, "package", name)
	case resp.StatusCode != http.StatusOK:
		return nil, zerr.With(domain.Tag(domain.ErrIndexUnavailable, "url", endpoint), "status", resp.StatusCode)
	}

	var body projectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrIndexUnavailable, "url", endpoint), err)
	}

	versions := make([]string, 0, len(body.Releases))
	for version, files := range body.Releases {
		if installable(files) {
			versions = append(versions, version)
		}
	}
	return versions, nil
}

func installable(files []releaseFile) bool {
	for _, f := range files {
		if !f.Yanked {
			return true
		}
	}
	return false
}
