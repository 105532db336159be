package pip

import (
	"context"
	"errors"
	"os"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"gopkg.in/yaml.v3"
)

var _ ports.PackageIndex = (*StaticIndex)(nil)

// StaticIndex is an offline index read from a YAML file:
//
//	packages:
//	  django: ["4.2.11", "5.0.3"]
type StaticIndex struct {
	path     string
	packages map[string][]string
}

type staticFile struct {
	Packages map[string][]string `yaml:"packages"`
}

// LoadStaticIndex reads a static index file.
func LoadStaticIndex(path string) (*StaticIndex, error) {
	//nolint:gosec // index path comes from the image descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrIndexUnavailable, "path", path), err)
	}
	var file staticFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrIndexUnavailable, "path", path), err)
	}

	idx := &StaticIndex{path: path, packages: make(map[string][]string, len(file.Packages))}
	for name, versions := range file.Packages {
		key := domain.NormalizeName(name)
		idx.packages[key] = append(idx.packages[key], versions...)
	}
	return idx, nil
}

// Source returns the index file path.
func (s *StaticIndex) Source() string {
	return s.path
}

// Versions returns the versions listed for the package.
func (s *StaticIndex) Versions(_ context.Context, name string) ([]string, error) {
	versions, ok := s.packages[domain.NormalizeName(name)]
	if !ok {
		return nil, domain.Tag(domain.ErrPackageNotFound, "package", name)
	}
	return versions, nil
}
