package pip

import (
	"net/http"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

var _ ports.IndexOpener = (*Opener)(nil)

// Opener picks the index implementation from its location.
type Opener struct {
	Client *http.Client
}

// NewOpener creates an Opener using client for remote indexes.
func NewOpener(client *http.Client) *Opener {
	return &Opener{Client: client}
}

// Open returns a PyPI client for http(s) locations and a static index otherwise.
// Relative index paths are resolved by the caller.
func (o *Opener) Open(location string) (ports.PackageIndex, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewPyPI(location, o.Client), nil
	}
	idx, err := LoadStaticIndex(location)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
