// Package pip resolves Python dependency manifests against a package index.
package pip

import (
	"context"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

var _ ports.DependencyResolver = (*Resolver)(nil)

// Resolver pins each requirement to the highest published version that satisfies it.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve pins every requirement of the manifest. Pre-releases are only chosen when a
// specifier names one. Unparseable published versions are skipped.
func (r *Resolver) Resolve(
	ctx context.Context,
	manifest *domain.Manifest,
	index ports.PackageIndex,
) (domain.Lock, error) {
	pins := make([]domain.Pin, 0, len(manifest.Requirements))
	for _, req := range manifest.Requirements {
		if err := ctx.Err(); err != nil {
			return domain.Lock{}, err
		}

		published, err := index.Versions(ctx, req.Name)
		if err != nil {
			return domain.Lock{}, domain.Tag(err, "package", req.Name)
		}

		best, ok := selectVersion(req, published)
		if !ok {
			err := domain.Tag(domain.ErrUnsatisfiableConstraint, "requirement", req.String())
			return domain.Lock{}, domain.Tag(err, "index", index.Source())
		}
		pins = append(pins, domain.Pin{Name: req.Name, Extras: req.Extras, Version: best.Raw})
	}
	return domain.NewLock(pins), nil
}

func selectVersion(req domain.Requirement, published []string) (domain.Version, bool) {
	pre := req.AllowsPrereleases()

	var best domain.Version
	found := false
	for _, raw := range published {
		v, err := domain.ParseVersion(raw)
		if err != nil {
			v = domain.Version{Raw: raw}
			if !hasArbitrary(req) {
				continue
			}
		}
		if v.IsPrerelease() && !pre {
			continue
		}
		if !req.Allows(v) {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

func hasArbitrary(req domain.Requirement) bool {
	for _, s := range req.Specifiers {
		if s.Op == domain.OpArbitrary {
			return true
		}
	}
	return false
}
