package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
)

// stageInputs digests what a stage reads from outside its declaration: copied build
// context files, the dependency manifest and its index, and installer templates.
// Locations are hashed as declared so moving the build context keeps the keys.
func (p *Pipeline) stageInputs(st domain.Stage, spec *domain.ImageSpec, opts domain.BuildOptions) (digest.Digest, error) {
	d := digest.Canonical.Digester()
	h := d.Hash()
	write := func(fields ...string) {
		_, _ = h.Write([]byte(strings.Join(fields, "\x00") + "\x00\x00"))
	}

	for _, a := range st.Actions {
		kind, err := a.Kind()
		if err != nil {
			return "", err
		}
		switch kind {
		case domain.ActionPackages:
			write(append([]string{"system-installer"}, spec.Installers.System...)...)
		case domain.ActionManifest:
			files, err := p.Resolver.ResolveInputs([]string{a.Manifest}, opts.ContextDir, nil)
			if err != nil {
				return "", err
			}
			sum, err := p.Hasher.HashFiles(opts.ContextDir, files)
			if err != nil {
				return "", err
			}
			index, err := p.indexInput(spec.Installers.Index, opts.ContextDir)
			if err != nil {
				return "", err
			}
			write("manifest", sum, spec.Installers.Index, index)
			write(append([]string{"python-installer"}, spec.Installers.Python...)...)
		case domain.ActionCopy:
			files, err := p.Resolver.ResolveInputs(a.Copy.From, opts.ContextDir, copyIgnores(a.Copy, opts))
			if err != nil {
				return "", err
			}
			sum, err := p.Hasher.HashFiles(opts.ContextDir, files)
			if err != nil {
				return "", err
			}
			write("copy", sum)
		case domain.ActionPrune, domain.ActionIdentity, domain.ActionMkdir, domain.ActionRun, domain.ActionUser:
		}
	}
	return d.Digest(), nil
}

// indexInput hashes the content of a static index file. Remote indexes contribute
// only their URL.
func (p *Pipeline) indexInput(location, contextDir string) (string, error) {
	if strings.Contains(location, "://") {
		return "", nil
	}
	host := indexLocation(location, contextDir)
	return p.Hasher.HashFiles(filepath.Dir(host), []string{filepath.Base(host)})
}
