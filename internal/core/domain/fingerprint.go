package domain

import (
	"hash"
	"maps"
	"slices"
	"strconv"

	"github.com/opencontainers/go-digest"
)

// ResolverVersion is folded into the key of every stage that resolves a dependency manifest.
// Bump it whenever resolution semantics change so old layers are not reused.
const ResolverVersion = "stevedore-resolver/1"

// BaseKey fingerprints the base environment together with the build-wide environment,
// the command prefix and the execution identity. It is the parent of the first stage key.
func BaseKey(base BaseRef, env map[string]string, shell []string, id Identity) digest.Digest {
	d := digest.Canonical.Digester()
	h := d.Hash()

	writeField(h, "base")
	writeField(h, base.Reference)
	writeField(h, base.Digest.String())
	writeSection(h)

	writeField(h, "env")
	for _, k := range slices.Sorted(maps.Keys(env)) {
		writeField(h, k+"="+env[k])
	}
	writeSection(h)

	writeField(h, "shell")
	for _, s := range shell {
		writeField(h, s)
	}
	writeSection(h)

	writeField(h, "identity")
	writeField(h, id.Name)
	writeField(h, strconv.Itoa(id.UID))
	writeField(h, strconv.Itoa(id.GID))
	writeField(h, id.Home)
	writeSection(h)

	return d.Digest()
}

// StageKey derives the cache key of a stage from its parent key, its declared actions and
// the digest of its external inputs. It never depends on time.
func StageKey(parent digest.Digest, stage Stage, inputs digest.Digest) digest.Digest {
	d := digest.Canonical.Digester()
	h := d.Hash()

	writeField(h, parent.String())
	writeField(h, stage.Name)
	writeSection(h)

	for _, a := range stage.Actions {
		writeAction(h, a)
		writeSection(h)
	}

	writeField(h, inputs.String())
	return d.Digest()
}

func writeAction(h hash.Hash, a Action) {
	kind, _ := a.Kind()
	writeField(h, string(kind))

	switch kind {
	case ActionPackages:
		writeList(h, a.Packages)
	case ActionPrune:
		writeList(h, a.Prune)
	case ActionIdentity:
	case ActionManifest:
		writeField(h, a.Manifest)
		writeField(h, ResolverVersion)
	case ActionCopy:
		writeList(h, a.Copy.From)
		writeField(h, a.Copy.To)
		writeField(h, a.Copy.Owner)
		writeList(h, a.Copy.Ignore)
	case ActionMkdir:
		writeList(h, a.Mkdir.Paths)
		writeField(h, a.Mkdir.Owner)
		writeField(h, strconv.FormatUint(uint64(a.Mkdir.Mode), 8))
	case ActionRun:
		writeList(h, a.Run)
	case ActionUser:
		writeField(h, a.User)
	}
}

func writeList(h hash.Hash, items []string) {
	writeField(h, strconv.Itoa(len(items)))
	for _, s := range items {
		writeField(h, s)
	}
}

func writeField(h hash.Hash, s string) {
	_, _ = h.Write([]byte(s))
	_, _ = h.Write([]byte{0})
}

func writeSection(h hash.Hash) {
	_, _ = h.Write([]byte{0})
}
