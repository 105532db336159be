package rootfs

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Whiteout markers of the OCI layer format.
const (
	whiteoutPrefix = ".wh."
	whiteoutOpaque = ".wh..wh..opq"
)

// layerEpoch is the modification time of every layer entry, so identical trees
// produce identical layers.
var layerEpoch = time.Unix(0, 0).UTC()

// entry is the state of one tree path at snapshot time.
type entry struct {
	typ   fs.FileMode
	perm  fs.FileMode
	size  int64
	mtime time.Time
	hash  uint64
	link  string
	owner domain.Owner
	owned bool
}

func (e entry) differs(o entry) bool {
	return e.typ != o.typ || e.perm != o.perm || e.hash != o.hash ||
		e.link != o.link || e.owner != o.owner
}

// Snapshot records the current state of the tree.
func (t *Tree) Snapshot() error {
	cur, err := t.scan(t.base)
	if err != nil {
		return err
	}
	t.base = cur
	return nil
}

// Commit writes every change since the last snapshot as a deterministic tar layer:
// whiteouts for removed paths first, then added and modified entries in path order.
func (t *Tree) Commit(w io.Writer, owners ports.OwnerFunc) (domain.LayerStats, error) {
	cur, err := t.scan(t.base)
	if err != nil {
		return domain.LayerStats{}, err
	}
	for key, e := range cur {
		if e.owned {
			continue
		}
		var owner domain.Owner
		if owners != nil {
			owner = owners(key)
		}
		t.owners[key] = owner
		e.owner, e.owned = owner, true
		cur[key] = e
	}

	var stats domain.LayerStats
	tw := tar.NewWriter(w)

	for _, key := range removedPaths(t.base, cur) {
		hdr := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     strings.TrimPrefix(path.Join(path.Dir(key), whiteoutPrefix+path.Base(key)), "/"),
			Mode:     0o644,
			ModTime:  layerEpoch,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return domain.LayerStats{}, zerr.Wrap(err, "failed to write whiteout")
		}
		stats.Removed++
	}

	for _, key := range slices.Sorted(maps.Keys(cur)) {
		e := cur[key]
		old, ok := t.base[key]
		switch {
		case !ok:
			stats.Added++
		case old.differs(e):
			stats.Modified++
		default:
			continue
		}
		if err := t.writeEntry(tw, key, e); err != nil {
			return domain.LayerStats{}, err
		}
	}

	if err := tw.Close(); err != nil {
		return domain.LayerStats{}, zerr.Wrap(err, "failed to finish layer")
	}
	t.base = cur
	return stats, nil
}

// removedPaths lists paths gone since the snapshot, omitting children of removed directories.
func removedPaths(base, cur map[string]entry) []string {
	var removed []string
	for _, key := range slices.Sorted(maps.Keys(base)) {
		if _, ok := cur[key]; ok {
			continue
		}
		if n := len(removed); n > 0 && strings.HasPrefix(key, removed[n-1]+"/") {
			continue
		}
		removed = append(removed, key)
	}
	return removed
}

func (t *Tree) writeEntry(tw *tar.Writer, key string, e entry) error {
	hdr := &tar.Header{
		Name:    strings.TrimPrefix(key, "/"),
		Mode:    tarMode(e.perm),
		Uid:     e.owner.UID,
		Gid:     e.owner.GID,
		ModTime: layerEpoch,
	}
	switch e.typ {
	case fs.ModeDir:
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
	case fs.ModeSymlink:
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = e.link
	default:
		hdr.Typeflag = tar.TypeReg
		hdr.Size = e.size
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write layer entry"), "path", key)
	}
	if hdr.Typeflag != tar.TypeReg {
		return nil
	}

	host := filepath.Join(t.root, filepath.FromSlash(key))
	//nolint:gosec // host is confined to the tree
	f, err := os.Open(host)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open layer entry"), "path", key)
	}
	defer f.Close() //nolint:errcheck // read-only
	if _, err := io.CopyN(tw, f, e.size); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write layer content"), "path", key)
	}
	return nil
}

// scan walks the tree. Content hashes are reused from prev when size and mtime match.
func (t *Tree) scan(prev map[string]entry) (map[string]entry, error) {
	cur := make(map[string]entry, len(prev))
	err := filepath.WalkDir(t.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == t.root {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		typ := info.Mode().Type()
		if typ != 0 && typ != fs.ModeDir && typ != fs.ModeSymlink {
			return nil
		}

		key := t.key(p)
		e := entry{typ: typ, perm: info.Mode() & permMask, mtime: info.ModTime()}
		if perm, ok := t.perms[key]; ok {
			e.perm = perm
		}
		e.owner, e.owned = t.owners[key]

		switch typ {
		case fs.ModeSymlink:
			if e.link, err = os.Readlink(p); err != nil {
				return err
			}
		case 0:
			e.size = info.Size()
			if old, ok := prev[key]; ok && old.typ == 0 && old.size == e.size && old.mtime.Equal(e.mtime) {
				e.hash = old.hash
			} else if e.hash, err = hashFile(p); err != nil {
				return err
			}
		}
		cur[key] = e
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to scan staging tree"), "path", t.root)
	}
	return cur, nil
}

func hashFile(p string) (uint64, error) {
	//nolint:gosec // p is confined to the tree
	f, err := os.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // read-only
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Apply unpacks a layer into the tree. Device nodes and fifos are skipped.
func (t *Tree) Apply(r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Join(domain.ErrLayerCorrupt, err)
		}
		if err := t.applyEntry(tr, hdr); err != nil {
			return domain.Tag(err, "entry", hdr.Name)
		}
	}
}

func (t *Tree) applyEntry(tr *tar.Reader, hdr *tar.Header) error {
	key := path.Clean("/" + hdr.Name)
	if key == "/" {
		return nil
	}
	dir, base := path.Dir(key), path.Base(key)

	switch {
	case base == whiteoutOpaque:
		return t.clearDir(dir)
	case strings.HasPrefix(base, whiteoutPrefix):
		return t.Remove(path.Join(dir, strings.TrimPrefix(base, whiteoutPrefix)))
	}

	host, err := t.HostPath(key)
	if err != nil {
		return err
	}
	owner := domain.Owner{UID: hdr.Uid, GID: hdr.Gid}
	mode := fs.FileMode(hdr.Mode).Perm() | fromTarMode(hdr.Mode)

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := t.replaceNonDir(host); err != nil {
			return err
		}
		if err := os.MkdirAll(host, hostDirPerm); err != nil {
			return zerr.Wrap(err, "failed to create directory")
		}
		if err := t.setPerm(host, mode, true); err != nil {
			return err
		}
	case tar.TypeReg:
		if err := t.ensureParent(host); err != nil {
			return err
		}
		if err := t.replace(host); err != nil {
			return err
		}
		if err := writeFrom(host, tr); err != nil {
			return err
		}
		if err := t.setPerm(host, mode, false); err != nil {
			return err
		}
	case tar.TypeSymlink:
		if err := t.ensureParent(host); err != nil {
			return err
		}
		if err := t.replace(host); err != nil {
			return err
		}
		if err := os.Symlink(hdr.Linkname, host); err != nil {
			return zerr.Wrap(err, "failed to create symlink")
		}
	case tar.TypeLink:
		target, err := t.HostPath("/" + hdr.Linkname)
		if err != nil {
			return err
		}
		if err := t.ensureParent(host); err != nil {
			return err
		}
		if err := t.replace(host); err != nil {
			return err
		}
		if err := os.Link(target, host); err != nil {
			return zerr.Wrap(err, "failed to create hard link")
		}
		if perm, ok := t.perms[t.key(target)]; ok {
			t.perms[t.key(host)] = perm
		}
	default:
		return nil
	}

	t.owners[t.key(host)] = owner
	return nil
}

func (t *Tree) clearDir(imageDir string) error {
	host, err := t.HostPath(imageDir)
	if err != nil {
		return err
	}
	children, err := os.ReadDir(host)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return zerr.Wrap(err, "failed to read directory")
	}
	for _, c := range children {
		if err := t.Remove(path.Join(t.key(host), c.Name())); err != nil {
			return err
		}
	}
	return nil
}

func writeFrom(host string, r io.Reader) error {
	//nolint:gosec // host is confined to the tree
	f, err := os.OpenFile(host, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return zerr.Wrap(err, "failed to write file")
	}
	return f.Close()
}

func tarMode(perm fs.FileMode) int64 {
	mode := int64(perm.Perm())
	if perm&fs.ModeSetuid != 0 {
		mode |= 0o4000
	}
	if perm&fs.ModeSetgid != 0 {
		mode |= 0o2000
	}
	if perm&fs.ModeSticky != 0 {
		mode |= 0o1000
	}
	return mode
}

func fromTarMode(mode int64) fs.FileMode {
	var out fs.FileMode
	if mode&0o4000 != 0 {
		out |= fs.ModeSetuid
	}
	if mode&0o2000 != 0 {
		out |= fs.ModeSetgid
	}
	if mode&0o1000 != 0 {
		out |= fs.ModeSticky
	}
	return out
}
